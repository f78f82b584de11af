// Package report renders analysis results into downloadable artifacts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/verifact/internal/model"
)

const (
	// PreviewLimit is the number of characters of input echoed in an artifact
	PreviewLimit = 200

	// PlainTextFilename is the download name of the plain-text artifact
	PlainTextFilename = "verifact_professional_report.txt"

	// MarkdownFilename is the download name of the Markdown artifact
	MarkdownFilename = "verifact_professional_report.md"
)

// Renderer builds report artifacts; it holds no state
type Renderer struct{}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Preview returns the first 200 characters of content, followed by "..."
// when anything was cut off
func (r *Renderer) Preview(content string) string {
	runes := []rune(content)
	if len(runes) <= PreviewLimit {
		return content
	}
	return string(runes[:PreviewLimit]) + "..."
}

// Export renders content and report in the requested format
func (r *Renderer) Export(content, report string, format model.ExportFormat) (model.Artifact, error) {
	switch format {
	case model.FormatPlainText:
		return model.Artifact{
			Format:   format,
			Filename: PlainTextFilename,
			MIMEType: "text/plain",
			Body:     r.plainText(content, report),
		}, nil
	case model.FormatMarkdown:
		return model.Artifact{
			Format:   format,
			Filename: MarkdownFilename,
			MIMEType: "text/markdown",
			Body:     r.markdown(content, report),
		}, nil
	default:
		return model.Artifact{}, fmt.Errorf("unsupported export format: %q (supported: text, markdown; use ExportJSON for json)", format)
	}
}

// ExportAll renders both downloadable artifacts
func (r *Renderer) ExportAll(content, report string) []model.Artifact {
	text, _ := r.Export(content, report, model.FormatPlainText)
	md, _ := r.Export(content, report, model.FormatMarkdown)
	return []model.Artifact{text, md}
}

func (r *Renderer) plainText(content, report string) string {
	var b strings.Builder

	b.WriteString("VERIFACT PROFESSIONAL VERIFICATION REPORT\n")
	b.WriteString(strings.Repeat("=", 50))
	b.WriteString("\n\n")
	b.WriteString("Input Content: ")
	b.WriteString(r.Preview(content))
	b.WriteString("\n\n")
	b.WriteString("Analysis Results:\n")
	b.WriteString(strings.Repeat("-", 20))
	b.WriteString("\n\n")
	b.WriteString(report)

	return b.String()
}

func (r *Renderer) markdown(content, report string) string {
	var b strings.Builder

	b.WriteString("# VERIFACT Professional Verification Report\n\n")
	b.WriteString("## Input Analysis\n")
	b.WriteString("**Content:** ")
	b.WriteString(r.Preview(content))
	b.WriteString("\n\n")
	b.WriteString("## Verification Results\n\n")
	b.WriteString(report)
	b.WriteString("\n\n---\n")
	b.WriteString("*Generated by VERIFACT AI Fact-Checking System*\n")
	b.WriteString("*Powered by Multi-Agent Intelligence Architecture*\n")

	return b.String()
}

// WriteTo writes the artifact body to a caller-provided sink
func (r *Renderer) WriteTo(w io.Writer, artifact model.Artifact) error {
	if _, err := io.WriteString(w, artifact.Body); err != nil {
		return fmt.Errorf("write %s: %w", artifact.Filename, err)
	}
	return nil
}

// WriteFile stores the artifact under dir using its download filename
// and returns the path written
func (r *Renderer) WriteFile(dir string, artifact model.Artifact) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(dir, artifact.Filename)
	if err := os.WriteFile(path, []byte(artifact.Body), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ExportJSON renders v as an indented JSON artifact named filename
func (r *Renderer) ExportJSON(filename string, v any) (model.Artifact, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return model.Artifact{}, fmt.Errorf("marshal JSON: %w", err)
	}
	return model.Artifact{
		Format:   model.FormatJSON,
		Filename: filename,
		MIMEType: "application/json",
		Body:     string(data) + "\n",
	}, nil
}

// WriteJSON writes v as indented JSON to path
func (r *Renderer) WriteJSON(path string, v any) error {
	artifact, err := r.ExportJSON(filepath.Base(path), v)
	if err != nil {
		return err
	}
	_, err = r.WriteFile(filepath.Dir(path), artifact)
	return err
}
