package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXDecoder extracts paragraph text from Office Open XML documents
type DOCXDecoder struct{}

// NewDOCXDecoder creates the DOCX decoder
func NewDOCXDecoder() *DOCXDecoder {
	return &DOCXDecoder{}
}

func (d *DOCXDecoder) Name() string { return "docx" }

func (d *DOCXDecoder) Extensions() []string { return []string{".docx"} }

// Decode returns the text of each top-level body paragraph, joined with newlines.
// Tables are skipped, and so are text boxes, which live inside drawings.
func (d *DOCXDecoder) Decode(data []byte, filename string) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var paragraphs []string
	for _, item := range doc.Document.Body.Items {
		p, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		paragraphs = append(paragraphs, paragraphText(p))
	}

	return strings.Join(paragraphs, "\n"), nil
}

// paragraphText renders the runs of p, including those inside hyperlinks
func paragraphText(p *docx.Paragraph) string {
	var b strings.Builder
	for _, child := range p.Children {
		switch c := child.(type) {
		case *docx.Run:
			writeRun(&b, c)
		case *docx.Hyperlink:
			writeRun(&b, &c.Run)
		}
	}
	return b.String()
}

func writeRun(b *strings.Builder, r *docx.Run) {
	for _, child := range r.Children {
		switch c := child.(type) {
		case *docx.Text:
			b.WriteString(c.Text)
		case *docx.Tab:
			b.WriteByte('\t')
		case *docx.BarterRabbet:
			b.WriteByte('\n')
		}
	}
}
