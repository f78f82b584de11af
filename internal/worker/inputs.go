package worker

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/verifact/internal/model"
	"github.com/ppiankov/verifact/internal/validate"
)

// BatchInput is one non-comment line of a batch file
type BatchInput struct {
	Line int    // 1-based line number in the batch file
	Text string // Trimmed line as written
	Mode model.InputMode
	Raw  model.RawInput
	Err  error // Set when the line cannot be turned into an input (unreadable @file)
}

// ReadInputsFromFile reads batch inputs from a file (one per line).
// Relative @document paths resolve against the batch file's directory.
func ReadInputsFromFile(filePath string) ([]BatchInput, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ParseInputs(file, filepath.Dir(filePath))
}

// ParseInputs parses batch lines.
// Blank lines and lines starting with "#" are skipped; repeated lines are kept once.
func ParseInputs(r io.Reader, baseDir string) ([]BatchInput, error) {
	var inputs []BatchInput
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if seen[line] {
			continue
		}
		seen[line] = true

		inputs = append(inputs, NewBatchInput(lineNo, line, baseDir))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return inputs, nil
}

// NewBatchInput turns one line into an input, inferring its mode from the text
func NewBatchInput(lineNo int, line, baseDir string) BatchInput {
	in := BatchInput{Line: lineNo, Text: line, Mode: validate.ClassifyLine(line)}

	switch in.Mode {
	case model.ModeYouTubeVideo:
		in.Raw.YouTubeURL = line
	case model.ModeWebsiteURL:
		in.Raw.URL = line
	case model.ModeDocumentUpload:
		doc, err := LoadDocument(strings.TrimPrefix(line, validate.DocumentPrefix), baseDir)
		if err != nil {
			in.Err = err
		}
		in.Raw.Document = doc
	default:
		in.Raw.Claim = line
	}

	return in
}

// LoadDocument reads a local file into an upload.
// Relative paths resolve against baseDir when it is set.
func LoadDocument(path, baseDir string) (*model.Document, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("document path is empty")
	}
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	return &model.Document{
		Name: filepath.Base(path),
		Size: int64(len(data)),
		Data: data,
	}, nil
}
