// Package extract normalizes every supported input channel into a single text payload.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/verifact/internal/model"
)

// Decoder turns the raw bytes of one document format into text
type Decoder interface {
	// Name returns the format name used in logs and errors
	Name() string

	// Extensions lists the lower-cased suffixes this decoder handles (".pdf")
	Extensions() []string

	// Decode extracts the full text of the document
	Decode(data []byte, filename string) (string, error)
}

// Extractor converts a raw input into normalized content
type Extractor struct {
	decoders map[string]Decoder
	logger   *zap.Logger
}

// NewExtractor creates an extractor with the built-in PDF, DOCX and TXT decoders
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Extractor{
		decoders: make(map[string]Decoder),
		logger:   logger,
	}

	e.Register(NewPDFDecoder())
	e.Register(NewDOCXDecoder())
	e.Register(NewTextDecoder())

	return e
}

// Register adds or replaces the decoder for each of its extensions
func (e *Extractor) Register(d Decoder) {
	for _, ext := range d.Extensions() {
		e.decoders[strings.ToLower(ext)] = d
	}
}

// Supported reports whether an upload with this filename has a decoder
func (e *Extractor) Supported(filename string) bool {
	doc := model.Document{Name: filename}
	_, ok := e.decoders[doc.Ext()]
	return ok
}

// Extract returns the normalized content for the selected mode.
// Text, URL and YouTube inputs pass through unchanged; documents are decoded by suffix.
func (e *Extractor) Extract(mode model.InputMode, raw model.RawInput) (string, error) {
	switch mode {
	case model.ModeTextClaim:
		return raw.Claim, nil
	case model.ModeWebsiteURL:
		return raw.URL, nil
	case model.ModeYouTubeVideo:
		return raw.YouTubeURL, nil
	case model.ModeDocumentUpload:
		if raw.Document == nil {
			return "", model.ErrMissingInput
		}
		return e.ExtractDocument(raw.Document)
	default:
		return "", fmt.Errorf("unknown input mode: %d", mode)
	}
}

// ExtractDocument decodes an uploaded document.
// Unknown suffixes fail with *model.UnsupportedFormatError before any parsing starts.
func (e *Extractor) ExtractDocument(doc *model.Document) (string, error) {
	ext := doc.Ext()
	decoder, ok := e.decoders[ext]
	if !ok {
		return "", &model.UnsupportedFormatError{Filename: doc.Name, Ext: ext}
	}

	e.logger.Debug("decoding document",
		zap.String("file", doc.Name),
		zap.String("format", decoder.Name()),
		zap.Int("bytes", len(doc.Data)))

	text, err := decode(decoder, doc)
	if err != nil {
		var encErr *model.EncodingError
		if errors.As(err, &encErr) {
			return "", err
		}
		return "", &model.ExtractionError{Filename: doc.Name, Format: decoder.Name(), Err: err}
	}

	if strings.TrimSpace(text) == "" {
		return "", &model.ExtractionError{
			Filename: doc.Name,
			Format:   decoder.Name(),
			Err:      errors.New("no text content found"),
		}
	}

	return text, nil
}

// decode runs the decoder and converts a parser panic into an error
func decode(d Decoder, doc *model.Document) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%s parser: %v", d.Name(), r)
		}
	}()
	return d.Decode(doc.Data, doc.Name)
}
