package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingInput is returned when no input channel carries content
	ErrMissingInput = errors.New("no input provided")

	// ErrAmbiguousInput is returned when more than one input channel carries content
	ErrAmbiguousInput = errors.New("more than one input provided")

	// ErrMissingCredential is returned when the backend credential is not configured
	ErrMissingCredential = errors.New("missing backend credential")
)

// UnsupportedFormatError reports an upload whose suffix has no decoder
type UnsupportedFormatError struct {
	Filename string
	Ext      string
}

func (e *UnsupportedFormatError) Error() string {
	ext := e.Ext
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("unsupported format %s for %s (supported: pdf, docx, txt)", ext, e.Filename)
}

// EncodingError reports a text upload that no attempted encoding could decode
type EncodingError struct {
	Filename string
	Tried    []string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("unable to decode %s (tried %s)", e.Filename, strings.Join(e.Tried, ", "))
}

// ExtractionError wraps any failure while parsing an uploaded document
type ExtractionError struct {
	Filename string
	Format   string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// AnalysisError wraps a failure raised by the analysis backend
type AnalysisError struct {
	Provider string
	Err      error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis via %s: %v", e.Provider, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}
