package model

import (
	"math"
	"path/filepath"
	"strings"
)

// InputMode identifies which input channel a run reads from
type InputMode int

const (
	ModeUnknown        InputMode = iota
	ModeTextClaim                // Free-form factual statement
	ModeWebsiteURL               // Article or page URL, passed through verbatim
	ModeYouTubeVideo             // YouTube watch or short link
	ModeDocumentUpload           // PDF, DOCX or TXT upload
)

func (m InputMode) String() string {
	switch m {
	case ModeTextClaim:
		return "claim"
	case ModeWebsiteURL:
		return "url"
	case ModeYouTubeVideo:
		return "youtube"
	case ModeDocumentUpload:
		return "document"
	default:
		return "unknown"
	}
}

// Label returns the human-readable mode name shown to users
func (m InputMode) Label() string {
	switch m {
	case ModeTextClaim:
		return "Text Claim"
	case ModeWebsiteURL:
		return "Website URL"
	case ModeYouTubeVideo:
		return "YouTube Video"
	case ModeDocumentUpload:
		return "Document Upload"
	default:
		return "Unknown"
	}
}

// RawInput holds the four input channels of a single run.
// Exactly one channel is expected to be populated; the validator enforces it.
type RawInput struct {
	Claim      string
	URL        string
	YouTubeURL string
	Document   *Document
}

// Document is an uploaded file held in memory
type Document struct {
	Name string // Original filename, used for format dispatch
	Size int64  // Declared size in bytes
	Data []byte
}

// Ext returns the lower-cased filename suffix including the dot (".pdf")
func (d *Document) Ext() string {
	return strings.ToLower(filepath.Ext(d.Name))
}

// SizeKB returns the declared size in kilobytes rounded to one decimal
func (d *Document) SizeKB() float64 {
	return math.Round(float64(d.Size)/1024*10) / 10
}

// IsEmpty reports whether the document carries no upload at all
func (d *Document) IsEmpty() bool {
	return d == nil || (d.Name == "" && len(d.Data) == 0)
}
