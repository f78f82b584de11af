package model

import "time"

// Result is the complete outcome of one analysis run.
// It lives only for the duration of the command that produced it.
type Result struct {
	RunID     string        `json:"run_id"`
	Mode      string        `json:"mode"`              // claim, url, youtube, document
	Source    string        `json:"source"`            // Claim text, URL or filename as supplied
	Content   string        `json:"-"`                 // Normalized text sent to the backend
	Report    string        `json:"report"`            // Free-text report from the backend
	Verdict   Verdict       `json:"verdict"`           // Classified from Report
	Rule      string        `json:"rule,omitempty"`    // Classifier rule that fired
	Notices   []string      `json:"notices,omitempty"` // Informational messages (file accepted, URL recognized)
	Warnings  []string      `json:"warnings,omitempty"`
	Provider  string        `json:"provider"`
	Model     string        `json:"model,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
}

// ExportFormat selects an artifact representation
type ExportFormat string

const (
	FormatPlainText ExportFormat = "text"
	FormatMarkdown  ExportFormat = "markdown"
	FormatJSON      ExportFormat = "json"
)

// Artifact is a rendered, downloadable report
type Artifact struct {
	Format   ExportFormat
	Filename string
	MIMEType string
	Body     string
}
