package validate

import (
	"fmt"
	"strings"

	"github.com/ppiankov/verifact/internal/model"
)

// Outcome is the result of validating a raw input
type Outcome struct {
	Mode     model.InputMode
	Notices  []string // Positive confirmations shown to the user
	Warnings []string // Soft validation failures; the run still proceeds
}

// Validator enforces the single-channel input contract
type Validator struct{}

// NewValidator creates a new input validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks that exactly one input channel is populated and resolves the mode.
// A channel counts as populated when it is non-empty; whitespace is content.
// It returns model.ErrMissingInput when every channel is empty.
func (v *Validator) Validate(raw model.RawInput) (Outcome, error) {
	var modes []model.InputMode

	if raw.Claim != "" {
		modes = append(modes, model.ModeTextClaim)
	}
	if raw.URL != "" {
		modes = append(modes, model.ModeWebsiteURL)
	}
	if raw.YouTubeURL != "" {
		modes = append(modes, model.ModeYouTubeVideo)
	}
	if !raw.Document.IsEmpty() {
		modes = append(modes, model.ModeDocumentUpload)
	}

	switch len(modes) {
	case 0:
		return Outcome{}, model.ErrMissingInput
	case 1:
	default:
		names := make([]string, len(modes))
		for i, m := range modes {
			names[i] = m.String()
		}
		return Outcome{}, fmt.Errorf("%w: %s", model.ErrAmbiguousInput, strings.Join(names, ", "))
	}

	outcome := Outcome{Mode: modes[0]}

	switch outcome.Mode {
	case model.ModeYouTubeVideo:
		// Soft check only: a malformed link is reported but analysed anyway
		if IsYouTubeURL(raw.YouTubeURL) {
			outcome.Notices = append(outcome.Notices, "Valid YouTube URL detected")
		} else {
			outcome.Warnings = append(outcome.Warnings, "Please enter a valid YouTube URL")
		}
	case model.ModeDocumentUpload:
		outcome.Notices = append(outcome.Notices,
			fmt.Sprintf("File uploaded: %s (%.1f KB)", raw.Document.Name, raw.Document.SizeKB()))
	}

	return outcome, nil
}

// Source returns the user-supplied value of the channel selected by mode
func Source(mode model.InputMode, raw model.RawInput) string {
	switch mode {
	case model.ModeTextClaim:
		return raw.Claim
	case model.ModeWebsiteURL:
		return raw.URL
	case model.ModeYouTubeVideo:
		return raw.YouTubeURL
	case model.ModeDocumentUpload:
		if raw.Document != nil {
			return raw.Document.Name
		}
	}
	return ""
}
