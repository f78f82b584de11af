package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/verifact/internal/model"
	"github.com/ppiankov/verifact/internal/report"
)

// userMessage maps a run error to the message shown to the user.
// warning is true for problems the user fixes by changing the input.
func userMessage(err error) (msg string, warning bool) {
	var (
		usage       *usageErr
		encErr      *model.EncodingError
		formatErr   *model.UnsupportedFormatError
		extractErr  *model.ExtractionError
		analysisErr *model.AnalysisError
	)

	switch {
	case errors.As(err, &usage):
		return usage.msg, true

	case errors.Is(err, model.ErrMissingInput):
		return "Input Required: Please provide content to analyze before starting the verification process.", true

	case errors.Is(err, model.ErrAmbiguousInput):
		return "Input Required: Please provide exactly one of a claim, a URL, a YouTube link or a file.", true

	case errors.Is(err, model.ErrMissingCredential):
		return fmt.Sprintf("Configuration Error: %v", err), false

	case errors.As(err, &encErr):
		return "File Processing Error: Unable to decode text file. Please ensure UTF-8 encoding.", false

	case errors.As(err, &formatErr):
		return "Unsupported Format: Please upload a PDF, Word document, or text file.", false

	case errors.As(err, &extractErr):
		return fmt.Sprintf("File Processing Error: %v", extractErr.Err), false

	case errors.Is(err, context.Canceled):
		return "Cancelled: The verification was interrupted before it finished.", true

	case errors.As(err, &analysisErr):
		return fmt.Sprintf("Analysis Error: %v", analysisErr.Err), false

	default:
		return fmt.Sprintf("Error: %v", err), false
	}
}

// reportError prints a command failure to stderr
func reportError(cmd *cobra.Command, err error) {
	term := report.NewTerminal(report.WithPlain(viper.GetBool("output.plain")))
	msg, warning := userMessage(err)

	if warning {
		fmt.Fprintln(os.Stderr, term.Warning(msg))
	} else {
		fmt.Fprintln(os.Stderr, term.Error(msg))
	}

	var usage *usageErr
	if cmd != nil && errors.As(err, &usage) {
		fmt.Fprintln(os.Stderr)
		fmt.Fprint(os.Stderr, cmd.UsageString())
	}
}

// usageErr marks errors caused by command-line misuse
type usageErr struct {
	msg string
}

func (e *usageErr) Error() string {
	return e.msg
}

func usageError(format string, a ...any) error {
	return &usageErr{msg: fmt.Sprintf(format, a...)}
}
