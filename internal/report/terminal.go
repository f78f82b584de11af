package report

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/microcosm-cc/bluemonday"

	"github.com/ppiankov/verifact/internal/model"
)

// autolinkPattern matches Markdown autolinks, which an HTML sanitizer would read as tags
var autolinkPattern = regexp.MustCompile(`<(https?://[^>\s]+)>`)

var toneColors = map[model.Tone]lipgloss.Color{
	model.ToneSuccess: lipgloss.Color("42"),
	model.ToneDanger:  lipgloss.Color("196"),
	model.ToneWarning: lipgloss.Color("214"),
	model.ToneInfo:    lipgloss.Color("39"),
}

// Terminal formats results for display on a terminal
type Terminal struct {
	plain    bool
	wordWrap int
	style    string
	policy   *bluemonday.Policy
}

// TerminalOption configures a Terminal
type TerminalOption func(*Terminal)

// WithPlain disables colors, borders and Markdown rendering
func WithPlain(plain bool) TerminalOption {
	return func(t *Terminal) { t.plain = plain }
}

// WithWordWrap sets the Markdown wrap width
func WithWordWrap(width int) TerminalOption {
	return func(t *Terminal) {
		if width > 0 {
			t.wordWrap = width
		}
	}
}

// WithGlamourStyle selects a standard glamour style ("dark", "light", "notty").
// Empty picks the style from the terminal background.
func WithGlamourStyle(style string) TerminalOption {
	return func(t *Terminal) { t.style = style }
}

// NewTerminal creates a terminal formatter
func NewTerminal(opts ...TerminalOption) *Terminal {
	t := &Terminal{
		wordWrap: 100,
		policy:   bluemonday.StrictPolicy(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Banner renders the verdict headline, boxed and colored by tone
func (t *Terminal) Banner(v model.Verdict) string {
	if t.plain {
		return v.Headline()
	}

	color := toneColors[v.Tone()]
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(color).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 2).
		Render(v.Headline())
}

// Sanitize strips raw HTML that backends sometimes emit inside Markdown reports
func (t *Terminal) Sanitize(report string) string {
	report = autolinkPattern.ReplaceAllString(report, "$1")
	return html.UnescapeString(t.policy.Sanitize(report))
}

// RenderReport sanitizes the report and renders its Markdown for the terminal
func (t *Terminal) RenderReport(report string) (string, error) {
	clean := t.Sanitize(report)
	if t.plain {
		return clean, nil
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(t.wordWrap)}
	if t.style != "" {
		opts = append(opts, glamour.WithStandardStyle(t.style))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}

	out, err := renderer.Render(clean)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// Heading renders a section title
func (t *Terminal) Heading(title string) string {
	if t.plain {
		return title + "\n" + strings.Repeat("-", len([]rune(title)))
	}
	return lipgloss.NewStyle().Bold(true).Underline(true).Render(title)
}

// Notice formats an informational message
func (t *Terminal) Notice(msg string) string {
	return t.tagged("✅", msg, model.ToneSuccess)
}

// Warning formats a non-blocking warning
func (t *Terminal) Warning(msg string) string {
	return t.tagged("⚠️", msg, model.ToneWarning)
}

// Error formats a blocking error
func (t *Terminal) Error(msg string) string {
	return t.tagged("❌", msg, model.ToneDanger)
}

func (t *Terminal) tagged(icon, msg string, tone model.Tone) string {
	line := icon + " " + msg
	if t.plain {
		return line
	}
	return lipgloss.NewStyle().Foreground(toneColors[tone]).Render(line)
}
