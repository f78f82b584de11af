package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/verifact/internal/model"
)

func TestTerminal_PlainBanner(t *testing.T) {
	term := NewTerminal(WithPlain(true))

	for _, v := range []model.Verdict{
		model.VerdictTrue,
		model.VerdictFalse,
		model.VerdictPartiallyAccurate,
		model.VerdictInconclusive,
		model.VerdictDetailedOnly,
	} {
		assert.Equal(t, v.Headline(), term.Banner(v))
	}
}

func TestTerminal_StyledBannerKeepsHeadline(t *testing.T) {
	term := NewTerminal()

	banner := term.Banner(model.VerdictFalse)
	assert.Contains(t, banner, "VERDICT: THE PROVIDED INFORMATION IS FALSE")
	assert.Greater(t, strings.Count(banner, "\n"), 0, "banner is boxed")
}

func TestTerminal_Sanitize(t *testing.T) {
	term := NewTerminal(WithPlain(true))

	tests := []struct {
		name   string
		report string
		want   string
	}{
		{"strips tags", "The claim is <b>FALSE</b>.", "The claim is FALSE."},
		{"drops scripts", "<script>alert(1)</script>TRUE", "TRUE"},
		{"keeps comparison", "Inflation 3% < 5% & rising", "Inflation 3% < 5% & rising"},
		{"keeps autolinks", "Source: <https://who.int/news>", "Source: https://who.int/news"},
		{"keeps markdown", "## Sources\n- [WHO](https://who.int)", "## Sources\n- [WHO](https://who.int)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, term.Sanitize(tt.report))
		})
	}
}

func TestTerminal_RenderReportPlain(t *testing.T) {
	term := NewTerminal(WithPlain(true))

	out, err := term.RenderReport("**FALSE**<br>See sources.")
	require.NoError(t, err)
	assert.Equal(t, "**FALSE**See sources.", out)
}

func TestTerminal_RenderReportMarkdown(t *testing.T) {
	term := NewTerminal(WithGlamourStyle("notty"), WithWordWrap(60))

	out, err := term.RenderReport("# Verdict\n\nThe claim is **misleading**.\n\n- Source one\n- Source two")
	require.NoError(t, err)

	assert.Contains(t, out, "Verdict")
	assert.Contains(t, out, "misleading")
	assert.Contains(t, out, "Source two")
}

func TestTerminal_Messages(t *testing.T) {
	term := NewTerminal(WithPlain(true))

	assert.Equal(t, "✅ Valid YouTube URL detected", term.Notice("Valid YouTube URL detected"))
	assert.Equal(t, "⚠️ Please enter a valid YouTube URL", term.Warning("Please enter a valid YouTube URL"))
	assert.Equal(t, "❌ Analysis Error: timeout", term.Error("Analysis Error: timeout"))
	assert.Equal(t, "Report\n------", term.Heading("Report"))
}
