package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/verifact/internal/model"
	"github.com/ppiankov/verifact/internal/report"
	"github.com/ppiankov/verifact/internal/worker"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    string
		warning bool
	}{
		{
			name:    "missing input",
			err:     model.ErrMissingInput,
			want:    "Input Required: Please provide content to analyze before starting the verification process.",
			warning: true,
		},
		{
			name:    "ambiguous input",
			err:     fmt.Errorf("%w: claim, url", model.ErrAmbiguousInput),
			want:    "Input Required: Please provide exactly one of a claim, a URL, a YouTube link or a file.",
			warning: true,
		},
		{
			name: "missing credential",
			err:  fmt.Errorf("%w: set OPENAI_API_KEY", model.ErrMissingCredential),
			want: "Configuration Error: missing backend credential: set OPENAI_API_KEY",
		},
		{
			name: "encoding",
			err:  &model.EncodingError{Filename: "notes.txt", Tried: []string{"utf-8"}},
			want: "File Processing Error: Unable to decode text file. Please ensure UTF-8 encoding.",
		},
		{
			name: "unsupported format",
			err:  &model.UnsupportedFormatError{Filename: "deck.pptx", Ext: ".pptx"},
			want: "Unsupported Format: Please upload a PDF, Word document, or text file.",
		},
		{
			name: "extraction",
			err:  &model.ExtractionError{Filename: "a.pdf", Format: "pdf", Err: errors.New("malformed xref table")},
			want: "File Processing Error: malformed xref table",
		},
		{
			name: "analysis",
			err:  &model.AnalysisError{Provider: "openai", Err: errors.New("status 429")},
			want: "Analysis Error: status 429",
		},
		{
			name:    "cancelled analysis",
			err:     &model.AnalysisError{Provider: "openai", Err: context.Canceled},
			want:    "Cancelled: The verification was interrupted before it finished.",
			warning: true,
		},
		{
			name:    "usage",
			err:     usageError("pick one input"),
			want:    "pick one input",
			warning: true,
		},
		{
			name: "other",
			err:  errors.New("disk full"),
			want: "Error: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, warning := userMessage(tt.err)
			assert.Equal(t, tt.want, msg)
			assert.Equal(t, tt.warning, warning)
		})
	}
}

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	bindEnv(v)
	return v
}

func TestDecodeConfig_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := decodeConfig(newTestViper())
	require.NoError(t, err)

	assert.Equal(t, model.DefaultConfig().LLM.Provider, cfg.LLM.Provider)
	assert.Equal(t, model.DefaultConfig().LLM.Model, cfg.LLM.Model)
	assert.Equal(t, 2000, cfg.LLM.MaxTokens)
	assert.Equal(t, 0, cfg.LLM.Timeout)
	assert.False(t, cfg.Classifier.CaseInsensitiveInconclusive)
	assert.Empty(t, cfg.LLM.APIKey)
}

func TestDecodeConfig_Env(t *testing.T) {
	t.Setenv("VERIFACT_LLM_PROVIDER", "Anthropic")
	t.Setenv("VERIFACT_LLM_TIMEOUT", "90")
	t.Setenv("VERIFACT_CLASSIFIER_CASE_INSENSITIVE_INCONCLUSIVE", "true")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

	cfg, err := decodeConfig(newTestViper())
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Empty(t, cfg.LLM.Model, "the OpenAI default model is not sent to Anthropic")
	assert.Equal(t, 90, cfg.LLM.Timeout)
	assert.True(t, cfg.Classifier.CaseInsensitiveInconclusive)
	assert.Equal(t, "sk-ant-test", cfg.LLM.APIKey)
}

func TestDecodeConfig_ExplicitKeyWins(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "from-env")
	t.Setenv("VERIFACT_LLM_API_KEY", "from-verifact")

	cfg, err := decodeConfig(newTestViper())
	require.NoError(t, err)
	assert.Equal(t, "from-verifact", cfg.LLM.APIKey)
}

func TestDecodeConfig_OllamaBaseURL(t *testing.T) {
	t.Setenv("VERIFACT_LLM_PROVIDER", "ollama")
	t.Setenv("OLLAMA_BASE_URL", "http://gpu-box:11434")

	cfg, err := decodeConfig(newTestViper())
	require.NoError(t, err)

	assert.Equal(t, "http://gpu-box:11434", cfg.LLM.BaseURL)
	assert.Empty(t, cfg.LLM.Model)
	assert.Empty(t, cfg.LLM.APIKey)
}

func TestDefaultConfigFile_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeDefaultConfig(&buf))
	assert.Contains(t, buf.String(), "# VeriFact Configuration File")
	assert.NotContains(t, buf.String(), "api_key:")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := bytes.Replace(buf.Bytes(), []byte("provider: openai"), []byte("provider: ollama"), 1)
	content = bytes.Replace(content, []byte("delay_between_runs: 0s"), []byte("delay_between_runs: 2s"), 1)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	v := newTestViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := decodeConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, 2*time.Second, cfg.RateLimiting.DelayBetweenRuns)
	assert.Equal(t, model.DefaultConfig().Output.WordWrap, cfg.Output.WordWrap)
}

func TestInitConfigFile_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".verifact", "config.yaml")

	require.NoError(t, initConfigFile(path))
	_, err := os.Stat(path)
	require.NoError(t, err)

	err = initConfigFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func resetCheckFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		checkClaim, checkURL, checkYouTube, checkFile = "", "", "", ""
	})
	checkClaim, checkURL, checkYouTube, checkFile = "", "", "", ""
}

func TestBuildRawInput_Positional(t *testing.T) {
	resetCheckFlags(t)

	raw, err := buildRawInput([]string{"Water", "boils", "at", "100C"})
	require.NoError(t, err)
	assert.Equal(t, model.RawInput{Claim: "Water boils at 100C"}, raw)

	raw, err = buildRawInput([]string{"https://youtu.be/dQw4w9WgXcQ"})
	require.NoError(t, err)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", raw.YouTubeURL)

	raw, err = buildRawInput([]string{"https://example.com/a"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a", raw.URL)
}

func TestBuildRawInput_Flags(t *testing.T) {
	resetCheckFlags(t)

	path := filepath.Join(t.TempDir(), "memo.txt")
	require.NoError(t, os.WriteFile(path, []byte("memo"), 0o644))

	checkFile = path
	raw, err := buildRawInput(nil)
	require.NoError(t, err)
	require.NotNil(t, raw.Document)
	assert.Equal(t, "memo.txt", raw.Document.Name)

	// Several channels are left for the validator to reject
	checkClaim = "x"
	raw, err = buildRawInput(nil)
	require.NoError(t, err)
	assert.Equal(t, "x", raw.Claim)
	assert.NotNil(t, raw.Document)
}

func TestBuildRawInput_UnsupportedFileIsNotRead(t *testing.T) {
	resetCheckFlags(t)
	checkFile = filepath.Join(t.TempDir(), "slides.PPTX")

	_, err := buildRawInput(nil)

	var unsupported *model.UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "slides.PPTX", unsupported.Filename)
	assert.Equal(t, ".pptx", unsupported.Ext)

	msg, _ := userMessage(err)
	assert.Equal(t, "Unsupported Format: Please upload a PDF, Word document, or text file.", msg)
}

func TestBuildRawInput_MixedIsUsageError(t *testing.T) {
	resetCheckFlags(t)
	checkURL = "https://example.com"

	_, err := buildRawInput([]string{"a claim"})
	var usage *usageErr
	assert.ErrorAs(t, err, &usage)
}

func TestBuildRawInput_Empty(t *testing.T) {
	resetCheckFlags(t)

	raw, err := buildRawInput(nil)
	require.NoError(t, err)
	assert.Equal(t, model.RawInput{}, raw)
}

func TestWriteBatchItem(t *testing.T) {
	root := t.TempDir()
	renderer := report.NewRenderer()

	item := &worker.ItemResult{
		Index: 7,
		Input: worker.BatchInput{Line: 9, Text: "The Moon is made of cheese", Mode: model.ModeTextClaim},
		Result: &model.Result{
			RunID:   "run-7",
			Content: "The Moon is made of cheese",
			Report:  "FALSE. It is rock.",
			Verdict: model.VerdictFalse,
		},
	}

	dir, err := writeBatchItem(renderer, root, item)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "007-the-moon-is-made-of-cheese"), dir)

	for _, name := range []string{report.PlainTextFilename, report.MarkdownFilename, "result.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	md, err := os.ReadFile(filepath.Join(dir, report.MarkdownFilename))
	require.NoError(t, err)
	assert.Contains(t, string(md), "FALSE. It is rock.")
}

func TestWriteBatchItem_FailedItemWritesNothing(t *testing.T) {
	root := t.TempDir()

	dir, err := writeBatchItem(report.NewRenderer(), root, &worker.ItemResult{
		Index: 1,
		Input: worker.BatchInput{Text: "x"},
		Err:   errors.New("boom"),
	})
	require.NoError(t, err)
	assert.Empty(t, dir)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPrintConfig_HidesKey(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = "anthropic"
	cfg.LLM.APIKey = "sk-ant-secret"

	var buf bytes.Buffer
	require.NoError(t, printConfig(&buf, report.NewTerminal(report.WithPlain(true)), cfg))

	out := buf.String()
	assert.NotContains(t, out, "sk-ant-secret")
	assert.Contains(t, out, "provider: anthropic")
	assert.Contains(t, out, "Credential: ANTHROPIC_API_KEY (set)")
	assert.Contains(t, out, "  1. CLI flags")
}
