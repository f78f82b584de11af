package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ppiankov/verifact/internal/llm"
	"github.com/ppiankov/verifact/internal/model"
	"github.com/ppiankov/verifact/internal/validate"
)

// fakeAnalyzer records every backend call
type fakeAnalyzer struct {
	report string
	err    error
	calls  []string
}

func (f *fakeAnalyzer) Invoke(ctx context.Context, content string) (*llm.AnalyzeResponse, error) {
	f.calls = append(f.calls, content)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.AnalyzeResponse{Report: f.report, Model: "fake-1", TokensUsed: 10}, nil
}

func (f *fakeAnalyzer) ProviderName() string { return "fake" }

func TestPipeline_Run_Claim(t *testing.T) {
	analyzer := &fakeAnalyzer{report: "FALSE. The Great Wall is not visible from orbit."}
	var stages []Stage

	p := NewPipeline(nil, analyzer, WithProgress(func(s Stage) { stages = append(stages, s) }), WithLogger(zap.NewNop()))

	result, err := p.Run(context.Background(), model.RawInput{Claim: "The Great Wall is visible from space."})
	require.NoError(t, err)

	assert.Equal(t, []string{"The Great Wall is visible from space."}, analyzer.calls)
	assert.Equal(t, model.VerdictFalse, result.Verdict)
	assert.Equal(t, "refuted", result.Rule)
	assert.Equal(t, "claim", result.Mode)
	assert.Equal(t, "The Great Wall is visible from space.", result.Source)
	assert.Equal(t, "fake", result.Provider)
	assert.Equal(t, "fake-1", result.Model)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, Stages(), stages)
}

func TestPipeline_Run_MissingInputNeverCallsBackend(t *testing.T) {
	analyzer := &fakeAnalyzer{report: "TRUE"}
	var stages []Stage
	p := NewPipeline(nil, analyzer, WithProgress(func(s Stage) { stages = append(stages, s) }))

	_, err := p.Run(context.Background(), model.RawInput{})

	require.ErrorIs(t, err, model.ErrMissingInput)
	assert.Empty(t, analyzer.calls)
	assert.Empty(t, stages, "no progress is reported for rejected input")
}

func TestPipeline_Run_WhitespaceClaimIsAnalyzed(t *testing.T) {
	analyzer := &fakeAnalyzer{report: "INCONCLUSIVE"}
	p := NewPipeline(nil, analyzer)

	result, err := p.Run(context.Background(), model.RawInput{Claim: "   "})

	require.NoError(t, err)
	assert.Equal(t, []string{"   "}, analyzer.calls)
	assert.Equal(t, model.ModeTextClaim.String(), result.Mode)
}

func TestPipeline_Run_AmbiguousInput(t *testing.T) {
	analyzer := &fakeAnalyzer{report: "TRUE"}
	p := NewPipeline(nil, analyzer)

	_, err := p.Run(context.Background(), model.RawInput{Claim: "a", URL: "https://example.com"})

	require.ErrorIs(t, err, model.ErrAmbiguousInput)
	assert.Empty(t, analyzer.calls)
}

func TestPipeline_Run_UnsupportedDocumentNeverCallsBackend(t *testing.T) {
	analyzer := &fakeAnalyzer{report: "TRUE"}
	p := NewPipeline(nil, analyzer)

	_, err := p.Run(context.Background(), model.RawInput{
		Document: &model.Document{Name: "slides.pptx", Data: []byte("PK")},
	})

	var unsupported *model.UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Empty(t, analyzer.calls)
}

func TestPipeline_Run_TextDocument(t *testing.T) {
	analyzer := &fakeAnalyzer{report: "The claims are partially supported."}
	p := NewPipeline(nil, analyzer)

	result, err := p.Run(context.Background(), model.RawInput{
		Document: &model.Document{Name: "notes.txt", Size: 2048, Data: []byte("Coffee stunts growth.")},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Coffee stunts growth."}, analyzer.calls)
	assert.Equal(t, model.VerdictPartiallyAccurate, result.Verdict)
	assert.Equal(t, "document", result.Mode)
	assert.Equal(t, "notes.txt", result.Source)
	assert.Equal(t, []string{"File uploaded: notes.txt (2.0 KB)"}, result.Notices)
	assert.Equal(t, "Coffee stunts growth.", result.Content)
}

func TestPipeline_Run_InvalidYouTubeStillAnalyzed(t *testing.T) {
	analyzer := &fakeAnalyzer{report: "No verdict keywords here."}
	p := NewPipeline(nil, analyzer)

	result, err := p.Run(context.Background(), model.RawInput{YouTubeURL: "https://vimeo.com/12345"})
	require.NoError(t, err)

	assert.Len(t, analyzer.calls, 1)
	assert.Equal(t, []string{"Please enter a valid YouTube URL"}, result.Warnings)
	assert.Equal(t, model.VerdictDetailedOnly, result.Verdict)
}

func TestPipeline_Run_AnalysisError(t *testing.T) {
	cause := &model.AnalysisError{Provider: "fake", Err: errors.New("rate limited")}
	analyzer := &fakeAnalyzer{err: cause}
	var stages []Stage
	p := NewPipeline(nil, analyzer, WithProgress(func(s Stage) { stages = append(stages, s) }))

	result, err := p.Run(context.Background(), model.RawInput{URL: "https://example.com/news"})

	assert.Nil(t, result)
	var analysisErr *model.AnalysisError
	require.ErrorAs(t, err, &analysisErr)
	assert.Contains(t, err.Error(), "rate limited")
	assert.Equal(t, []Stage{StageInitializing, StageLoading, StageAnalyzing}, stages)
}

func TestPipeline_Run_NoAnalyzer(t *testing.T) {
	p := NewPipeline(nil, nil)

	_, err := p.Run(context.Background(), model.RawInput{Claim: "x"})

	var analysisErr *model.AnalysisError
	require.ErrorAs(t, err, &analysisErr)
}

func TestPipeline_Run_ClassifierConfig(t *testing.T) {
	analyzer := &fakeAnalyzer{report: "INCONCLUSIVE"}

	cfg := model.DefaultConfig()
	result, err := NewPipeline(cfg, analyzer).Run(context.Background(), model.RawInput{Claim: "x"})
	require.NoError(t, err)
	assert.Equal(t, model.VerdictDetailedOnly, result.Verdict)

	cfg.Classifier.CaseInsensitiveInconclusive = true
	result, err = NewPipeline(cfg, analyzer).Run(context.Background(), model.RawInput{Claim: "x"})
	require.NoError(t, err)
	assert.Equal(t, model.VerdictInconclusive, result.Verdict)
}

func TestPipeline_Preflight(t *testing.T) {
	p := NewPipeline(nil, nil)

	content, outcome, err := p.Preflight(model.RawInput{YouTubeURL: "https://youtu.be/abc123"})
	require.NoError(t, err)
	assert.Equal(t, "https://youtu.be/abc123", content)
	assert.Equal(t, model.ModeYouTubeVideo, outcome.Mode)

	_, _, err = p.Preflight(model.RawInput{})
	assert.ErrorIs(t, err, model.ErrMissingInput)
}

func TestPipeline_Run_OutcomeBeforeAnalysis(t *testing.T) {
	analyzer := &fakeAnalyzer{report: "TRUE"}
	var events []string

	p := NewPipeline(nil, analyzer,
		WithOutcome(func(o validate.Outcome) {
			events = append(events, "outcome:"+o.Mode.String())
			events = append(events, o.Notices...)
		}),
		WithProgress(func(s Stage) { events = append(events, s.Message) }))

	_, err := p.Run(context.Background(), model.RawInput{YouTubeURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"})
	require.NoError(t, err)

	require.Len(t, events, 6)
	assert.Equal(t, "outcome:youtube", events[0])
	assert.Equal(t, "Valid YouTube URL detected", events[1])
	assert.Equal(t, StageInitializing.Message, events[2])
}

func TestPipeline_Run_NoOutcomeForRejectedInput(t *testing.T) {
	called := false
	p := NewPipeline(nil, &fakeAnalyzer{}, WithOutcome(func(validate.Outcome) { called = true }))

	_, err := p.Run(context.Background(), model.RawInput{})
	require.Error(t, err)
	assert.False(t, called)
}
