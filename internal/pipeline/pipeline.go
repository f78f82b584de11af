package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/verifact/internal/extract"
	"github.com/ppiankov/verifact/internal/llm"
	"github.com/ppiankov/verifact/internal/model"
	"github.com/ppiankov/verifact/internal/validate"
	"github.com/ppiankov/verifact/internal/verdict"
)

// Analyzer is the backend boundary used by the pipeline
type Analyzer interface {
	Invoke(ctx context.Context, content string) (*llm.AnalyzeResponse, error)
	ProviderName() string
}

// Pipeline runs one input through validation, extraction, analysis and classification
type Pipeline struct {
	validator  *validate.Validator
	extractor  *extract.Extractor
	analyzer   Analyzer
	classifier *verdict.Classifier
	config     *model.Config
	logger     *zap.Logger
	progress   ProgressFunc
	onOutcome  func(validate.Outcome)
	now        func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithProgress registers a callback for the staged progress messages
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) { p.progress = fn }
}

// WithOutcome registers a callback that receives the validation outcome
// (mode, notices, warnings) once the input has been accepted
func WithOutcome(fn func(validate.Outcome)) Option {
	return func(p *Pipeline) { p.onOutcome = fn }
}

// WithLogger sets the structured logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline creates a pipeline around an analyzer
func NewPipeline(cfg *model.Config, analyzer Analyzer, opts ...Option) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	p := &Pipeline{
		validator:  validate.NewValidator(),
		analyzer:   analyzer,
		classifier: verdict.NewClassifier(cfg.Classifier),
		config:     cfg,
		logger:     zap.NewNop(),
		progress:   func(Stage) {},
		onOutcome:  func(validate.Outcome) {},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.extractor = extract.NewExtractor(p.logger)

	return p
}

// Run executes one complete analysis.
// Validation and extraction failures return before the backend is contacted.
func (p *Pipeline) Run(ctx context.Context, raw model.RawInput) (*model.Result, error) {
	started := p.now()
	runID := uuid.NewString()
	logger := p.logger.With(zap.String("run_id", runID))

	// 1. Validate input
	outcome, err := p.validator.Validate(raw)
	if err != nil {
		logger.Debug("input rejected", zap.Error(err))
		return nil, err
	}
	for _, w := range outcome.Warnings {
		logger.Warn("input warning", zap.String("mode", outcome.Mode.String()), zap.String("warning", w))
	}

	// 2. Normalize content
	content, err := p.extractor.Extract(outcome.Mode, raw)
	if err != nil {
		logger.Debug("extraction failed", zap.String("mode", outcome.Mode.String()), zap.Error(err))
		return nil, err
	}

	logger.Info("input accepted",
		zap.String("mode", outcome.Mode.String()),
		zap.Int("content_chars", len([]rune(content))))
	p.onOutcome(outcome)

	// 3. Analyze
	p.progress(StageInitializing)
	if p.analyzer == nil {
		return nil, &model.AnalysisError{Provider: "none", Err: fmt.Errorf("no analysis provider configured")}
	}
	p.progress(StageLoading)

	p.progress(StageAnalyzing)
	resp, err := p.analyzer.Invoke(ctx, content)
	if err != nil {
		return nil, err
	}
	p.progress(StageComplete)

	// 4. Classify
	match := p.classifier.Explain(resp.Report)

	logger.Info("analysis complete",
		zap.String("verdict", match.Verdict.String()),
		zap.String("rule", match.Rule),
		zap.Duration("elapsed", p.now().Sub(started)))

	return &model.Result{
		RunID:     runID,
		Mode:      outcome.Mode.String(),
		Source:    validate.Source(outcome.Mode, raw),
		Content:   content,
		Report:    resp.Report,
		Verdict:   match.Verdict,
		Rule:      match.Rule,
		Notices:   outcome.Notices,
		Warnings:  outcome.Warnings,
		Provider:  p.analyzer.ProviderName(),
		Model:     resp.Model,
		StartedAt: started.UTC(),
		Duration:  p.now().Sub(started),
	}, nil
}

// Preflight validates and extracts without contacting the backend.
// It returns the normalized content and the validation outcome.
func (p *Pipeline) Preflight(raw model.RawInput) (string, validate.Outcome, error) {
	outcome, err := p.validator.Validate(raw)
	if err != nil {
		return "", outcome, err
	}
	content, err := p.extractor.Extract(outcome.Mode, raw)
	if err != nil {
		return "", outcome, err
	}
	return content, outcome, nil
}
