package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/verifact/internal/model"
)

// ErrEmptyReport is returned when the backend answers without any report text
var ErrEmptyReport = errors.New("backend returned an empty report")

// Analyzer performs exactly one backend call per piece of content.
// It does not retry and adds no deadline beyond the caller's context.
type Analyzer struct {
	provider Provider
	config   Config
	logger   *zap.Logger
}

// NewAnalyzer wraps a provider
func NewAnalyzer(provider Provider, config Config, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		provider: provider,
		config:   config,
		logger:   logger,
	}
}

// NewAnalyzerFromConfig builds the configured provider and wraps it
func NewAnalyzerFromConfig(config Config, logger *zap.Logger) (*Analyzer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return NewAnalyzer(provider, config, logger), nil
}

// ProviderName returns the name of the wrapped provider
func (a *Analyzer) ProviderName() string {
	if a.provider == nil {
		return ""
	}
	return a.provider.Name()
}

// Analyze returns the backend's free-text report for the content
func (a *Analyzer) Analyze(ctx context.Context, content string) (string, error) {
	resp, err := a.Invoke(ctx, content)
	if err != nil {
		return "", err
	}
	return resp.Report, nil
}

// Invoke is Analyze that also returns model and token usage.
// Every failure is a *model.AnalysisError.
func (a *Analyzer) Invoke(ctx context.Context, content string) (*AnalyzeResponse, error) {
	if a.provider == nil {
		return nil, &model.AnalysisError{Provider: "none", Err: errors.New("no analysis provider configured")}
	}

	name := a.provider.Name()
	start := time.Now()

	a.logger.Debug("invoking backend",
		zap.String("provider", name),
		zap.String("model", a.config.Model),
		zap.Int("content_chars", len([]rune(content))))

	resp, err := a.provider.Analyze(ctx, AnalyzeRequest{
		Content:   content,
		Model:     a.config.Model,
		MaxTokens: a.config.MaxTokens,
	})
	if err != nil {
		a.logger.Warn("backend call failed", zap.String("provider", name), zap.Error(err))
		return nil, &model.AnalysisError{Provider: name, Err: err}
	}
	if resp == nil || strings.TrimSpace(resp.Report) == "" {
		return nil, &model.AnalysisError{Provider: name, Err: ErrEmptyReport}
	}

	a.logger.Info("backend call complete",
		zap.String("provider", name),
		zap.String("model", resp.Model),
		zap.Int("tokens", resp.TokensUsed),
		zap.Duration("elapsed", time.Since(start)))

	return resp, nil
}
