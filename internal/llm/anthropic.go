package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
)

const (
	anthropicDefaultModel = "claude-3-5-sonnet-20241022"
	anthropicBaseURL      = "https://api.anthropic.com"
	anthropicVersion      = "2023-06-01"
)

// AnthropicProvider sends the fact-checking prompt to Claude through the Messages API
type AnthropicProvider struct {
	api    *jsonClient
	config Config
}

type anthropicMessagesRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicBlock is one content block of a reply; only "text" blocks carry report text
type anthropicBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type anthropicMessagesResponse struct {
	ID         string           `json:"id"`
	Model      string           `json:"model"`
	Content    []anthropicBlock `json:"content"`
	StopReason string           `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// NewAnthropicProvider creates a new Anthropic provider
func NewAnthropicProvider(config Config) (*AnthropicProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = anthropicBaseURL
	}

	api := newJSONClient("anthropic", baseURL, config)
	api.header.Set("x-api-key", config.APIKey)
	api.header.Set("anthropic-version", anthropicVersion)
	api.decodeError = decodeAnthropicError

	return &AnthropicProvider{api: api, config: config}, nil
}

// Name returns the provider name
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// IsAvailable lists models, which authenticates without spending tokens
func (p *AnthropicProvider) IsAvailable(ctx context.Context) bool {
	if err := p.api.do(ctx, http.MethodGet, "/v1/models?limit=1", nil, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Anthropic API check failed: %v\n", err)
		return false
	}
	return true
}

// Analyze runs the fact-checking prompt through Anthropic's Messages API
func (p *AnthropicProvider) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	body := anthropicMessagesRequest{
		Model:       resolveModel(req, p.config, anthropicDefaultModel),
		System:      systemPrompt,
		Messages:    []anthropicMessage{{Role: "user", Content: resolvePrompt(req)}},
		MaxTokens:   resolveMaxTokens(req, p.config),
		Temperature: 0.2,
	}

	var resp anthropicMessagesResponse
	if err := p.api.do(ctx, http.MethodPost, "/v1/messages", body, &resp); err != nil {
		return nil, err
	}

	var report strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			report.WriteString(block.Text)
		}
	}
	if report.Len() == 0 {
		return nil, fmt.Errorf("anthropic reply %s has no text content (stop reason %q)", resp.ID, resp.StopReason)
	}

	return &AnalyzeResponse{
		Report:     strings.TrimSpace(report.String()),
		Model:      resp.Model,
		TokensUsed: resp.Usage.InputTokens + resp.Usage.OutputTokens,
	}, nil
}

func decodeAnthropicError(body []byte) (kind, message string, ok bool) {
	var envelope struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error.Message == "" {
		return "", "", false
	}
	return envelope.Error.Type, envelope.Error.Message, true
}
