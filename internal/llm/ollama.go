package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
)

const ollamaBaseURL = "http://localhost:11434"

// OllamaProvider runs the fact-checking prompt on a local Ollama daemon.
// It needs no credential but always needs an explicit model.
type OllamaProvider struct {
	api    *jsonClient
	config Config
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  struct {
		Temperature float64 `json:"temperature,omitempty"`
		NumPredict  int     `json:"num_predict,omitempty"`
	} `json:"options"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	Done            bool          `json:"done"`
	PromptEvalCount int           `json:"prompt_eval_count,omitempty"`
	EvalCount       int           `json:"eval_count,omitempty"`
}

// NewOllamaProvider creates a new Ollama provider
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = ollamaBaseURL
	}

	api := newJSONClient("ollama", baseURL, config)
	api.decodeError = func(body []byte) (string, string, bool) {
		var e struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &e); err != nil || e.Error == "" {
			return "", "", false
		}
		return "", e.Error, true
	}

	return &OllamaProvider{api: api, config: config}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// IsAvailable checks that the daemon answers on its tags endpoint
func (p *OllamaProvider) IsAvailable(ctx context.Context) bool {
	if err := p.api.do(ctx, http.MethodGet, "/api/tags", nil, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Ollama availability check failed (%s): %v\n", p.api.baseURL, err)
		return false
	}
	return true
}

// Analyze runs the fact-checking prompt through Ollama's chat endpoint
func (p *OllamaProvider) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	model := resolveModel(req, p.config, "")
	if model == "" {
		return nil, fmt.Errorf("ollama model must be specified (e.g., llama3.1:8b, mistral)")
	}

	prompt := resolvePrompt(req)
	body := ollamaChatRequest{
		Model: model,
		Messages: []ollamaMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	}
	body.Options.Temperature = 0.2
	body.Options.NumPredict = resolveMaxTokens(req, p.config)

	var resp ollamaChatResponse
	if err := p.api.do(ctx, http.MethodPost, "/api/chat", body, &resp); err != nil {
		return nil, err
	}

	report := strings.TrimSpace(resp.Message.Content)

	// Some models report zero counts; estimate at ~4 characters per token
	tokensUsed := resp.PromptEvalCount + resp.EvalCount
	if tokensUsed == 0 {
		tokensUsed = (len(prompt) + len(report)) / 4
	}

	return &AnalyzeResponse{
		Report:     report,
		Model:      resp.Model,
		TokensUsed: tokensUsed,
	}, nil
}
