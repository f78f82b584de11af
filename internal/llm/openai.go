package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider sends the fact-checking prompt to the Chat Completions API
// (or any server that speaks it, selected through BaseURL).
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	cc := openai.DefaultConfig(config.APIKey)
	cc.HTTPClient = newHTTPClient(config)
	if config.BaseURL != "" {
		cc.BaseURL = strings.TrimRight(config.BaseURL, "/")
	}

	return &OpenAIProvider{client: openai.NewClientWithConfig(cc), config: config}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable looks up the configured model, or lists models when none is set
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	var err error
	if p.config.Model != "" {
		_, err = p.client.GetModel(ctx, p.config.Model)
	} else {
		_, err = p.client.ListModels(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenAI availability check failed: %v\n", toAPIError(err))
		return false
	}
	return true
}

// Analyze runs one chat completion with the system prompt and the claim prompt
func (p *OpenAIProvider) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	model := resolveModel(req, p.config, openai.GPT4oMini)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   resolveMaxTokens(req, p.config),
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: resolvePrompt(req)},
		},
	})
	if err != nil {
		return nil, toAPIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai completion %s returned no choices", resp.ID)
	}
	if resp.Model != "" {
		model = resp.Model
	}

	return &AnalyzeResponse{
		Report:     strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:      model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// toAPIError maps go-openai's HTTP errors onto APIError so every backend
// reports failures the same way. Transport and context errors pass through.
func toAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			Provider: "openai",
			Status:   apiErr.HTTPStatusCode,
			Kind:     apiErr.Type,
			Message:  apiErr.Message,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		msg := reqErr.HTTPStatus
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return &APIError{Provider: "openai", Status: reqErr.HTTPStatusCode, Message: msg}
	}

	return fmt.Errorf("openai request: %w", err)
}
