package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/http/httpproxy"
)

// Provider defines the interface for analysis backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Analyze sends the content to the backend and returns its free-text report
	Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// AnalyzeRequest contains the input for one fact-checking call
type AnalyzeRequest struct {
	// Content is the normalized text, URL or document body to verify
	Content string

	// Prompt is an optional custom prompt (if empty, BuildPrompt is used)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// AnalyzeResponse contains the backend's report
type AnalyzeResponse struct {
	// Report is the generated fact-checking report
	Report string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, test servers)
	BaseURL string

	// Timeout for API requests in seconds; 0 waits for the backend
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Model:     "gpt-4o-mini",
		MaxTokens: 2000,
	}
}

// systemPrompt frames every backend call
const systemPrompt = "You are VERIFACT, a professional fact-checking team: a researcher who gathers " +
	"evidence, an analyst who weighs it and an editor who writes the final report."

// BuildPrompt constructs the fact-checking instruction for a piece of content
func BuildPrompt(content string) string {
	return fmt.Sprintf(`Verify the factual accuracy of the following input_content.

input_content:
"""
%s
"""

Instructions:
1. Identify the concrete factual claims made or implied by the input.
   If the input is a URL or a YouTube link, work from what is publicly known about that page or video.
2. Research each claim against reliable, citable sources.
3. Start the report with a single verdict line using exactly one of:
   TRUE, FALSE, PARTIALLY TRUE, MISLEADING, INCONCLUSIVE
4. Follow with a detailed report: the claims examined, the evidence for and against each,
   and a list of sources with URLs.
5. Use INCONCLUSIVE when the available evidence does not support a firm conclusion.
`, content)
}

// resolveModel picks the request model, then the configured one, then the fallback
func resolveModel(req AnalyzeRequest, config Config, fallback string) string {
	if req.Model != "" {
		return req.Model
	}
	if config.Model != "" {
		return config.Model
	}
	return fallback
}

// resolveMaxTokens picks the request limit, then the configured one, then 2000
func resolveMaxTokens(req AnalyzeRequest, config Config) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if config.MaxTokens > 0 {
		return config.MaxTokens
	}
	return 2000
}

// resolvePrompt returns the custom prompt or the default fact-checking prompt
func resolvePrompt(req AnalyzeRequest) string {
	if req.Prompt != "" {
		return req.Prompt
	}
	return BuildPrompt(req.Content)
}

// newHTTPClient builds the client shared by the raw HTTP providers.
// A zero timeout leaves the client without a deadline.
func newHTTPClient(config Config) *http.Client {
	return &http.Client{
		Timeout: time.Duration(config.Timeout) * time.Second,
		Transport: &http.Transport{
			Proxy: newProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		},
	}
}

// newProxyFunc creates a proxy function based on configuration.
// If no proxy URLs are provided, falls back to environment variables.
// HTTPS traffic uses the HTTP proxy when no HTTPS proxy is set.
func newProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}
	if httpsProxy == "" {
		httpsProxy = httpProxy
	}

	proxy := (&httpproxy.Config{
		HTTPProxy:  httpProxy,
		HTTPSProxy: httpsProxy,
		NoProxy:    noProxy,
	}).ProxyFunc()

	return func(req *http.Request) (*url.URL, error) {
		return proxy(req.URL)
	}
}
