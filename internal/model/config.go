package model

import "time"

// Config is the complete VeriFact configuration
type Config struct {
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Classifier   ClassifierConfig   `yaml:"classifier" mapstructure:"classifier"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
}

// LLMConfig selects and configures the analysis backend
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"` // Never written to disk
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds, 0 = wait for the backend
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`

	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// ClassifierConfig tunes verdict classification
type ClassifierConfig struct {
	// CaseInsensitiveInconclusive matches "inconclusive" in any case.
	// Off by default: the keyword is matched against the report as written.
	CaseInsensitiveInconclusive bool `yaml:"case_insensitive_inconclusive" mapstructure:"case_insensitive_inconclusive"`
}

// OutputConfig controls terminal display and artifact delivery
type OutputConfig struct {
	Plain     bool   `yaml:"plain" mapstructure:"plain"` // Disable styling and Markdown rendering
	Verbose   bool   `yaml:"verbose" mapstructure:"verbose"`
	WordWrap  int    `yaml:"word_wrap" mapstructure:"word_wrap"`
	OutputDir string `yaml:"output_dir,omitempty" mapstructure:"output_dir"`
}

// RateLimitingConfig paces backend calls in batch mode
type RateLimitingConfig struct {
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int           `yaml:"burst_size" mapstructure:"burst_size"`
	DelayBetweenRuns  time.Duration `yaml:"delay_between_runs" mapstructure:"delay_between_runs"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			Timeout:   0,
			MaxTokens: 2000,
		},
		Output: OutputConfig{
			WordWrap: 100,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 0.5,
			BurstSize:         1,
		},
	}
}

// CredentialEnv returns the environment variable holding the provider credential,
// or "" when the provider needs none
func CredentialEnv(provider string) string {
	switch provider {
	case "openai":
		return "OPENAI_API_KEY"
	case "anthropic", "claude":
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}
