package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ppiankov/verifact/internal/model"
)

// Version is the CLI version, overridable at build time with -ldflags
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
	logger  = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "verifact",
	Short: "VeriFact - AI-assisted fact verification reports",
	Long: `VeriFact sends a claim, a web page URL, a YouTube link or a document
(pdf, docx, txt) to an analysis backend and turns the answer into a
verification report.

The report's wording is classified into a verdict (TRUE, FALSE, PARTIALLY
ACCURATE, INCONCLUSIVE) and can be exported as plain text or Markdown.

VeriFact does not fetch URLs or transcribe videos itself: links are handed
to the backend exactly as written.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		// stderr carries progress lines; structured logs only surface with --verbose
		config.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}

		built, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = built
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command
func Execute() error {
	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		reportError(cmd, err)
	}
	return err
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of VeriFact.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("verifact %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.verifact/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output and debug logging")
	rootCmd.PersistentFlags().String("provider", "", "analysis backend (openai, anthropic, ollama)")
	rootCmd.PersistentFlags().String("model", "", "backend model name")
	rootCmd.PersistentFlags().Bool("plain", false, "disable colors and Markdown rendering")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("llm.provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("llm.model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("output.plain", rootCmd.PersistentFlags().Lookup("plain"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, ".verifact"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	setDefaults(viper.GetViper())
	bindEnv(viper.GetViper())

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so env variables and Unmarshal see it
func setDefaults(v *viper.Viper) {
	d := model.DefaultConfig()

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.http_proxy", d.LLM.HTTPProxy)
	v.SetDefault("llm.https_proxy", d.LLM.HTTPSProxy)
	v.SetDefault("llm.no_proxy", d.LLM.NoProxy)

	v.SetDefault("classifier.case_insensitive_inconclusive", d.Classifier.CaseInsensitiveInconclusive)

	v.SetDefault("output.plain", d.Output.Plain)
	v.SetDefault("output.verbose", d.Output.Verbose)
	v.SetDefault("output.word_wrap", d.Output.WordWrap)
	v.SetDefault("output.output_dir", d.Output.OutputDir)

	v.SetDefault("rate_limiting.requests_per_second", d.RateLimiting.RequestsPerSecond)
	v.SetDefault("rate_limiting.burst_size", d.RateLimiting.BurstSize)
	v.SetDefault("rate_limiting.delay_between_runs", d.RateLimiting.DelayBetweenRuns)
}

// bindEnv reads environment variables that match VERIFACT_*, e.g. VERIFACT_LLM_PROVIDER
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("VERIFACT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// decodeConfig builds the effective configuration.
// Credentials fall back to the provider's conventional environment variable.
func decodeConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))

	// The built-in model name belongs to the default provider; other providers pick their own
	if cfg.LLM.Provider != model.DefaultConfig().LLM.Provider && cfg.LLM.Model == model.DefaultConfig().LLM.Model {
		cfg.LLM.Model = ""
	}

	if cfg.LLM.APIKey == "" {
		if env := model.CredentialEnv(cfg.LLM.Provider); env != "" {
			cfg.LLM.APIKey = os.Getenv(env)
		}
	}
	if cfg.LLM.Provider == "ollama" && cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}

	return cfg, nil
}

// loadConfig returns the configuration from flags, env, file and defaults
func loadConfig() (*model.Config, error) {
	return decodeConfig(viper.GetViper())
}
