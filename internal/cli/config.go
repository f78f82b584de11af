package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/verifact/internal/model"
	"github.com/ppiankov/verifact/internal/report"
)

// configLayers lists where settings come from, highest priority first
var configLayers = []string{
	"CLI flags",
	"Environment variables (VERIFACT_*, e.g. VERIFACT_LLM_PROVIDER)",
	"Config file (~/.verifact/config.yaml)",
	"Built-in defaults",
}

// credentialEnvVars are read when llm.api_key / llm.base_url are not set
var credentialEnvVars = []string{
	"OPENAI_API_KEY=sk-...",
	"ANTHROPIC_API_KEY=sk-ant-...",
	"OLLAMA_BASE_URL=http://localhost:11434",
}

func layersText(indent string) string {
	var b strings.Builder
	for i, layer := range configLayers {
		fmt.Fprintf(&b, "%s%d. %s\n", indent, i+1, layer)
	}
	return b.String()
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage VeriFact configuration",
	Long: "Manage VeriFact configuration files and settings.\n\n" +
		"Settings are merged from (highest to lowest priority):\n" + layersText(""),
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Print the configuration after merging defaults, config file, environment and flags. API keys are never printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if file := viper.ConfigFileUsed(); file != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", file)
		} else {
			fmt.Fprintln(os.Stderr, "No configuration file found, using defaults")
			fmt.Fprintln(os.Stderr)
		}

		return printConfig(cmd.OutOrStdout(), newTerminal(cfg), cfg)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long:  `Create ~/.verifact/config.yaml holding every option with its default value. An existing file is never overwritten.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("locate home directory: %w", err)
		}

		path := filepath.Join(home, ".verifact", "config.yaml")
		if err := initConfigFile(path); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Created default configuration: %s\n\n", path)
		fmt.Fprintf(out, "Review it with `verifact config show`, edit it with `$EDITOR %s`.\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd)
}

// printConfig writes cfg as YAML followed by the credential status.
// The API key itself is tagged yaml:"-" and never appears.
func printConfig(w io.Writer, term *report.Terminal, cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	credential := "not required"
	if env := model.CredentialEnv(cfg.LLM.Provider); env != "" {
		state := "missing"
		if cfg.LLM.APIKey != "" {
			state = "set"
		}
		credential = fmt.Sprintf("%s (%s)", env, state)
	}

	_, err = fmt.Fprintf(w, "%s\n\n%s\nCredential: %s\n\nPriority:\n%s",
		term.Heading("Current Configuration"), data, credential, layersText("  "))
	return err
}

// initConfigFile creates path with the documented defaults.
// It fails if the file already exists.
func initConfigFile(path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("config file already exists: %s (delete it first to recreate)", path)
	}
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", cerr)
		}
	}()

	return writeDefaultConfig(f)
}

// writeDefaultConfig writes the defaults as YAML with a commented header
func writeDefaultConfig(w io.Writer) error {
	data, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var b strings.Builder
	b.WriteString("# VeriFact Configuration File\n#\n")
	b.WriteString("# Settings are merged from (highest to lowest priority):\n")
	b.WriteString(layersText("#   "))
	b.WriteString("#\n")
	b.WriteString("# llm.timeout is in seconds; 0 waits for the backend as long as it takes.\n")
	b.WriteString("# classifier.case_insensitive_inconclusive also matches \"INCONCLUSIVE\".\n\n")
	b.Write(data)
	b.WriteString("\n# API keys are best kept in the environment (config show never prints them):\n")
	for _, kv := range credentialEnvVars {
		b.WriteString("#   export " + kv + "\n")
	}

	_, err = io.WriteString(w, b.String())
	return err
}
