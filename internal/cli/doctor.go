package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/verifact/internal/llm"
	"github.com/ppiankov/verifact/internal/model"
)

var doctorTimeout time.Duration

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the analysis backend is configured and reachable",
	Long: `Doctor checks the configured backend without analyzing anything:
- the credential environment variable is present (hosted providers)
- the provider answers a cheap authenticated request

Example:
  verifact doctor
  verifact doctor --provider ollama`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().DurationVar(&doctorTimeout, "timeout", 15*time.Second, "timeout for the availability probe")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	term := newTerminal(cfg)
	llmCfg := llm.ConfigFromModel(cfg.LLM)

	fmt.Fprintf(os.Stderr, "Provider:  %s\n", llmCfg.Provider)
	fmt.Fprintf(os.Stderr, "Model:     %s\n\n", llmCfg.Model)

	if err := llm.CheckCredential(llmCfg); err != nil {
		return err
	}
	if env := model.CredentialEnv(llmCfg.Provider); env != "" {
		fmt.Fprintln(os.Stderr, term.Notice(env+" is set"))
	}

	provider, err := llm.NewProvider(llmCfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), doctorTimeout)
	defer cancel()

	if !provider.IsAvailable(ctx) {
		return &model.AnalysisError{Provider: provider.Name(), Err: fmt.Errorf("backend is not reachable")}
	}

	fmt.Fprintln(os.Stderr, term.Notice(provider.Name()+" is reachable"))
	return nil
}
