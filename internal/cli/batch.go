package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/verifact/internal/llm"
	"github.com/ppiankov/verifact/internal/model"
	"github.com/ppiankov/verifact/internal/pipeline"
	"github.com/ppiankov/verifact/internal/report"
	"github.com/ppiankov/verifact/internal/worker"
)

var (
	batchOutputDir string
	batchDelay     time.Duration
	batchTimeout   time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify many inputs from a file, one after another",
	Long: `Batch reads one input per line and verifies each in its own run:
- Lines starting with "#" and blank lines are skipped, repeats are kept once
- YouTube links, web URLs and "@path" documents are recognized, anything else is a claim
- Runs are sequential and paced by the rate limiter
- A failing input is recorded and the batch continues
- Each input gets its own report directory, plus a summary.json

Example:
  verifact batch claims.txt
  verifact batch claims.txt --output-dir ./reports --delay 5s
  verifact batch claims.txt --provider ollama --model llama3.1`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "./verifact-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchDelay, "delay", 0, "pause between runs (overrides rate_limiting.delay_between_runs)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 0, "total timeout for the batch (0 = none)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The credential is checked before any input is processed
	llmCfg := llm.ConfigFromModel(cfg.LLM)
	if err := llm.CheckCredential(llmCfg); err != nil {
		return err
	}

	analyzer, err := llm.NewAnalyzerFromConfig(llmCfg, logger)
	if err != nil {
		return fmt.Errorf("create analyzer: %w", err)
	}

	delay := cfg.RateLimiting.DelayBetweenRuns
	if cmd.Flags().Changed("delay") {
		delay = batchDelay
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if batchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, batchTimeout)
		defer cancel()
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  VeriFact Batch Verification\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Backend:      %s/%s\n", analyzer.ProviderName(), llmCfg.Model)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", batchOutputDir)
	fmt.Fprintf(os.Stderr, "  Pace:         %.2f req/s, delay %v\n", cfg.RateLimiting.RequestsPerSecond, delay)
	fmt.Fprintf(os.Stderr, "\n")

	// Create output directory
	if err := os.MkdirAll(batchOutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	inputs, err := worker.ReadInputsFromFile(file)
	if err != nil {
		return fmt.Errorf("read inputs: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Loaded %d inputs\n\n", len(inputs))

	p := pipeline.NewPipeline(cfg, analyzer, pipeline.WithLogger(logger))
	renderer := report.NewRenderer()
	term := newTerminal(cfg)
	dirs := make(map[int]string)

	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	processor := worker.NewBatchProcessor(p,
		worker.WithLimiter(limiter, analyzer.ProviderName()),
		worker.WithDelay(delay),
		worker.WithBatchLogger(logger),
		worker.WithItemCallback(func(item *worker.ItemResult) {
			dir, err := writeBatchItem(renderer, batchOutputDir, item)
			if err != nil {
				item.Err = err
				item.Result = nil
			}
			if dir != "" {
				dirs[item.Index] = dir
			}
			printBatchItem(term, item, len(inputs))
		}))

	results := processor.Process(ctx, inputs)

	summary := worker.Summarize(results, dirs)
	summaryPath := filepath.Join(batchOutputDir, "summary.json")
	if err := renderer.WriteJSON(summaryPath, summary); err != nil {
		return err
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d inputs\n", summary.Total)
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", summary.Succeeded)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", summary.Failed)
	for _, v := range []model.Verdict{model.VerdictTrue, model.VerdictFalse, model.VerdictPartiallyAccurate, model.VerdictInconclusive, model.VerdictDetailedOnly} {
		if n := summary.Verdicts[v.String()]; n > 0 {
			fmt.Fprintf(os.Stderr, "    %-20s %d\n", v.String(), n)
		}
	}
	fmt.Fprintf(os.Stderr, "  Summary:   %s\n", summaryPath)
	fmt.Fprintf(os.Stderr, "\n")

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}
	return nil
}

// writeBatchItem writes both report formats and the run result for a successful item.
// It returns the item's directory, or "" when nothing was written.
func writeBatchItem(renderer *report.Renderer, root string, item *worker.ItemResult) (string, error) {
	if item.Err != nil || item.Result == nil {
		return "", nil
	}

	dir := filepath.Join(root, worker.Slug(item.Index, item.Input.Text))
	for _, artifact := range renderer.ExportAll(item.Result.Content, item.Result.Report) {
		if _, err := renderer.WriteFile(dir, artifact); err != nil {
			return dir, err
		}
	}
	if err := renderer.WriteJSON(filepath.Join(dir, "result.json"), item.Result); err != nil {
		return dir, err
	}

	logger.Debug("batch item written", zap.Int("index", item.Index), zap.String("dir", dir))
	return dir, nil
}

func printBatchItem(term *report.Terminal, item *worker.ItemResult, total int) {
	prefix := fmt.Sprintf("[%d/%d]", item.Index, total)
	if item.Err != nil {
		msg, _ := userMessage(item.Err)
		fmt.Fprintf(os.Stderr, "%s %s\n", prefix, term.Error(fmt.Sprintf("line %d: %s", item.Input.Line, msg)))
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", prefix, term.Notice(fmt.Sprintf("%s → %s", item.Input.Text, item.Result.Verdict)))
}
