package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/verifact/internal/extract"
	"github.com/ppiankov/verifact/internal/llm"
	"github.com/ppiankov/verifact/internal/model"
	"github.com/ppiankov/verifact/internal/pipeline"
	"github.com/ppiankov/verifact/internal/report"
	"github.com/ppiankov/verifact/internal/validate"
	"github.com/ppiankov/verifact/internal/worker"
)

const (
	inProgressText = "VERIFACT Analysis in Progress - Our AI agents are researching, analyzing, and verifying your content..."
	completeText   = "Analysis Complete - Professional verification report generated successfully"
)

var (
	checkClaim   string
	checkURL     string
	checkYouTube string
	checkFile    string
	outTxt       string
	outMD        string
	outJSON      string
	outputDir    string
	dryRun       bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [claim | url | @file]",
	Short: "Verify a single claim, URL, YouTube video or document",
	Long: `Check runs one verification:
- Validate that exactly one input was given
- Normalize it to text (documents are decoded locally)
- Send it to the analysis backend in a single call
- Classify the report into a verdict
- Display the report and optionally export it

Positional arguments are joined into one input whose kind is inferred:
a YouTube link, a web URL, "@path" for a document, otherwise a claim.

Example:
  verifact check "The Great Wall of China is visible from space"
  verifact check --url https://example.com/article --md report.md
  verifact check --youtube https://youtu.be/dQw4w9WgXcQ --provider anthropic
  verifact check --file whitepaper.pdf --output-dir ./reports
  verifact check @notes.txt --dry-run`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Input flags
	checkCmd.Flags().StringVar(&checkClaim, "claim", "", "factual claim to verify")
	checkCmd.Flags().StringVar(&checkURL, "url", "", "website URL to analyze (passed to the backend as written)")
	checkCmd.Flags().StringVar(&checkYouTube, "youtube", "", "YouTube video URL to analyze")
	checkCmd.Flags().StringVar(&checkFile, "file", "", "document to analyze (pdf, docx, txt)")

	// Output flags
	checkCmd.Flags().StringVar(&outTxt, "txt", "", "write the plain text report to this path")
	checkCmd.Flags().StringVar(&outMD, "md", "", "write the Markdown report to this path")
	checkCmd.Flags().StringVar(&outJSON, "json", "", "write the run result as JSON to this path")
	checkCmd.Flags().StringVar(&outputDir, "output-dir", "", "write both reports with their default filenames to this directory")
	checkCmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate and extract only, without calling the backend")
}

func runCheck(cmd *cobra.Command, args []string) error {
	raw, err := buildRawInput(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	term := newTerminal(cfg)

	if dryRun {
		return runDryRun(cfg, term, raw)
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if verbose {
		fmt.Fprintf(os.Stderr, "Backend: %s/%s\n\n", analyzer.ProviderName(), llmCfg.Model)
	}

	p := pipeline.NewPipeline(cfg, analyzer,
		pipeline.WithLogger(logger),
		pipeline.WithOutcome(func(o validate.Outcome) {
			printOutcome(term, o)
			fmt.Fprintf(os.Stderr, "🔍 %s\n", inProgressText)
		}),
		pipeline.WithProgress(printStage))

	result, err := p.Run(ctx, raw)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "🎉 %s\n\n", completeText)

	displayResult(term, result)

	return writeArtifacts(cfg, result)
}

// buildRawInput turns flags or positional arguments into the run input.
// Several flags are passed through so the validator can reject them as ambiguous.
func buildRawInput(args []string) (model.RawInput, error) {
	raw := model.RawInput{
		Claim:      checkClaim,
		URL:        checkURL,
		YouTubeURL: checkYouTube,
	}

	flagged := checkClaim != "" || checkURL != "" || checkYouTube != "" || checkFile != ""
	if flagged && len(args) > 0 {
		return raw, usageError("Input Required: use either a positional input or one of --claim, --url, --youtube, --file")
	}

	if checkFile != "" {
		// Reject unknown formats before reading the file
		if name := filepath.Base(checkFile); !extract.NewExtractor(logger).Supported(name) {
			doc := model.Document{Name: name}
			return raw, &model.UnsupportedFormatError{Filename: name, Ext: doc.Ext()}
		}

		doc, err := worker.LoadDocument(checkFile, "")
		if err != nil {
			return raw, err
		}
		raw.Document = doc
	}

	if len(args) > 0 {
		in := worker.NewBatchInput(0, strings.Join(args, " "), "")
		if in.Err != nil {
			return raw, in.Err
		}
		raw = in.Raw
	}

	return raw, nil
}

// runDryRun validates and extracts the input and shows what would be analyzed
func runDryRun(cfg *model.Config, term *report.Terminal, raw model.RawInput) error {
	p := pipeline.NewPipeline(cfg, nil, pipeline.WithLogger(logger))

	content, outcome, err := p.Preflight(raw)
	if err != nil {
		return err
	}

	printOutcome(term, outcome)
	fmt.Fprintf(os.Stderr, "Mode:    %s\n", outcome.Mode.Label())
	fmt.Fprintf(os.Stderr, "Length:  %d characters\n\n", len([]rune(content)))
	fmt.Println(report.NewRenderer().Preview(content))

	return nil
}

func newTerminal(cfg *model.Config) *report.Terminal {
	return report.NewTerminal(
		report.WithPlain(cfg.Output.Plain),
		report.WithWordWrap(cfg.Output.WordWrap))
}

func printOutcome(term *report.Terminal, o validate.Outcome) {
	for _, n := range o.Notices {
		fmt.Fprintln(os.Stderr, term.Notice(n))
	}
	for _, w := range o.Warnings {
		fmt.Fprintln(os.Stderr, term.Warning(w))
	}
}

func printStage(s pipeline.Stage) {
	fmt.Fprintf(os.Stderr, "  [%3d%%] %s\n", s.Percent, s.Message)
}

// displayResult prints the verdict banner and the rendered report to stdout
func displayResult(term *report.Terminal, result *model.Result) {
	fmt.Println(term.Heading("Verification Result"))
	fmt.Println()
	fmt.Println(term.Banner(result.Verdict))
	fmt.Println()
	fmt.Println(term.Heading("Comprehensive Analysis Report"))
	fmt.Println()

	rendered, err := term.RenderReport(result.Report)
	if err != nil {
		// Fall back to the sanitized source
		logger.Warn("markdown rendering failed", zap.Error(err))
		rendered = term.Sanitize(result.Report)
	}
	fmt.Println(rendered)
}

// writeArtifacts writes the exports requested on the command line
func writeArtifacts(cfg *model.Config, result *model.Result) error {
	renderer := report.NewRenderer()

	targets := []struct {
		path   string
		format model.ExportFormat
	}{
		{outTxt, model.FormatPlainText},
		{outMD, model.FormatMarkdown},
	}

	for _, target := range targets {
		if target.path == "" {
			continue
		}

		artifact, err := renderer.Export(result.Content, result.Report, target.format)
		if err != nil {
			return err
		}
		artifact.Filename = filepath.Base(target.path)

		path, err := renderer.WriteFile(filepath.Dir(target.path), artifact)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
	}

	dir := outputDir
	if dir == "" {
		dir = cfg.Output.OutputDir
	}
	if dir != "" {
		for _, artifact := range renderer.ExportAll(result.Content, result.Report) {
			path, err := renderer.WriteFile(dir, artifact)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
		}
	}

	if outJSON != "" {
		if err := renderer.WriteJSON(outJSON, result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outJSON)
	}

	return nil
}
