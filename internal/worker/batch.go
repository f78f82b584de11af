package worker

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/verifact/internal/model"
)

// Runner runs one complete analysis
type Runner interface {
	Run(ctx context.Context, raw model.RawInput) (*model.Result, error)
}

// ItemResult is the outcome of one batch input
type ItemResult struct {
	Index  int // 1-based position among the parsed inputs
	Input  BatchInput
	Result *model.Result
	Err    error
}

// BatchProcessor runs batch inputs one after another.
// Runs never overlap; the limiter only spaces out backend calls.
type BatchProcessor struct {
	runner   Runner
	limiter  *Limiter
	limitKey string
	delay    time.Duration
	logger   *zap.Logger
	onItem   func(*ItemResult)
}

// BatchOption configures a BatchProcessor
type BatchOption func(*BatchProcessor)

// WithLimiter paces runs through the limiter bucket named key
func WithLimiter(limiter *Limiter, key string) BatchOption {
	return func(b *BatchProcessor) {
		b.limiter = limiter
		b.limitKey = key
	}
}

// WithDelay adds a fixed pause before every run after the first
func WithDelay(d time.Duration) BatchOption {
	return func(b *BatchProcessor) { b.delay = d }
}

// WithBatchLogger sets the structured logger
func WithBatchLogger(logger *zap.Logger) BatchOption {
	return func(b *BatchProcessor) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithItemCallback is called after each input finishes
func WithItemCallback(fn func(*ItemResult)) BatchOption {
	return func(b *BatchProcessor) { b.onItem = fn }
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(runner Runner, opts ...BatchOption) *BatchProcessor {
	b := &BatchProcessor{
		runner: runner,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Process runs every input in order and returns one result per input.
// A failing input does not stop the batch; a cancelled context does, and the
// remaining inputs are reported with the context error.
func (b *BatchProcessor) Process(ctx context.Context, inputs []BatchInput) []*ItemResult {
	results := make([]*ItemResult, 0, len(inputs))
	analyzed := 0

	for i, in := range inputs {
		item := &ItemResult{Index: i + 1, Input: in}
		results = append(results, item)

		if err := ctx.Err(); err != nil {
			item.Err = err
			continue
		}

		if in.Err != nil {
			item.Err = in.Err
			b.finish(item)
			continue
		}

		if err := b.pace(ctx, analyzed); err != nil {
			item.Err = err
			continue
		}
		analyzed++

		result, err := b.runner.Run(ctx, in.Raw)
		item.Result = result
		item.Err = err
		b.finish(item)
	}

	return results
}

// ProcessFile reads inputs from a file and processes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ItemResult, error) {
	inputs, err := ReadInputsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read inputs: %w", err)
	}

	return b.Process(ctx, inputs), nil
}

func (b *BatchProcessor) pace(ctx context.Context, analyzed int) error {
	var delay time.Duration
	if analyzed > 0 {
		delay = b.delay
	}

	if b.limiter != nil {
		return b.limiter.WaitWithDelay(ctx, b.limitKey, delay)
	}
	return sleep(ctx, delay)
}

func (b *BatchProcessor) finish(item *ItemResult) {
	fields := []zap.Field{
		zap.Int("index", item.Index),
		zap.Int("line", item.Input.Line),
		zap.String("mode", item.Input.Mode.String()),
	}
	if item.Err != nil {
		b.logger.Warn("batch input failed", append(fields, zap.Error(item.Err))...)
	} else if item.Result != nil {
		b.logger.Info("batch input complete", append(fields,
			zap.String("run_id", item.Result.RunID),
			zap.String("verdict", item.Result.Verdict.String()))...)
	}

	if b.onItem != nil {
		b.onItem(item)
	}
}

// Summary is the machine-readable digest written after a batch
type Summary struct {
	Total     int            `json:"total"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Verdicts  map[string]int `json:"verdicts"`
	Items     []SummaryItem  `json:"items"`
}

// SummaryItem describes one batch input in the summary
type SummaryItem struct {
	Index     int    `json:"index"`
	Line      int    `json:"line"`
	Input     string `json:"input"`
	Mode      string `json:"mode"`
	RunID     string `json:"run_id,omitempty"`
	Verdict   string `json:"verdict,omitempty"`
	Rule      string `json:"rule,omitempty"`
	Directory string `json:"directory,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Summarize builds the batch digest; dirs maps item index to its artifact directory
func Summarize(results []*ItemResult, dirs map[int]string) Summary {
	s := Summary{
		Total:    len(results),
		Verdicts: make(map[string]int),
		Items:    make([]SummaryItem, 0, len(results)),
	}

	for _, r := range results {
		item := SummaryItem{
			Index:     r.Index,
			Line:      r.Input.Line,
			Input:     r.Input.Text,
			Mode:      r.Input.Mode.String(),
			Directory: dirs[r.Index],
		}

		if r.Err != nil || r.Result == nil {
			s.Failed++
			if r.Err != nil {
				item.Error = r.Err.Error()
			}
		} else {
			s.Succeeded++
			item.RunID = r.Result.RunID
			item.Verdict = r.Result.Verdict.String()
			item.Rule = r.Result.Rule
			s.Verdicts[item.Verdict]++
		}

		s.Items = append(s.Items, item)
	}

	return s
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// Slug builds a filesystem-safe directory name for a batch item, e.g. "003-the-moon-landing"
func Slug(index int, text string) string {
	s := slugUnsafe.ReplaceAllString(strings.ToLower(text), "-")
	s = strings.Trim(s, "-")

	if runes := []rune(s); len(runes) > 40 {
		s = strings.TrimRight(string(runes[:40]), "-")
	}
	if s == "" {
		s = "input"
	}

	return fmt.Sprintf("%03d-%s", index, s)
}
