package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/replaycheck/internal/compare"
	"github.com/roach88/replaycheck/internal/config"
	"github.com/roach88/replaycheck/internal/report"
	"github.com/roach88/replaycheck/internal/store"
)

// CompareOptions holds flags for the compare command.
type CompareOptions struct {
	*RootOptions
	RefLabel         string
	CandLabel        string
	Strict           bool
	Skip             []string
	RelTol           float64
	AbsTol           float64
	NormalizeUnicode bool
	ContextArray     string
	All              bool
	Max              int
	DiffStrings      bool
	Database         string // optional - record the run
}

// InputResult names one compared document.
type InputResult struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// CompareResult is the JSON payload of the compare command.
type CompareResult struct {
	Reference   InputResult          `json:"reference"`
	Candidate   InputResult          `json:"candidate"`
	Equal       bool                 `json:"equal"`
	Count       int                  `json:"count"`
	Limited     bool                 `json:"limited,omitempty"`
	Divergences []compare.Divergence `json:"divergences"`
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compare [reference [candidate]]",
		Short: "Compare two JSON documents",
		Long: `Walk the reference and candidate documents in lockstep and report where
they diverge.

By default numbers compare within a relative tolerance of 1e-6 (absolute
1e-9 near zero), integers and floats compare as numbers, and the top-level
"timestamp" field is ignored. --strict compares exactly instead.

Exit codes:
  0 - Documents are equivalent
  1 - Divergence found
  2 - Command error (file not found, invalid JSON, bad config, etc.)

Examples:
  replaycheck compare
  replaycheck compare output.json aoc-mgz/output.txt
  replaycheck compare --strict --all --max 20 a.json b.json
  replaycheck compare --db ./replaycheck.db --format json`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(opts, cmd, args)
		},
	}

	defaults := config.Default()
	cmd.Flags().StringVar(&opts.RefLabel, "ref-label", defaults.Reference.Label, "label for the reference document")
	cmd.Flags().StringVar(&opts.CandLabel, "cand-label", defaults.Candidate.Label, "label for the candidate document")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exact comparison: no tolerance, no skipped fields, integer and float distinct")
	cmd.Flags().StringSliceVar(&opts.Skip, "skip", defaults.Compare.SkipFields, "top-level fields to ignore")
	cmd.Flags().Float64Var(&opts.RelTol, "rel-tol", defaults.Compare.RelativeTolerance, "relative numeric tolerance")
	cmd.Flags().Float64Var(&opts.AbsTol, "abs-tol", defaults.Compare.AbsoluteTolerance, "absolute numeric tolerance near zero")
	cmd.Flags().BoolVar(&opts.NormalizeUnicode, "normalize-unicode", false, "compare strings and object keys after NFC normalization")
	cmd.Flags().StringVar(&opts.ContextArray, "context-array", defaults.Compare.ContextArray, "root array giving context for missing keys (empty disables)")
	cmd.Flags().BoolVar(&opts.All, "all", false, "report every divergence instead of stopping at the first")
	cmd.Flags().IntVar(&opts.Max, "max", 0, "stop after this many divergences; requires --all (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.DiffStrings, "diff-strings", false, "show an inline diff for string mismatches")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")

	// --strict replaces the tolerant settings outright
	cmd.MarkFlagsMutuallyExclusive("strict", "skip")
	cmd.MarkFlagsMutuallyExclusive("strict", "rel-tol")
	cmd.MarkFlagsMutuallyExclusive("strict", "abs-tol")

	return cmd
}

// applyFlags layers explicitly set flags over the configuration.
func (opts *CompareOptions) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	applyLabelFlags(cmd, cfg, opts.RefLabel, opts.CandLabel)

	flags := cmd.Flags()
	c := &cfg.Compare
	if flags.Changed("strict") {
		c.Strict = opts.Strict
	}
	if flags.Changed("skip") {
		c.SkipFields = opts.Skip
	}
	if flags.Changed("rel-tol") {
		c.RelativeTolerance = opts.RelTol
	}
	if flags.Changed("abs-tol") {
		c.AbsoluteTolerance = opts.AbsTol
	}
	if flags.Changed("normalize-unicode") {
		c.NormalizeUnicode = opts.NormalizeUnicode
	}
	if flags.Changed("context-array") {
		c.ContextArray = opts.ContextArray
	}
	if flags.Changed("all") {
		c.CollectAll = opts.All
	}
	if flags.Changed("max") {
		c.MaxDivergences = opts.Max
	}
	if flags.Changed("diff-strings") {
		c.DiffStrings = opts.DiffStrings
	}
}

func runCompare(opts *CompareOptions, cmd *cobra.Command, args []string) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger()

	cfg, err := loadConfig(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	applyInputArgs(&cfg, args)
	opts.applyFlags(cmd, &cfg)
	if err := validateConfig(cfg, formatter); err != nil {
		return err
	}
	if ignored := cfg.Compare.IgnoredByStrict(); len(ignored) > 0 {
		logger.Warn("Strict comparison ignores tolerant settings", zap.Strings("settings", ignored))
	}

	docs, err := loadDocuments(cfg, logger, formatter)
	if err != nil {
		return err
	}

	policy := cfg.Compare.Policy()
	res := compare.Compare(docs.Reference, docs.Candidate, policy)
	logger.Debug("Compared documents",
		zap.Bool("equal", res.Equal()),
		zap.Int("divergences", len(res.Divergences)),
		zap.Bool("limited", res.Limited))

	var runID string
	if opts.Database != "" {
		runID, err = recordRun(opts, cfg, policy, res)
		if err != nil {
			return formatter.CommandErrorDetails(ErrCodeStore, "failed to record run", err,
				map[string]string{"db": opts.Database})
		}
		logger.Debug("Recorded run", zap.String("run_id", runID), zap.String("db", opts.Database))
	}

	if formatter.IsJSON() {
		return outputCompareJSON(formatter, cfg, res, runID)
	}
	return outputCompareText(opts, cmd, cfg, res, runID)
}

// recordRun writes the comparison to the history database.
func recordRun(opts *CompareOptions, cfg config.Config, policy compare.Policy, res compare.Result) (string, error) {
	ctx := context.Background()

	st, err := store.Open(opts.Database)
	if err != nil {
		return "", err
	}
	defer st.Close()

	run, err := store.NewRun(store.NewRunID(), "compare", cfg.Reference.Path, cfg.Candidate.Path, policy, res)
	if err != nil {
		return "", err
	}
	if err := st.WriteRun(ctx, run, res.Divergences); err != nil {
		return "", err
	}
	return run.ID, nil
}

// outputCompareJSON outputs the comparison result as JSON.
func outputCompareJSON(formatter *OutputFormatter, cfg config.Config, res compare.Result, runID string) error {
	divergences := res.Divergences
	if divergences == nil {
		divergences = []compare.Divergence{}
	}

	response := CLIResponse{
		Status: "ok",
		Data: CompareResult{
			Reference:   InputResult{Label: cfg.Reference.Label, Path: cfg.Reference.Path},
			Candidate:   InputResult{Label: cfg.Candidate.Label, Path: cfg.Candidate.Path},
			Equal:       res.Equal(),
			Count:       len(divergences),
			Limited:     res.Limited,
			Divergences: divergences,
		},
		RunID: runID,
	}

	if !res.Equal() {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeDivergence,
			Message: res.First().Error(),
		}
	}

	if err := formatter.Encode(response); err != nil {
		return err
	}

	if !res.Equal() {
		return NewExitError(ExitFailure, "documents diverge")
	}
	return nil
}

// outputCompareText prints the diagnostics to stdout. The run ID, if any,
// goes to stderr so stdout stays identical across runs.
func outputCompareText(opts *CompareOptions, cmd *cobra.Command, cfg config.Config, res compare.Result, runID string) error {
	w := cmd.OutOrStdout()

	printer := report.NewPrinter(w, report.Options{
		Labels: report.Labels{
			Reference: cfg.Reference.Label,
			Candidate: cfg.Candidate.Label,
		},
		Color:      report.UseColor(report.ColorMode(opts.Color), w),
		StringDiff: cfg.Compare.DiffStrings,
	})
	printer.Comparison(res)

	if runID != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Recorded run %s\n", runID)
	}

	if !res.Equal() {
		return NewExitError(ExitFailure, "documents diverge")
	}
	return nil
}
