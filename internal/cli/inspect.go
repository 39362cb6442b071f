package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/replaycheck/internal/config"
	"github.com/roach88/replaycheck/internal/inspect"
	"github.com/roach88/replaycheck/internal/report"
)

// ErrCodeNoActions marks a document without the scanned array.
const ErrCodeNoActions = "E012"

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	RefLabel  string
	CandLabel string
	Side      string
	Start     int
	End       int
	Type      string
	Array     string
	Field     string
	Both      bool
}

// InspectResult is the JSON payload of the inspect command.
type InspectResult struct {
	Reference InputResult    `json:"reference"`
	Candidate InputResult    `json:"candidate"`
	Report    inspect.Report `json:"report"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect [reference [candidate]]",
		Short: "Scan action records for repeated field values",
		Long: `Scan a range of one document's action records, keep those of one type,
and mark each as SAME when the inspected field equals the previous kept
record's value, NEW otherwise.

Defaults scan MOVE actions [12, 30) of the candidate document and inspect
payload.object_ids.

Exit codes:
  0 - Scan completed
  2 - Command error (file not found, invalid JSON, missing actions, etc.)

Examples:
  replaycheck inspect
  replaycheck inspect --side reference --start 0 --end 100
  replaycheck inspect --both --type ATTACK --field payload.target_id`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, cmd, args)
		},
	}

	defaults := config.Default()
	cmd.Flags().StringVar(&opts.RefLabel, "ref-label", defaults.Reference.Label, "label for the reference document")
	cmd.Flags().StringVar(&opts.CandLabel, "cand-label", defaults.Candidate.Label, "label for the candidate document")
	cmd.Flags().StringVar(&opts.Side, "side", defaults.Inspect.Side, "document to scan (reference|candidate)")
	cmd.Flags().IntVar(&opts.Start, "start", defaults.Inspect.Start, "first action index (inclusive)")
	cmd.Flags().IntVar(&opts.End, "end", defaults.Inspect.End, "last action index (exclusive)")
	cmd.Flags().StringVar(&opts.Type, "type", defaults.Inspect.Type, "action type to keep")
	cmd.Flags().StringVar(&opts.Array, "array", defaults.Inspect.Array, "root array holding the actions")
	cmd.Flags().StringVar(&opts.Field, "field", defaults.Inspect.Field, "dotted path of the inspected field")
	cmd.Flags().BoolVar(&opts.Both, "both", false, "scan both documents")

	return cmd
}

// applyFlags layers explicitly set flags over the configuration.
func (opts *InspectOptions) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	applyLabelFlags(cmd, cfg, opts.RefLabel, opts.CandLabel)

	flags := cmd.Flags()
	in := &cfg.Inspect
	if flags.Changed("side") {
		in.Side = opts.Side
	}
	if flags.Changed("start") {
		in.Start = opts.Start
	}
	if flags.Changed("end") {
		in.End = opts.End
	}
	if flags.Changed("type") {
		in.Type = opts.Type
	}
	if flags.Changed("array") {
		in.Array = opts.Array
	}
	if flags.Changed("field") {
		in.Field = opts.Field
	}
	if flags.Changed("both") {
		in.Both = opts.Both
	}
}

func runInspect(opts *InspectOptions, cmd *cobra.Command, args []string) error {
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

	docs, err := loadDocuments(cfg, logger, formatter)
	if err != nil {
		return err
	}

	scan := cfg.Inspect.Options()
	rep, err := inspect.Run(docs.Reference, docs.Candidate, scan)
	if err != nil {
		if errors.Is(err, inspect.ErrNoActions) {
			return formatter.CommandError(ErrCodeNoActions, "cannot scan actions", err)
		}
		return formatter.CommandError(ErrCodeInvalidFlag, "invalid scan", err)
	}
	logger.Debug("Scanned actions",
		zap.String("type", scan.Type),
		zap.Int("start", scan.Start),
		zap.Int("end", scan.End),
		zap.Int("sections", len(rep.Sections)))

	if formatter.IsJSON() {
		return formatter.Success(InspectResult{
			Reference: InputResult{Label: cfg.Reference.Label, Path: cfg.Reference.Path},
			Candidate: InputResult{Label: cfg.Candidate.Label, Path: cfg.Candidate.Path},
			Report:    rep,
		})
	}

	w := cmd.OutOrStdout()
	printer := report.NewPrinter(w, report.Options{
		Labels: report.Labels{
			Reference: cfg.Reference.Label,
			Candidate: cfg.Candidate.Label,
		},
		Color: report.UseColor(report.ColorMode(opts.Color), w),
	})
	printer.Inspection(rep)
	return nil
}
