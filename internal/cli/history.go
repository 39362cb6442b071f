package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/replaycheck/internal/store"
	"github.com/roach88/replaycheck/internal/value"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// HistoryList is the JSON payload of a run listing.
type HistoryList struct {
	Runs []store.Run `json:"runs"`
}

// HistoryRun is the JSON payload of a single run.
type HistoryRun struct {
	Run         store.Run                `json:"run"`
	Kinds       map[string]int           `json:"kinds"`
	Divergences []store.DivergenceRecord `json:"divergences"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded comparison runs",
		Long: `List comparison runs recorded with "compare --db", newest first, or show
the divergences of one run.

Exit codes:
  0 - History shown
  2 - Command error (database not found, unknown run, etc.)

Examples:
  replaycheck history --db ./replaycheck.db
  replaycheck history --db ./replaycheck.db --limit 5
  replaycheck history --db ./replaycheck.db 0192f6c1-...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list (0 = all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := opts.formatter(cmd)
	details := map[string]string{"db": opts.Database}

	// Open would create a missing database
	if _, err := os.Stat(opts.Database); errors.Is(err, fs.ErrNotExist) {
		return formatter.CommandErrorDetails(ErrCodeNotFound, "database not found", err, details)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.CommandErrorDetails(ErrCodeStore, "failed to open database", err, details)
	}
	defer st.Close()

	if len(args) == 1 {
		return showRun(ctx, opts, st, formatter, args[0])
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return formatter.CommandErrorDetails(ErrCodeStore, "failed to list runs", err, details)
	}
	opts.logger().Debug("Listed runs", zap.Int("count", len(runs)))

	if formatter.IsJSON() {
		return formatter.Success(HistoryList{Runs: runs})
	}

	w := formatter.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(w, "%s  %-9s  %d divergence(s)  %s vs %s\n",
			run.ID, run.Status, run.DivergenceCount, run.ReferencePath, run.CandidatePath)
	}
	return nil
}

func showRun(ctx context.Context, opts *HistoryOptions, st *store.Store, formatter *OutputFormatter, id string) error {
	details := map[string]string{"db": opts.Database, "run_id": id}
	run, records, err := st.ReadRun(ctx, id)
	if errors.Is(err, store.ErrRunNotFound) {
		return formatter.CommandErrorDetails(ErrCodeRunNotFound, "run not found", err, details)
	}
	if err != nil {
		return formatter.CommandErrorDetails(ErrCodeStore, "failed to read run", err, details)
	}

	kinds, err := st.KindCounts(ctx, id)
	if err != nil {
		return formatter.CommandErrorDetails(ErrCodeStore, "failed to count divergences", err, details)
	}
	opts.logger().Debug("Read run", zap.String("run_id", id), zap.Int("divergences", len(records)))

	if formatter.IsJSON() {
		return formatter.Success(HistoryRun{Run: run, Kinds: kinds, Divergences: records})
	}

	outputRunText(formatter.Writer, run, kinds, records)
	return nil
}

func outputRunText(w io.Writer, run store.Run, kinds map[string]int, records []store.DivergenceRecord) {
	fmt.Fprintf(w, "Run %s\n", run.ID)
	fmt.Fprintf(w, "  command:     %s\n", run.Command)
	fmt.Fprintf(w, "  reference:   %s\n", run.ReferencePath)
	fmt.Fprintf(w, "  candidate:   %s\n", run.CandidatePath)
	fmt.Fprintf(w, "  status:      %s\n", run.Status)
	fmt.Fprintf(w, "  policy:      %s\n", run.Policy)
	fmt.Fprintf(w, "  divergences: %d%s\n", run.DivergenceCount, kindSummary(kinds))

	for _, rec := range records {
		path := rec.Path
		if path == "" {
			path = value.Path{}.Label()
		}
		fmt.Fprintf(w, "  [%d] %s at %s\n", rec.Ordinal, rec.Kind, path)
	}
}

// kindSummary renders counts as " (kind=n, ...)" in key order.
func kindSummary(kinds map[string]int) string {
	if len(kinds) == 0 {
		return ""
	}
	parts := make([]string, 0, len(kinds))
	for _, k := range slices.Sorted(maps.Keys(kinds)) {
		parts = append(parts, fmt.Sprintf("%s=%d", k, kinds[k]))
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
