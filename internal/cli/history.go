package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tealium/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DBPath string
	Name   string
	Hash   string
	Limit  int
}

// HistoryResult is the output of the history command.
type HistoryResult struct {
	Snapshots []store.Snapshot `json:"snapshots"`
	Count     int              `json:"count"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded data layer snapshots",
		Long: `List snapshots recorded by "tealium datalayer --db", newest first.

Examples:
  tealium history --db tealium.db
  tealium history --db tealium.db --name front_page --limit 5
  tealium history --db tealium.db --hash 1f6b21d3ceb6...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite database written by datalayer --db (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "only list snapshots of this tag set")
	cmd.Flags().StringVar(&opts.Hash, "hash", "", "only list snapshots with this content hash")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of snapshots (0 for all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Hash != "" && opts.Name != "" {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArgs, "--hash and --name cannot be combined", nil)
	}
	if opts.Limit < 0 {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArgs, fmt.Sprintf("--limit must not be negative, got %d", opts.Limit), nil)
	}

	// Opening would create an empty database, so a missing file is reported instead.
	if _, err := os.Stat(opts.DBPath); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.DBPath), err)
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	var snaps []store.Snapshot
	if opts.Hash != "" {
		snaps, err = st.FindByHash(ctx, opts.Hash)
		if err == nil && opts.Limit > 0 && len(snaps) > opts.Limit {
			snaps = snaps[:opts.Limit]
		}
	} else {
		snaps, err = st.ListSnapshots(ctx, opts.Name, opts.Limit)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to read snapshots", err)
	}

	result := HistoryResult{Snapshots: snaps, Count: len(snaps)}
	return formatter.Success(result, formatHistoryText(result))
}

func formatHistoryText(result HistoryResult) string {
	if result.Count == 0 {
		return "No snapshots found.\n"
	}

	var b strings.Builder
	for _, s := range result.Snapshots {
		fmt.Fprintf(&b, "%4d  %s  %-20s  sha256:%s  %d accepted, %d rejected\n",
			s.Seq, s.ID, s.Name, shortHash(s.ContentHash), s.Accepted, len(s.Rejected))
	}
	return b.String()
}
