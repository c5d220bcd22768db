package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tealium/internal/datalayer"
	"github.com/roach88/tealium/internal/store"
	"github.com/roach88/tealium/internal/tagset"
)

// DataLayerOptions holds flags for the datalayer command.
type DataLayerOptions struct {
	*RootOptions
	Set    string // only build the named tag set
	DBPath string // record snapshots in this database

	ids store.IDGenerator // snapshot IDs; UUIDv7 unless a test overrides it
}

// DataLayerOutput is the JSON form of one built data layer.
type DataLayerOutput struct {
	Name       string                `json:"name"`
	Hash       string                `json:"hash"`
	Values     json.RawMessage       `json:"values"`
	Rejected   []datalayer.Rejection `json:"rejected"`
	SnapshotID string                `json:"snapshot_id,omitempty"`
}

// NewDataLayerCommand creates the datalayer command.
func NewDataLayerCommand(rootOpts *RootOptions) *cobra.Command {
	return newDataLayerCommand(rootOpts, store.UUIDv7Generator{})
}

func newDataLayerCommand(rootOpts *RootOptions, ids store.IDGenerator) *cobra.Command {
	opts := &DataLayerOptions{RootOptions: rootOpts, ids: ids}

	cmd := &cobra.Command{
		Use:   "datalayer <tagset-path>",
		Short: "Build data layers from tag set files",
		Long: `Load tag sets from a YAML file, a CUE file or a directory of CUE files,
drop every invalid value, and print the canonical JSON of what remains.

With --db each data layer is also recorded as a snapshot.

Examples:
  tealium datalayer ./tagsets/front_page.yaml
  tealium datalayer ./tagsets --set article
  tealium datalayer ./tagsets --db tealium.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDataLayer(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Set, "set", "", "only build the named tag set")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "record snapshots in this SQLite database")

	return cmd
}

func runDataLayer(ctx context.Context, opts *DataLayerOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	sets, err := tagset.Load(path)
	if err != nil {
		return failLoad(formatter, err)
	}
	formatter.VerboseLog("Loaded %d tag set(s) from %s", len(sets), path)

	if opts.Set != "" {
		sets = filterSets(sets, opts.Set)
		if len(sets) == 0 {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("tag set %q not found in %s", opts.Set, path), nil)
		}
	}

	var st *store.Store
	if opts.DBPath != "" {
		st, err = store.Open(opts.DBPath)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
		}
		defer st.Close()
	}

	outputs := make([]DataLayerOutput, 0, len(sets))
	for _, ts := range sets {
		b := datalayer.New(datalayer.WithLogger(logger.With("tagset", ts.Name)))
		accepted := b.SetAll(ts.Map())
		formatter.VerboseLog("%s: %d of %d values accepted", ts.Name, accepted, len(ts.Values))
		dl := b.Build()

		payload, err := dl.JSON()
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("encode %s", ts.Name), err)
		}

		out := DataLayerOutput{
			Name:     ts.Name,
			Hash:     dl.Hash,
			Values:   payload,
			Rejected: dl.Rejected,
		}

		if st != nil {
			id, err := recordSnapshot(ctx, st, opts.ids, ts.Name, dl)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("record %s", ts.Name), err)
			}
			out.SnapshotID = id
			formatter.VerboseLog("Recorded %s as %s", ts.Name, id)
		}

		outputs = append(outputs, out)
	}

	return formatter.Success(outputs, formatDataLayerText(outputs))
}

func recordSnapshot(ctx context.Context, st *store.Store, ids store.IDGenerator, name string, dl datalayer.DataLayer) (string, error) {
	seq, err := st.NextSeq(ctx)
	if err != nil {
		return "", err
	}
	snap, err := store.NewSnapshot(ids.Generate(), name, seq, dl)
	if err != nil {
		return "", err
	}
	inserted, err := st.WriteSnapshot(ctx, snap)
	if err != nil {
		return "", err
	}
	if !inserted {
		return "", fmt.Errorf("snapshot %s already recorded", snap.ID)
	}
	return snap.ID, nil
}

func filterSets(sets []*tagset.TagSet, name string) []*tagset.TagSet {
	var out []*tagset.TagSet
	for _, ts := range sets {
		if ts.Name == name {
			out = append(out, ts)
		}
	}
	return out
}

// failLoad reports a tagset loader error with its own code.
func failLoad(formatter *OutputFormatter, err error) error {
	var le *tagset.LoadError
	if errors.As(err, &le) {
		msg := le.Message
		if le.File != "" && le.Line > 0 {
			msg = fmt.Sprintf("%s:%d: %s", le.File, le.Line, le.Message)
		}
		_ = formatter.Error(le.Code, msg, nil)
		return WrapExitError(ExitCommandError, "failed to load tag sets", err)
	}
	return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), err)
}

func formatDataLayerText(outputs []DataLayerOutput) string {
	var b strings.Builder
	for _, out := range outputs {
		fmt.Fprintf(&b, "# %s (sha256:%s)\n", out.Name, shortHash(out.Hash))
		fmt.Fprintf(&b, "%s\n", out.Values)
		if len(out.Rejected) > 0 {
			parts := make([]string, len(out.Rejected))
			for i, r := range out.Rejected {
				parts[i] = fmt.Sprintf("%s (%s)", r.Key, r.Reason)
			}
			fmt.Fprintf(&b, "rejected: %s\n", strings.Join(parts, ", "))
		}
		if out.SnapshotID != "" {
			fmt.Fprintf(&b, "snapshot: %s\n", out.SnapshotID)
		}
	}
	return b.String()
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
