package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/caseweave/caseweave/internal/recorder"
)

// SnapshotOptions holds flags for the snapshot command.
type SnapshotOptions struct {
	*RootOptions
	Database string
}

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snapshot <manifest>",
		Short: "Expand a manifest and record the result",
		Long: `Expand a matrix manifest and record the expansion in the snapshot
database. Each snapshot gets a fresh run ID and a content digest of
the expansion; recording before and after a manifest edit makes the
effect of the edit queryable via the report command.

Exit codes:
  0 - Snapshot recorded
  2 - Command error (missing manifest, database failure)

Examples:
  caseweave snapshot matrices/retry_dial.yaml --db snapshots.db
  caseweave snapshot matrices/retry_dial.yaml --db snapshots.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the snapshot database (required)")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runSnapshot(opts *SnapshotOptions, path string, cmd *cobra.Command) error {
	cases, m, err := expandManifest(path)
	if err != nil {
		return err
	}
	slog.Debug("manifest expanded", "matrix", m.Name, "cases", len(cases))

	rec, err := recorder.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to open database %s", opts.Database), err)
	}
	defer func() {
		if closeErr := rec.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	run, err := rec.RecordRun(context.Background(), m.Name, cases)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to record run", err)
	}
	slog.Debug("run recorded", "run_id", run.ID, "digest", run.SnapshotDigest)

	if opts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "recorded run %s: %d cases (%d expected), digest %s\n",
		run.ID, run.CaseCount, run.ExpectedCount, shortDigest(run.SnapshotDigest))
	return nil
}

// shortDigest truncates a digest for text output.
func shortDigest(digest string) string {
	if len(digest) <= 12 {
		return digest
	}
	return digest[:12]
}
