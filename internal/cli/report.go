package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/caseweave/caseweave/internal/recorder"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Database string
	Matrix   string
}

// ReportResult holds the report command's output.
type ReportResult struct {
	Runs  []recorder.Run `json:"runs"`
	Total int            `json:"total"`
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show recorded snapshot history",
		Long: `List recorded expansion snapshots, oldest first.

A digest change between consecutive runs of the same matrix means the
case set changed in between.

Exit codes:
  0 - Report produced
  2 - Command error (database not found)

Examples:
  caseweave report --db snapshots.db
  caseweave report --db snapshots.db --matrix retry_dial
  caseweave report --db snapshots.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the snapshot database (required)")
	cmd.Flags().StringVar(&opts.Matrix, "matrix", "", "only show runs for this matrix")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runReport(opts *ReportOptions, cmd *cobra.Command) error {
	// Opening a missing database would silently create an empty one.
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", opts.Database))
	}

	rec, err := recorder.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to open database %s", opts.Database), err)
	}
	defer rec.Close()

	runs, err := rec.ListRuns(context.Background(), opts.Matrix)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	result := ReportResult{Runs: runs, Total: len(runs)}
	if result.Runs == nil {
		result.Runs = []recorder.Run{}
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	for _, run := range runs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-20s  %4d cases  %4d expected  digest %s\n",
			run.ID, run.MatrixName, run.CaseCount, run.ExpectedCount, shortDigest(run.SnapshotDigest))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d runs\n", len(runs))
	return nil
}
