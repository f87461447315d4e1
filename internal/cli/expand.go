package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/caseweave/caseweave/internal/manifest"
)

// ExpandOptions holds flags for the expand command.
type ExpandOptions struct {
	*RootOptions
}

// NewExpandCommand creates the expand command.
func NewExpandCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExpandOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "expand <manifest>",
		Short: "Expand a manifest into its full case set",
		Long: `Expand a matrix manifest into the full Cartesian product of its axes.

Text output lists one case per line, prefixed with "+" for expected
successes and "-" otherwise. JSON output is the canonical expansion
snapshot, the same rendering the snapshot command records.

Exit codes:
  0 - Expansion produced
  2 - Command error (missing or invalid manifest)

Examples:
  caseweave expand matrices/retry_dial.yaml
  caseweave expand matrices/retry_dial.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExpand(opts, args[0], cmd)
		},
	}

	return cmd
}

func runExpand(opts *ExpandOptions, path string, cmd *cobra.Command) error {
	cases, m, err := expandManifest(path)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		snapshot, err := manifest.Snapshot(m.Name, cases)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to render snapshot", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(snapshot))
		return nil
	}

	expected := 0
	for _, c := range cases {
		if c.Expected {
			expected++
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d cases (%d expected successes)\n", m.Name, len(cases), expected)
	for _, c := range cases {
		marker := "-"
		if c.Expected {
			marker = "+"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", marker, c.Description)
	}

	return nil
}

// expandManifest loads and expands one manifest file.
func expandManifest(path string) ([]manifest.Case, *manifest.Manifest, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil, NewExitError(ExitCommandError, fmt.Sprintf("manifest not found: %s", path))
	}

	m, err := manifest.Load(path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to load %s", path), err)
	}

	cases, err := m.Expand()
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to expand %s", path), err)
	}

	return cases, m, nil
}
