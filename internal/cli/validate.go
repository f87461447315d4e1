package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/caseweave/caseweave/internal/manifest"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// FileResult holds the validation outcome for a single manifest file.
type FileResult struct {
	Path  string `json:"path"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidateResult holds the overall validation outcome.
type ValidateResult struct {
	Files   []FileResult `json:"files"`
	Valid   int          `json:"valid"`
	Invalid int          `json:"invalid"`
	Total   int          `json:"total"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <manifest|dir>...",
		Short: "Validate matrix manifests",
		Long: `Validate matrix manifest files against the schema.

Each argument is a manifest file or a directory to scan for .yaml and
.yml files. Validation covers YAML structure, the manifest schema, and
field values the expansion would reject.

Exit codes:
  0 - All manifests valid
  1 - One or more manifests invalid
  2 - Command error (missing paths, no manifests found)

Examples:
  caseweave validate matrices/retry_dial.yaml
  caseweave validate ./matrices
  caseweave validate ./matrices --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, args []string, cmd *cobra.Command) error {
	files, err := collectManifestFiles(args)
	if err != nil {
		return err
	}

	result := ValidateResult{
		Files: make([]FileResult, 0, len(files)),
		Total: len(files),
	}

	for _, path := range files {
		fr := FileResult{Path: path, Valid: true}
		if _, err := manifest.Load(path); err != nil {
			fr.Valid = false
			fr.Error = err.Error()
			result.Invalid++
		} else {
			result.Valid++
		}
		result.Files = append(result.Files, fr)
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		for _, fr := range result.Files {
			if fr.Valid {
				fmt.Fprintf(cmd.OutOrStdout(), "ok    %s\n", fr.Path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "FAIL  %s: %s\n", fr.Path, fr.Error)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d valid, %d invalid\n", result.Valid, result.Invalid)
	}

	if result.Invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d manifests invalid", result.Invalid, result.Total))
	}
	return nil
}

// collectManifestFiles resolves arguments into manifest file paths.
// Directories are walked for .yaml/.yml files; plain files are taken
// as-is.
func collectManifestFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if os.IsNotExist(err) {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("path not found: %s", arg))
		}
		if err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("cannot access %s", arg), err)
		}

		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		err = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			ext := filepath.Ext(path)
			if ext == ".yaml" || ext == ".yml" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to scan %s", arg), err)
		}
	}

	if len(files) == 0 {
		return nil, NewExitError(ExitCommandError, "no manifest files found")
	}
	return files, nil
}
