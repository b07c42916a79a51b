package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/schemats/config"
	"github.com/teranos/schemats/errors"
	"github.com/teranos/schemats/logger"
	"github.com/teranos/schemats/typegen"
)

// GenerateCmd renders TypeScript declarations for every target
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate TypeScript declarations from model descriptors",
	Long: `Generate TypeScript interfaces and enums from model descriptor files.

Targets come from schemats.toml, or from --input flags for a one-off run.
Configured targets are generated concurrently; a failure in any target
leaves every output untouched.

Examples:
  schemats generate                                  # All targets in schemats.toml
  schemats generate -i models.json                   # One descriptor to stdout
  schemats generate -i a.json -i b.yaml -o types.ts  # Roots in order, to a file
  schemats generate -i models.json --rename pets.Cat=Kitty`,
	RunE: runGenerate,
}

func init() {
	addTargetFlags(GenerateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	targets, _, err := loadTargets()
	if err != nil {
		return err
	}
	if err := checkStdoutTargets(targets); err != nil {
		return err
	}

	results, err := BuildAll(cmd.Context(), targets)
	if err != nil {
		return err
	}
	return writeResults(cmd, targets, results)
}

// BuildAll renders targets concurrently. Results are index-aligned with
// targets; on error none are returned.
func BuildAll(ctx context.Context, targets []config.TargetConfig) ([]*typegen.Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]*typegen.Result, len(targets))

	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := BuildTarget(target)
			if err != nil {
				return errors.Wrapf(err, "target %s", targetName(target))
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func writeResults(cmd *cobra.Command, targets []config.TargetConfig, results []*typegen.Result) error {
	for i, target := range targets {
		result := results[i]
		if target.Output == "" {
			fmt.Fprint(cmd.OutOrStdout(), result.Text)
			continue
		}

		changed, err := WriteOutput(target.Output, result.Text)
		if err != nil {
			return err
		}
		logger.Infow("Wrote generated module",
			"target", targetName(target),
			"path", target.Output,
			"declarations", len(result.Declarations),
			"changed", changed)

		if changed {
			pterm.Success.Printf("%s: wrote %s declarations to %s\n",
				targetName(target), pterm.Green(len(result.Declarations)), target.Output)
		} else {
			pterm.Info.Printf("%s: %s is up to date\n", targetName(target), target.Output)
		}
	}
	return nil
}

// WriteOutput writes text to path, creating parent directories. Files whose
// content already matches are left alone so their mtime is preserved.
func WriteOutput(path, text string) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, []byte(text)) {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), config.DefaultDirPermissions); err != nil {
		return false, errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := os.WriteFile(path, []byte(text), config.DefaultFilePermissions); err != nil {
		return false, errors.Wrapf(err, "failed to write %s", path)
	}
	return true, nil
}

// checkStdoutTargets allows stdout output only for a single target
func checkStdoutTargets(targets []config.TargetConfig) error {
	if len(targets) < 2 {
		return nil
	}
	for _, t := range targets {
		if t.Output == "" {
			return errors.Newf("target %s has no output; only a single target may write to stdout", targetName(t))
		}
	}
	return nil
}
