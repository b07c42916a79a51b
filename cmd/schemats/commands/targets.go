package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/teranos/schemats/config"
	"github.com/teranos/schemats/errors"
	"github.com/teranos/schemats/logger"
	"github.com/teranos/schemats/schema"
	"github.com/teranos/schemats/typegen"
	"github.com/teranos/schemats/typegen/typescript"
)

// Flags shared by generate, check and watch. Passing --input bypasses the
// config file and describes a single target on the command line.
var (
	configPath  string
	inputs      []string
	output      string
	excludes    []string
	renames     []string
	constEnums  bool
	sourceLabel string
)

func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to schemats.toml (default: search upward from the working directory)")
	cmd.Flags().StringArrayVarP(&inputs, "input", "i", nil, "Descriptor file (.json, .yaml, .toml); repeat in root order")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output .ts file (default: stdout)")
	cmd.Flags().StringArrayVarP(&excludes, "exclude", "e", nil, "Model not walked as a root (Name or module.Name)")
	cmd.Flags().StringArrayVar(&renames, "rename", nil, "Explicit emitted name, module.Name=Emitted")
	cmd.Flags().BoolVar(&constEnums, "const-enums", false, "Emit `export const enum`")
	cmd.Flags().StringVar(&sourceLabel, "source-label", "", "Label for the generated header (default: input list)")
}

// loadTargets returns the ad-hoc target from flags, or the configured targets.
// The returned config is nil for ad-hoc targets.
func loadTargets() ([]config.TargetConfig, *config.Config, error) {
	if len(inputs) > 0 {
		target := config.TargetConfig{
			Name:        "cli",
			Inputs:      inputs,
			Output:      output,
			Exclude:     excludes,
			Renames:     renames,
			ConstEnums:  constEnums,
			SourceLabel: sourceLabel,
		}
		if _, err := target.RenameMap(); err != nil {
			return nil, nil, err
		}
		return []config.TargetConfig{target}, nil, nil
	}

	path := configPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to get working directory")
		}
		path = config.FindProjectConfig(wd)
	}
	if path == "" {
		return nil, nil, errors.WithHint(
			errors.New("no inputs given and no schemats.toml found"),
			"pass --input models.json or create schemats.toml with a [[targets]] table")
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, nil, errors.WithHint(
			errors.Newf("%s declares no targets", path),
			"add a [[targets]] table with inputs and output")
	}
	logger.Debugw("Loaded config",
		"path", cfg.Path,
		"targets", len(cfg.Targets))
	return cfg.Targets, cfg, nil
}

// BuildTarget decodes a target's descriptors and renders its module.
func BuildTarget(target config.TargetConfig) (*typegen.Result, error) {
	var roots []schema.Root
	for _, in := range target.Inputs {
		decoded, err := schema.DecodeFile(in)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read descriptor %s", in)
		}
		roots = append(roots, decoded...)
	}

	renameMap, err := target.RenameMap()
	if err != nil {
		return nil, err
	}

	gen := typescript.NewGenerator(typescript.WithConstEnums(target.ConstEnums))
	result, err := typegen.Run(roots, gen,
		typegen.WithExclude(target.Exclude...),
		typegen.WithRenames(renameMap),
		typegen.WithSource(target.Label()),
	)
	if err != nil {
		return nil, withGenerationHint(err)
	}
	return result, nil
}

func withGenerationHint(err error) error {
	switch {
	case errors.Is(err, errors.ErrUnresolvedReference):
		return errors.WithHint(err, "add the descriptor declaring the missing type to inputs, or exclude the referencing model")
	case errors.Is(err, errors.ErrNameCollision):
		return errors.WithHint(err, "check renames: each emitted name must be unique and a valid identifier")
	case errors.Is(err, errors.ErrUnsupportedType):
		return errors.WithHint(err, "exclude the model or change the field type in the source models")
	}
	return err
}

// targetName labels a target in terminal output
func targetName(t config.TargetConfig) string {
	if t.Name != "" {
		return t.Name
	}
	if t.Output != "" {
		return filepath.Base(t.Output)
	}
	return "stdout"
}
