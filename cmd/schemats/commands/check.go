package commands

import (
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/schemats/config"
	"github.com/teranos/schemats/errors"
)

// CheckCmd checks if generated files are up to date
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check if generated declarations are up to date",
	Long: `Regenerate every target in memory and compare with the files on disk.

Exit codes:
  0 - Declarations are up to date
  1 - Declarations are out of date (first difference shown)
  2 - Error during check

Examples:
  schemats check                       # Check all targets in schemats.toml
  schemats check -i models.json -o web/src/types.ts`,
	RunE: runCheck,
}

func init() {
	addTargetFlags(CheckCmd)
}

// Difference describes how a file on disk departs from freshly generated text
type Difference struct {
	Path    string
	Missing bool
	Line    int // 1-based, first differing line
	Want    string
	Got     string
}

func runCheck(cmd *cobra.Command, args []string) error {
	targets, _, err := loadTargets()
	if err != nil {
		return err
	}
	for _, t := range targets {
		if t.Output == "" {
			return errors.WithHint(
				errors.Newf("target %s has no output file to check", targetName(t)),
				"pass --output with the generated file")
		}
	}

	pterm.Info.Println("Checking generated declarations...")
	results, err := BuildAll(cmd.Context(), targets)
	if err != nil {
		return err
	}

	var stale []config.TargetConfig
	for i, target := range targets {
		diff, err := CompareOutput(target.Output, results[i].Text)
		if err != nil {
			return err
		}
		if diff == nil {
			continue
		}

		stale = append(stale, target)
		if diff.Missing {
			pterm.Warning.Printf("%s: %s does not exist\n", targetName(target), diff.Path)
			continue
		}
		pterm.Warning.Printf("%s: %s differs at line %d\n", targetName(target), diff.Path, diff.Line)
		pterm.Printf("  want: %s\n", pterm.Green(diff.Want))
		pterm.Printf("  got:  %s\n", pterm.Red(diff.Got))
	}

	if len(stale) == 0 {
		pterm.Success.Printf("%d generated files are up to date\n", len(targets))
		return nil
	}

	return errors.WithHint(
		errors.Mark(errors.Newf("%d of %d generated files are out of date", len(stale), len(targets)), errors.ErrOutOfDate),
		"run 'schemats generate' to update them")
}

// CompareOutput compares path with want. A nil Difference means equal.
func CompareOutput(path, want string) (*Difference, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Difference{Path: path, Missing: true}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	got := string(data)
	if got == want {
		return nil, nil
	}

	wantLines := strings.Split(want, "\n")
	gotLines := strings.Split(got, "\n")
	for i := 0; ; i++ {
		w, g := lineAt(wantLines, i), lineAt(gotLines, i)
		if w != g || i >= len(wantLines) || i >= len(gotLines) {
			return &Difference{Path: path, Line: i + 1, Want: w, Got: g}, nil
		}
	}
}

func lineAt(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return "<end of file>"
}
