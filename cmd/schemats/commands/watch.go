package commands

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/schemats/config"
	"github.com/teranos/schemats/errors"
	"github.com/teranos/schemats/logger"
)

// WatchCmd regenerates targets whenever their descriptors change
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate declarations when descriptor files change",
	Long: `Generate every target once, then watch its descriptor files and
regenerate the affected targets after each burst of changes settles.
Editing schemats.toml reloads the target settings.

Examples:
  schemats watch
  schemats watch -i models.json -o web/src/types.ts`,
	RunE: runWatch,
}

func init() {
	addTargetFlags(WatchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	targets, cfg, err := loadTargets()
	if err != nil {
		return err
	}
	if err := checkStdoutTargets(targets); err != nil {
		return err
	}

	ctx := cmd.Context()
	log := logger.Named("watch")
	var mu sync.Mutex
	regenerate := func(ts []config.TargetConfig) {
		if len(ts) == 0 {
			return
		}
		results, err := BuildAll(ctx, ts)
		if err == nil {
			err = writeResults(cmd, ts, results)
		}
		if err != nil {
			pterm.Error.Println(err.Error())
			log.Errorw("Regeneration failed", "error", err)
		}
	}
	regenerate(targets)

	paths := WatchedPaths(targets)
	debounce := config.DefaultDebounceMS
	if cfg != nil {
		paths = append(paths, cfg.Path)
		debounce = cfg.Watch.DebounceMS
	}

	w, err := config.NewWatcher(paths, time.Duration(debounce)*time.Millisecond)
	if err != nil {
		return err
	}
	w.OnChange(func(changed []string) error {
		mu.Lock()
		defer mu.Unlock()

		if cfg != nil && contains(changed, cfg.Path) {
			reloaded, err := config.LoadFromFile(cfg.Path)
			if err != nil {
				return errors.Wrap(err, "config reload failed, keeping previous targets")
			}
			cfg, targets = reloaded, reloaded.Targets
			if err := w.Add(WatchedPaths(targets)...); err != nil {
				return errors.Wrap(err, "failed to watch new inputs")
			}
			pterm.Info.Printf("Reloaded %s\n", cfg.Path)
			regenerate(targets)
			return nil
		}

		affected := AffectedTargets(targets, changed)
		log.Debugw("Descriptors changed",
			"files", changed,
			"targets", len(affected))
		regenerate(affected)
		return nil
	})

	w.Start()
	defer w.Stop()

	pterm.Info.Printf("Watching %d files (press Ctrl+C to stop)\n", len(paths))
	<-ctx.Done()
	pterm.Info.Println("Stopped watching")
	return nil
}

// WatchedPaths lists the absolute descriptor paths of targets, deduplicated
func WatchedPaths(targets []config.TargetConfig) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range targets {
		for _, in := range t.Inputs {
			abs := absPath(in)
			if !seen[abs] {
				seen[abs] = true
				out = append(out, abs)
			}
		}
	}
	return out
}

// AffectedTargets returns the targets reading any of the changed files
func AffectedTargets(targets []config.TargetConfig, changed []string) []config.TargetConfig {
	var out []config.TargetConfig
	for _, t := range targets {
		for _, in := range t.Inputs {
			if contains(changed, absPath(in)) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
