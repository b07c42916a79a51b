package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/schemats/cmd/schemats/commands"
	"github.com/teranos/schemats/errors"
	"github.com/teranos/schemats/logger"
)

var rootCmd = &cobra.Command{
	Use:   "schemats",
	Short: "schemats - TypeScript declarations from model descriptors",
	Long: `schemats - Generate TypeScript declarations from model descriptors.

Descriptors (JSON, YAML or TOML) describe the records and enums of one or
more source modules. schemats merges them into a single schema graph, gives
every type a unique name and writes one TypeScript module.

Available commands:
  generate - Write declarations for every target
  check    - Fail if generated files are out of date
  watch    - Regenerate when descriptors change
  version  - Show build information

Examples:
  schemats generate -i models.json -o web/src/types.ts
  schemats check`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		logger.Debugw("Logger initialized",
			"command", cmd.Name(),
			"level", logger.LevelName(verbosity))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (-v, -vv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs to stderr as JSON")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Cleanup()

	if err == nil {
		return
	}

	pterm.Error.Println(err.Error())
	for _, hint := range errors.GetAllHints(err) {
		pterm.Info.Println(hint)
	}
	if errors.Is(err, errors.ErrOutOfDate) {
		os.Exit(1)
	}
	os.Exit(2)
}
