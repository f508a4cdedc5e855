package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kindletools/kindle-fetch/internal/engine"
	"github.com/kindletools/kindle-fetch/internal/locator"
	"github.com/kindletools/kindle-fetch/internal/observability"
	"github.com/kindletools/kindle-fetch/internal/output"
	"github.com/kindletools/kindle-fetch/internal/platform"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Download every book from the current position to the end of the library",
	Long: `Attach to the running Kindle for PC instance, locate the library list, and
walk it item by item, triggering the download command on each via its
context menu.

The traversal starts from --start-from when given, otherwise from the
currently focused library item, otherwise from the top. It stops at the end
of the list, when the virtualized list stops advancing, or at the iteration
cap. Per-item failures (menu did not appear, download option missing) are
reported and skipped; they never abort the run.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addHostFlags(runCmd)
	runCmd.Flags().Int("start-from", 0, "1-based index of the book to start from (defaults to currently focused item)")
	runCmd.Flags().Int("max-iterations", 0, "Maximum number of books to process in one run (default from config: 10000)")
	runCmd.Flags().Bool("pretty", false, "Pretty-print JSON output")
}

func runRun(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	startFrom, _ := cmd.Flags().GetInt("start-from")
	maxIterations, _ := cmd.Flags().GetInt("max-iterations")

	app, err := attach(provider, cfg)
	if err != nil {
		return err
	}
	window, err := mainWindow(app, cfg)
	if err != nil {
		return err
	}
	list, err := locator.FindLibraryList(window, cfg)
	if err != nil {
		return err
	}
	observability.L().Debug("library list located",
		zap.String("automation_id", list.AutomationID()))

	con := output.NewConsole(os.Stdout)
	eng := engine.New(cfg, provider, list, con)
	summary := eng.Run(engine.Options{
		StartFrom:     startFrom,
		MaxIterations: maxIterations,
	})

	return output.Print(summary)
}
