package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kindletools/kindle-fetch/internal/model"
	"github.com/kindletools/kindle-fetch/internal/output"
	"github.com/kindletools/kindle-fetch/internal/platform"
)

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List the host application's top-level windows",
	RunE:  runWindows,
}

func init() {
	rootCmd.AddCommand(windowsCmd)
	addHostFlags(windowsCmd)
	windowsCmd.Flags().Bool("pretty", false, "Pretty-print JSON output")
}

type windowsResult struct {
	OK      bool           `yaml:"ok"      json:"ok"`
	Action  string         `yaml:"action"  json:"action"`
	Windows []model.Window `yaml:"windows" json:"windows"`
}

func runWindows(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	app, err := attach(provider, cfg)
	if err != nil {
		return err
	}
	windows, err := app.Windows()
	if err != nil {
		return err
	}
	return output.Print(windowsResult{
		OK:      true,
		Action:  "windows",
		Windows: windows,
	})
}
