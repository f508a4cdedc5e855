package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kindletools/kindle-fetch/internal/locator"
	"github.com/kindletools/kindle-fetch/internal/model"
	"github.com/kindletools/kindle-fetch/internal/output"
	"github.com/kindletools/kindle-fetch/internal/platform"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the library list control and its visible items",
	Long: `Locate the library list the same way run does and dump what the
accessibility tree currently exposes: the list's automation id, its reported
total (if any), and the title, automation id, and identity of each visible
item. Useful when a host update changes control identifiers.`,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	addHostFlags(inspectCmd)
	inspectCmd.Flags().Bool("pretty", false, "Pretty-print JSON output")
}

// inspectItem describes one visible list item.
type inspectItem struct {
	Position     int    `yaml:"position"                json:"position"`
	Title        string `yaml:"title"                   json:"title"`
	AutomationID string `yaml:"automation_id,omitempty" json:"automation_id,omitempty"`
	Identity     string `yaml:"identity"                json:"identity"`
}

// inspectResult is the top-level output of the inspect command.
type inspectResult struct {
	OK           bool          `yaml:"ok"                      json:"ok"`
	Action       string        `yaml:"action"                  json:"action"`
	Window       string        `yaml:"window"                  json:"window"`
	ListID       string        `yaml:"list_id,omitempty"       json:"list_id,omitempty"`
	Total        int           `yaml:"total,omitempty"         json:"total,omitempty"`
	TotalUnknown bool          `yaml:"total_unknown,omitempty" json:"total_unknown,omitempty"`
	Items        []inspectItem `yaml:"items"                   json:"items"`
}

func runInspect(cmd *cobra.Command, args []string) error {
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
	window, err := mainWindow(app, cfg)
	if err != nil {
		return err
	}
	list, err := locator.FindLibraryList(window, cfg)
	if err != nil {
		return err
	}

	result := inspectResult{
		OK:     true,
		Action: "inspect",
		Window: window.Name(),
		ListID: list.AutomationID(),
	}
	if total, ok := list.ItemCount(); ok {
		result.Total = total
	} else {
		result.TotalUnknown = true
	}

	items := locator.VisibleItems(list)
	result.Items = make([]inspectItem, 0, len(items))
	for i, item := range items {
		result.Items = append(result.Items, inspectItem{
			Position:     i + 1,
			Title:        item.Name(),
			AutomationID: item.AutomationID(),
			Identity:     model.IdentityOf(item).String(),
		})
	}
	return output.Print(result)
}
