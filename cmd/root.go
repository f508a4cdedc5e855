package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kindletools/kindle-fetch/internal/observability"
	"github.com/kindletools/kindle-fetch/internal/output"
	"github.com/kindletools/kindle-fetch/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "kindle-fetch",
	Short: "Trigger downloads for every book in the Kindle for PC library",
	Long:  "A CLI tool that drives Kindle for PC through the Windows accessibility tree, opening each library item's context menu and invoking its download command.",
}

func Execute() {
	defer observability.Sync()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format for result summaries: yaml, json")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging of locator attempts and fallbacks")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		observability.Initialize(verbose)

		format, _ := rootCmd.PersistentFlags().GetString("format")
		switch format {
		case "yaml":
			output.OutputFormat = output.FormatYAML
		case "json":
			output.OutputFormat = output.FormatJSON
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
		if prettyFlag := cmd.Flags().Lookup("pretty"); prettyFlag != nil {
			if pretty, err := cmd.Flags().GetBool("pretty"); err == nil && pretty {
				output.PrettyOutput = true
			}
		}
		return nil
	}
}
