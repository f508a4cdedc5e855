package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kindletools/kindle-fetch/internal/config"
	"github.com/kindletools/kindle-fetch/internal/platform"
)

// addHostFlags adds the flags that identify the host application, shared by
// every subcommand.
func addHostFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to a YAML config file overriding the defaults")
	cmd.Flags().String("exe", "", "Host process executable name (default from config)")
	cmd.Flags().String("window-title", "", "Expected main window title (default from config)")
}

// loadConfig builds the run configuration from defaults, an optional config
// file, and flag overrides, in that order.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if exe, _ := cmd.Flags().GetString("exe"); exe != "" {
		cfg.Executable = exe
	}
	if title, _ := cmd.Flags().GetString("window-title"); title != "" {
		cfg.WindowTitle = title
	}
	return cfg, nil
}

// attach connects to the running host application, translating the sentinel
// into an operator-readable fatal error.
func attach(provider *platform.Provider, cfg config.Config) (platform.Application, error) {
	app, err := provider.Desktop.Attach(platform.AttachOptions{Executable: cfg.Executable})
	if err != nil {
		if errors.Is(err, platform.ErrProcessNotFound) {
			return nil, fmt.Errorf("%s is not running or cannot be found", cfg.Executable)
		}
		return nil, err
	}
	return app, nil
}

// mainWindow resolves the host's primary window.
func mainWindow(app platform.Application, cfg config.Config) (platform.Element, error) {
	return app.MainWindow(platform.WindowOptions{
		Title:   cfg.WindowTitle,
		Timeout: cfg.WindowTimeout.Std(),
	})
}
