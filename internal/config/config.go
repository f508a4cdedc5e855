// Package config holds the immutable run configuration: timeouts, delays,
// and the identifiers used to recognize the host application's controls.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML config files can use values like
// "300ms" or "2s".
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	td, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(td)
	return nil
}

// MarshalYAML renders the duration back as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full set of recognized options. It is built once at startup
// and passed by value; nothing mutates it afterwards.
type Config struct {
	// Host application.
	Executable  string `yaml:"executable"`
	WindowTitle string `yaml:"window_title"`

	// Control identifiers. PreferredListIDs are tried in order before
	// falling back to a scan; CommandKeywords cover the host UI's locales.
	PreferredListIDs    []string `yaml:"preferred_list_ids"`
	CommandAutomationID string   `yaml:"command_automation_id"`
	CommandKeywords     []string `yaml:"command_keywords"`

	// Timing. Menu materialization is asynchronous relative to the input
	// that requests it, so the appear timeout bounds a poll loop.
	WindowTimeout      Duration `yaml:"window_timeout"`
	SettleDelay        Duration `yaml:"settle_delay"`
	ContextMenuDelay   Duration `yaml:"context_menu_delay"`
	InterActionDelay   Duration `yaml:"inter_action_delay"`
	MenuAppearTimeout  Duration `yaml:"menu_appear_timeout"`
	MenuResolveTimeout Duration `yaml:"menu_resolve_timeout"`
	MenuPollInterval   Duration `yaml:"menu_poll_interval"`
	ArrowMoveDelay     Duration `yaml:"arrow_move_delay"`

	// Safety cap on items processed in one run.
	MaxIterations int `yaml:"max_iterations"`
}

// Default returns the configuration for Kindle for PC.
func Default() Config {
	return Config{
		Executable:          "Kindle.exe",
		WindowTitle:         "Kindle",
		PreferredListIDs:    []string{"compact", "row"},
		CommandAutomationID: "context-menu-option-download-book",
		CommandKeywords:     []string{"下载", "Download"},
		WindowTimeout:       Duration(5 * time.Second),
		SettleDelay:         Duration(300 * time.Millisecond),
		ContextMenuDelay:    Duration(300 * time.Millisecond),
		InterActionDelay:    Duration(500 * time.Millisecond),
		MenuAppearTimeout:   Duration(2 * time.Second),
		MenuResolveTimeout:  Duration(500 * time.Millisecond),
		MenuPollInterval:    Duration(50 * time.Millisecond),
		ArrowMoveDelay:      Duration(200 * time.Millisecond),
		MaxIterations:       10000,
	}
}

// Load reads a YAML file over the defaults. Fields absent from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Executable == "" {
		return fmt.Errorf("executable must not be empty")
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.MenuPollInterval.Std() <= 0 {
		return fmt.Errorf("menu_poll_interval must be positive")
	}
	return nil
}
