package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version string        `yaml:"version" json:"version"`
	API     APIConfig     `yaml:"api" json:"api"`
	UI      UIConfig      `yaml:"ui" json:"ui"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Watch   WatchConfig   `yaml:"watch" json:"watch"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// APIConfig configures the analysis backend client
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`     // backend root, e.g. http://localhost:8000
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`       // per-request timeout
	UserAgent string        `yaml:"user_agent" json:"user_agent"` // sent with every request
}

// UIConfig configures the terminal UI
type UIConfig struct {
	Theme         string        `yaml:"theme" json:"theme"`                   // default|high-contrast|minimal
	InitialPanel  string        `yaml:"initial_panel" json:"initial_panel"`   // analysis|visualization|error
	ToastDuration time.Duration `yaml:"toast_duration" json:"toast_duration"` // how long notices stay visible
	Emoji         bool          `yaml:"emoji" json:"emoji"`                   // use emoji in labels
	Placeholder   string        `yaml:"placeholder" json:"placeholder"`       // initial editor text
}

// OutputConfig configures CLI output formatting
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
}

// WatchConfig configures source file watching
type WatchConfig struct {
	Enabled     bool          `yaml:"enabled" json:"enabled"`
	AutoAnalyze bool          `yaml:"auto_analyze" json:"auto_analyze"`
	Debounce    time.Duration `yaml:"debounce" json:"debounce"`
}

// LoggingConfig configures diagnostic logging
type LoggingConfig struct {
	File    string `yaml:"file" json:"file"` // TUI log file; empty discards TUI logs
	Verbose bool   `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		API: APIConfig{
			BaseURL:   "http://localhost:8000",
			Timeout:   30 * time.Second,
			UserAgent: "pyscope",
		},
		UI: UIConfig{
			Theme:         "default",
			InitialPanel:  "analysis",
			ToastDuration: 4 * time.Second,
			Emoji:         true,
			Placeholder:   "",
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
		},
		Watch: WatchConfig{
			Enabled:     false,
			AutoAnalyze: false,
			Debounce:    200 * time.Millisecond,
		},
		Logging: LoggingConfig{
			File:    "",
			Verbose: false,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateAPIConfig(); err != nil {
		return err
	}
	if err := c.validateUIConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateWatchConfig(); err != nil {
		return err
	}
	return nil
}

// validateAPIConfig validates backend client configuration
func (c *Config) validateAPIConfig() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api.base_url: %s (scheme must be http or https)", c.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid api.base_url: %s (missing host)", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be greater than 0")
	}
	return nil
}

// validateUIConfig validates terminal UI configuration
func (c *Config) validateUIConfig() error {
	if c.UI.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.UI.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.UI.Theme)
		}
	}
	if c.UI.InitialPanel != "" {
		validPanels := map[string]bool{
			"analysis":      true,
			"visualization": true,
			"error":         true,
		}
		if !validPanels[c.UI.InitialPanel] {
			return fmt.Errorf("invalid initial panel: %s (must be one of: analysis, visualization, error)", c.UI.InitialPanel)
		}
	}
	if c.UI.ToastDuration <= 0 {
		return fmt.Errorf("ui.toast_duration must be greater than 0")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

// validateWatchConfig validates watcher configuration
func (c *Config) validateWatchConfig() error {
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must be non-negative")
	}
	return nil
}
