package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.pyscope.yaml",               // Project-specific config (highest priority)
	"~/.config/pyscope/config.yaml", // User config
	"/etc/pyscope/config.yaml",      // System config (lowest priority)
}

// EnvFiles are dotenv files read before environment overrides are applied.
// Variables already present in the environment are never replaced.
var EnvFiles = []string{".env"}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	envFiles    []string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		envFiles:    EnvFiles,
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables (including .env)
// 3. ./.pyscope.yaml
// 4. ~/.config/pyscope/config.yaml
// 5. /etc/pyscope/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	// If custom path is provided, use only that path
	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Load from standard paths in reverse priority order (lowest to highest)
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if fileExists(expandedPath) {
				if err := l.loadFromFile(config, expandedPath); err != nil {
					// Log warning but continue with other config files
					fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", expandedPath, err)
				}
			}
		}
	}

	l.loadEnvFiles()

	// Apply environment variable overrides
	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	// Validate the final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile overlays a YAML file on the existing config. Keys absent
// from the file keep their current values, including booleans.
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	fileConfig := *config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	*config = fileConfig
	return nil
}

// loadEnvFiles reads dotenv files that exist; missing files are ignored
func (l *Loader) loadEnvFiles() {
	var existing []string
	for _, f := range l.envFiles {
		if fileExists(f) {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return
	}
	if err := godotenv.Load(existing...); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", strings.Join(existing, ", "), err)
	}
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// API Config
		"PYSCOPE_API_URL":        func(v string) error { config.API.BaseURL = v; return nil },
		"PYSCOPE_API_TIMEOUT":    func(v string) error { return parseDuration(v, &config.API.Timeout) },
		"PYSCOPE_API_USER_AGENT": func(v string) error { config.API.UserAgent = v; return nil },

		// UI Config
		"PYSCOPE_UI_THEME":          func(v string) error { config.UI.Theme = v; return nil },
		"PYSCOPE_UI_INITIAL_PANEL":  func(v string) error { config.UI.InitialPanel = v; return nil },
		"PYSCOPE_UI_TOAST_DURATION": func(v string) error { return parseDuration(v, &config.UI.ToastDuration) },
		"PYSCOPE_UI_EMOJI":          func(v string) error { return parseBool(v, &config.UI.Emoji) },
		"PYSCOPE_UI_PLACEHOLDER":    func(v string) error { config.UI.Placeholder = v; return nil },

		// Output Config
		"PYSCOPE_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"PYSCOPE_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },

		// Watch Config
		"PYSCOPE_WATCH_ENABLED":      func(v string) error { return parseBool(v, &config.Watch.Enabled) },
		"PYSCOPE_WATCH_AUTO_ANALYZE": func(v string) error { return parseBool(v, &config.Watch.AutoAnalyze) },
		"PYSCOPE_WATCH_DEBOUNCE":     func(v string) error { return parseDuration(v, &config.Watch.Debounce) },

		// Logging Config
		"PYSCOPE_LOG_FILE": func(v string) error { config.Logging.File = v; return nil },
		"PYSCOPE_VERBOSE":  func(v string) error { return parseBool(v, &config.Logging.Verbose) },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	// Check for path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	// Ensure it's a YAML file
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Type conversion helpers

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
