package config

import (
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test that defaults are set correctly
	if cfg.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", cfg.Version)
	}

	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("Expected base URL http://localhost:8000, got %s", cfg.API.BaseURL)
	}

	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("Expected API timeout 30s, got %v", cfg.API.Timeout)
	}

	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected output format text, got %s", cfg.Output.DefaultFormat)
	}

	if cfg.UI.InitialPanel != "analysis" {
		t.Errorf("Expected initial panel analysis, got %s", cfg.UI.InitialPanel)
	}

	if !cfg.UI.Emoji {
		t.Error("Expected emoji enabled by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing base URL",
			mutate:  func(c *Config) { c.API.BaseURL = "" },
			wantErr: true,
			errMsg:  "api.base_url is required",
		},
		{
			name:    "non-http base URL",
			mutate:  func(c *Config) { c.API.BaseURL = "ftp://example.com" },
			wantErr: true,
			errMsg:  "scheme must be http or https",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.API.Timeout = 0 },
			wantErr: true,
			errMsg:  "api.timeout must be greater than 0",
		},
		{
			name:    "invalid theme",
			mutate:  func(c *Config) { c.UI.Theme = "neon" },
			wantErr: true,
			errMsg:  "invalid theme: neon (must be one of: default, high-contrast, minimal)",
		},
		{
			name:    "invalid panel",
			mutate:  func(c *Config) { c.UI.InitialPanel = "debug" },
			wantErr: true,
			errMsg:  "invalid initial panel: debug (must be one of: analysis, visualization, error)",
		},
		{
			name:    "invalid output format",
			mutate:  func(c *Config) { c.Output.DefaultFormat = "csv" },
			wantErr: true,
			errMsg:  "invalid output format: csv (must be one of: json, text, markdown)",
		},
		{
			name:    "invalid color mode",
			mutate:  func(c *Config) { c.Output.ColorMode = "sometimes" },
			wantErr: true,
			errMsg:  "invalid color mode: sometimes (must be one of: auto, always, never)",
		},
		{
			name:    "negative debounce",
			mutate:  func(c *Config) { c.Watch.Debounce = -time.Second },
			wantErr: true,
			errMsg:  "watch.debounce must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error containing %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestSampleConfigsParse(t *testing.T) {
	for name, content := range map[string]string{"full": SampleConfig(), "minimal": MinimalSampleConfig()} {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
				t.Fatalf("Failed to parse sample config: %v", err)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Expected sample config to validate, got %v", err)
			}
		})
	}
}
