package config

// SampleConfig returns a fully commented configuration file
func SampleConfig() string {
	return `# pyscope configuration
version: "1.0"

# Analysis backend
api:
  # Root URL of the backend (PYSCOPE_API_URL overrides, also read from .env)
  base_url: "http://localhost:8000"
  # Per-request timeout
  timeout: 30s
  user_agent: "pyscope"

# Terminal UI
ui:
  # default | high-contrast | minimal
  theme: "default"
  # analysis | visualization | error
  initial_panel: "analysis"
  # How long status-line notices stay visible
  toast_duration: 4s
  emoji: true
  # Initial editor text; treated as empty source. Leave empty for the built-in prompt.
  placeholder: ""

# CLI output
output:
  # text | json | markdown
  default_format: "text"
  # auto | always | never
  color_mode: "auto"

# Reload the source file when it changes on disk (pyscope tui FILE)
watch:
  enabled: false
  # Run the active panel's analysis after each reload
  auto_analyze: false
  debounce: 200ms

logging:
  # The TUI writes its log here; empty disables TUI logging
  file: ""
  verbose: false
`
}

// MinimalSampleConfig returns a configuration file with only essential settings
func MinimalSampleConfig() string {
	return `version: "1.0"
api:
  base_url: "http://localhost:8000"
  timeout: 30s
output:
  default_format: "text"
`
}
