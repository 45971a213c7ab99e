package session

import "strings"

// Placeholder is the initial editor content
const Placeholder = "# Pythonコードをここに入力してください\n"

// IsBlank reports whether code is whitespace only or still the placeholder
func IsBlank(code string) bool {
	return isBlank(code, Placeholder)
}

// IsBlankWith is IsBlank that also treats a configured placeholder as blank.
// Only an exact match counts.
func IsBlankWith(code, placeholder string) bool {
	return isBlank(code, placeholder)
}

func isBlank(code, placeholder string) bool {
	if strings.TrimSpace(code) == "" {
		return true
	}
	if code == Placeholder {
		return true
	}
	return placeholder != "" && code == placeholder
}
