package emoji

import "testing"

func TestGetEmoji(t *testing.T) {
	defer SetEmojiDisabled(false)

	SetEmojiDisabled(false)
	if got := GetEmoji("analyze"); got != "🔍" {
		t.Errorf("Expected emoji, got %q", got)
	}

	SetEmojiDisabled(true)
	if got := GetEmoji("analyze"); got != "[A]" {
		t.Errorf("Expected fallback, got %q", got)
	}
	if got := Label("alert", "エラーを解析する"); got != "[E] エラーを解析する" {
		t.Errorf("Unexpected label %q", got)
	}

	if got := GetEmoji("missing"); got != "[?]" {
		t.Errorf("Expected unknown marker, got %q", got)
	}
}
