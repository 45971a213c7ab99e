package emoji

// EmojiMap holds emoji and fallback mappings
var emojiMap = map[string][2]string{
	// [emoji, fallback]
	"error":      {"❌", "[ERR]"},
	"warning":    {"⚠️", "[!]"},
	"info":       {"ℹ️", "[i]"},
	"success":    {"✅", "[OK]"},
	"check":      {"✓", "+"},
	"insight":    {"💡", "[TIP]"},
	"star":       {"⭐", "*"},
	"statistics": {"📊", "[STATS]"},
	"growth":     {"🌱", "[IMP]"},
	"analyze":    {"🔍", "[A]"},
	"visualize":  {"🎨", "[V]"},
	"alert":      {"🚨", "[E]"},
	"flow":       {"🌐", "[FLOW]"},
	"steps":      {"👣", "[STEP]"},
	"detail":     {"📚", "[DOC]"},
	"guide":      {"📋", "[TODO]"},
	"fix":        {"🔧", "[FIX]"},
	"example":    {"📝", "[EX]"},
	"learn":      {"📖", "[LRN]"},
	"pin":        {"📌", "-"},
	"location":   {"📍", "[@]"},
	"inbox":      {"📨", "[MSG]"},
	"clipboard":  {"📋", "[CLIP]"},
	"watch":      {"👀", "[W]"},
	"rocket":     {"🚀", "[>]"},
	"door":       {"🚪", "[EXIT]"},
	"help":       {"❓", "[?]"},
}

var emojiDisabled bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled = disabled
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled
}

// GetEmoji returns emoji or fallback based on no-emoji setting
func GetEmoji(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if emojiDisabled {
			return mapping[1] // fallback
		}
		return mapping[0] // emoji
	}
	return "[?]" // unknown key
}

// Label prefixes text with the emoji for key
func Label(key, text string) string {
	return GetEmoji(key) + " " + text
}
