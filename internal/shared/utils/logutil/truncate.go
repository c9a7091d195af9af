package logutil

// TruncateForLog shortens s to at most maxLen runes and marks the cut with
// "...". Used for provider response bodies, which can be large and are only
// logged on failure.
func TruncateForLog(s string, maxLen int) string {
	if maxLen <= 0 {
		return "..."
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
