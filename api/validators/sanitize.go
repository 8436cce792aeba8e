package validators

import "strings"

// SanitizeString trims surrounding whitespace and caps free-text input
// at maxLen runes.
func SanitizeString(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if maxLen > 0 {
		runes := []rune(s)
		if len(runes) > maxLen {
			s = string(runes[:maxLen])
		}
	}
	return s
}
