package search

import "strings"

var apostrophes = strings.NewReplacer("\u2019", "'")

// Normalize folds the typographic apostrophe into U+0027 and lowercases s.
// whisper-cli emits U+2019 while people type U+0027.
func Normalize(s string) string {
	return strings.ToLower(apostrophes.Replace(s))
}

// matchesFilter reports whether path contains any of the lowered terms.
func matchesFilter(path string, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	lower := strings.ToLower(path)
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func isTimestampLine(s string) bool {
	return strings.ContainsAny(s, "0123456789") && strings.Contains(s, ":")
}
