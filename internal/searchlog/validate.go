package searchlog

import "unicode"

// Valid reports whether a query is worth queueing: at least two runes,
// contains a letter or digit, and is not one character repeated.
func Valid(query string) bool {
	runes := []rune(query)
	if len(runes) < 2 {
		return false
	}

	hasContent := false
	allSame := true
	for i, r := range runes {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			hasContent = true
		}
		if i > 0 && r != runes[0] {
			allSame = false
		}
	}
	return hasContent && !allSame
}
