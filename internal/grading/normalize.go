package grading

import "unicode"

// normalize casefolds and collapses whitespace so " Paris " and "paris"
// compare equal. Punctuation is kept: "3.5" and "35" are different
// answers.
func normalize(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range []rune(s) {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && len(out) > 0 {
			out = append(out, ' ')
		}
		space = false
		out = append(out, unicode.ToLower(r))
	}
	return string(out)
}
