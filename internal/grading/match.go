// Package grading scores individual question responses. It is independent
// of storage and transport; the pipeline hands it a minimal question view
// and a raw answer string.
package grading

import "regexp"

// Q is a minimal view of a question needed for matching. Keep this in sync
// with whatever fields your store uses.
type Q struct {
	AnswerKey   string
	Options     []string // empty for free-response items
	Explanation string
}

// Matcher checks submitted answers against answer keys.
type Matcher struct {
	resolveLetterKeys bool
}

type Option func(*Matcher)

// WithLetterKeyFallback toggles display-answer resolution for
// free-response items whose key is a bare choice letter (an import
// artifact). On by default.
func WithLetterKeyFallback(b bool) Option {
	return func(m *Matcher) { m.resolveLetterKeys = b }
}

func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{resolveLetterKeys: true}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Correct reports whether the submitted answer matches the question's key.
// Comparison is case-insensitive and whitespace/punctuation-insensitive.
// An empty answer means unanswered and is always incorrect. When the key
// is a letter code on a free-response item, the answer is also accepted
// against the display answer scraped from the explanation; if none can be
// resolved, exact match against the key is all that remains.
func (m *Matcher) Correct(q Q, answer string) bool {
	na := normalize(answer)
	if na == "" {
		return false
	}
	if na == normalize(q.AnswerKey) {
		return true
	}
	if m.resolveLetterKeys {
		if d := DisplayAnswer(q); d != "" && na == normalize(d) {
			return true
		}
	}
	return false
}

var (
	letterKeyRe = regexp.MustCompile(`^[A-Da-d]$`)
	// "the answer is 42", "answer: 3.5", "answer = -7/2"
	explAnswerRe = regexp.MustCompile(`(?i)answer\s*(?:is|:|=)\s*(-?[0-9][0-9.,/]*)`)
	// last resort: any "= <number>" in the worked solution
	explEqRe = regexp.MustCompile(`=\s*(-?[0-9][0-9.,/]*)`)
)

// DisplayAnswer resolves the answer a free-response question actually
// expects when its stored key is a bare choice letter. Some imported
// question banks carry the letter of a long-gone option list in the key
// and bury the real value in the explanation; scrape a numeric value out
// of it. Returns "" when the key is not letter-coded or nothing can be
// extracted.
func DisplayAnswer(q Q) string {
	if len(q.Options) > 0 || !letterKeyRe.MatchString(q.AnswerKey) {
		return ""
	}
	if m := explAnswerRe.FindStringSubmatch(q.Explanation); m != nil {
		return trimNumber(m[1])
	}
	if ms := explEqRe.FindAllStringSubmatch(q.Explanation, -1); len(ms) > 0 {
		return trimNumber(ms[len(ms)-1][1])
	}
	return ""
}

// trimNumber drops a trailing punctuation rune left by greedy matching
// ("42." at sentence end).
func trimNumber(s string) string {
	for len(s) > 0 {
		last := s[len(s)-1]
		if last == '.' || last == ',' || last == '/' {
			s = s[:len(s)-1]
			continue
		}
		break
	}
	return s
}
