package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrectExactMatch(t *testing.T) {
	m := NewMatcher()

	tests := []struct {
		name   string
		key    string
		answer string
		want   bool
	}{
		{"exact", "42", "42", true},
		{"case folded", "Paris", "paris", true},
		{"surrounding whitespace", "x+2", "  x+2 ", true},
		{"inner whitespace collapsed", "quadratic formula", "quadratic  formula", true},
		{"wrong answer", "42", "41", false},
		{"unanswered", "42", "", false},
		{"whitespace only is unanswered", "42", "   ", false},
		{"punctuation matters", "3.5", "35", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Correct(Q{AnswerKey: tt.key}, tt.answer))
		})
	}
}

func TestCorrectLetterCodedKey(t *testing.T) {
	m := NewMatcher()

	q := Q{
		AnswerKey:   "C",
		Explanation: "Expanding the product and collecting terms, the answer is 18.",
	}
	assert.True(t, m.Correct(q, "18"), "resolved display answer")
	assert.True(t, m.Correct(q, "c"), "the letter itself still matches")
	assert.False(t, m.Correct(q, "17"))

	// with options present the key is a real choice id, no fallback
	mc := Q{AnswerKey: "C", Options: []string{"A", "B", "C", "D"}, Explanation: "the answer is 18"}
	assert.False(t, m.Correct(mc, "18"))
	assert.True(t, m.Correct(mc, "C"))
}

func TestCorrectLetterKeyFallbackDisabled(t *testing.T) {
	m := NewMatcher(WithLetterKeyFallback(false))
	q := Q{AnswerKey: "C", Explanation: "the answer is 18"}

	assert.False(t, m.Correct(q, "18"))
	assert.True(t, m.Correct(q, "C"))
}

func TestDisplayAnswer(t *testing.T) {
	tests := []struct {
		name string
		q    Q
		want string
	}{
		{
			"answer is phrasing",
			Q{AnswerKey: "A", Explanation: "Therefore the answer is 42."},
			"42",
		},
		{
			"answer colon phrasing",
			Q{AnswerKey: "b", Explanation: "Answer: 3.5"},
			"3.5",
		},
		{
			"falls back to last equation",
			Q{AnswerKey: "D", Explanation: "2x = 14 so x = 7"},
			"7",
		},
		{
			"negative value",
			Q{AnswerKey: "A", Explanation: "the answer is -12"},
			"-12",
		},
		{
			"no numeric value resolvable",
			Q{AnswerKey: "A", Explanation: "See the reading passage."},
			"",
		},
		{
			"non-letter key has no fallback",
			Q{AnswerKey: "42", Explanation: "the answer is 42"},
			"",
		},
		{
			"letter key with options is a choice id",
			Q{AnswerKey: "A", Options: []string{"A", "B"}, Explanation: "the answer is 42"},
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayAnswer(tt.q))
		})
	}
}
