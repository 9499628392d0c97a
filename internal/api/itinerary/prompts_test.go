package itinerary

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncatePrompt(t *testing.T) {
	short := "Интересы: история"
	assert.Equal(t, short, truncatePrompt(short))

	// A leading ASCII byte shifts every two-byte Cyrillic rune to an odd
	// offset, so the raw cut position lands mid-rune.
	long := "a" + strings.Repeat("я", maxPromptChars)
	got := truncatePrompt(long)

	assert.LessOrEqual(t, len(got), maxPromptChars)
	assert.True(t, utf8.ValidString(got), "truncation must not split a rune")
	assert.True(t, strings.HasPrefix(long, got))
}
