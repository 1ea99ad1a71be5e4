// Package textprep normalizes message text before it is stored and compared.
package textprep

import (
	"strings"
	"unicode"
)

// Emoji and emoji-adjacent rune ranges stripped during normalization.
// Covers the common pictographic blocks plus joiners and variation selectors.
var emojiRanges = []*unicode.RangeTable{
	{
		R32: []unicode.Range32{
			{Lo: 0x1F000, Hi: 0x1FAFF, Stride: 1}, // mahjong .. symbols and pictographs extended
		},
	},
	{
		R16: []unicode.Range16{
			{Lo: 0x200D, Hi: 0x200D, Stride: 1}, // zero-width joiner
			{Lo: 0x2600, Hi: 0x27BF, Stride: 1}, // misc symbols, dingbats
			{Lo: 0x2B00, Hi: 0x2BFF, Stride: 1}, // misc symbols and arrows
			{Lo: 0xFE00, Hi: 0xFE0F, Stride: 1}, // variation selectors
		},
	},
}

// Normalize strips emoji from text and collapses the whitespace runs the
// stripping leaves behind.
func Normalize(text string) string {
	var sb strings.Builder

	sb.Grow(len(text))

	for _, r := range text {
		if unicode.IsOneOf(emojiRanges, r) {
			continue
		}

		sb.WriteRune(r)
	}

	return strings.Join(strings.Fields(sb.String()), " ")
}

// WordCount returns the number of whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
