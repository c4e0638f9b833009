package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxCorruptionRatio is the share of control/replacement runes above which an
// extraction result is considered unsalvageable and discarded outright.
const maxCorruptionRatio = 0.15

// CleanExtractedText scrubs control characters out of analyzer output.
// Returns the cleaned text and true, or "" and false when the input is too
// corrupted to keep. Corrupted text is never stored.
func CleanExtractedText(text string) (string, bool) {
	if text == "" {
		return "", true
	}
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}

	total := 0
	bad := 0
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		total++
		switch {
		case r == '\n' || r == '\t' || r == ' ':
			b.WriteRune(r)
		case r == '\r':
			// normalized away, not counted as corruption
		case r == utf8.RuneError || unicode.IsControl(r):
			bad++
		case unicode.IsPrint(r):
			b.WriteRune(r)
		default:
			bad++
		}
	}

	if total > 0 && float64(bad)/float64(total) > maxCorruptionRatio {
		return "", false
	}

	return collapseWhitespace(b.String()), true
}

func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	spaces := 0
	newlines := 0
	for _, r := range s {
		switch r {
		case ' ', '\t':
			spaces++
		case '\n':
			newlines++
			spaces = 0
		default:
			if newlines > 0 {
				if newlines > 2 {
					newlines = 2
				}
				for i := 0; i < newlines; i++ {
					b.WriteByte('\n')
				}
				newlines = 0
			} else if spaces > 0 {
				b.WriteByte(' ')
			}
			spaces = 0
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// WordCount counts whitespace-separated tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Truncate cuts text to at most max bytes on a rune boundary, appending an
// ellipsis when anything was removed.
func Truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
