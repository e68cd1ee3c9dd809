package chunker

import (
	"strings"
	"unicode"
)

// Segments scans text into sentence-like segments. A segment ends
// after '.', '!' or '?' when the following whitespace run leads into an
// uppercase letter, or after any newline. Decimal dosages ("5.5 ml")
// and lowercase continuations never split. The scanner walks the input
// once; surrounding whitespace is trimmed from each segment and empty
// segments are discarded.
func Segments(text string) []string {
	runes := []rune(text)
	n := len(runes)

	var segments []string
	appendSegment := func(start, end int) {
		seg := strings.TrimSpace(string(runes[start:end]))
		if seg != "" {
			segments = append(segments, seg)
		}
	}

	start := 0
	i := 0
	for i < n {
		r := runes[i]

		if r == '\n' {
			appendSegment(start, i)
			i++
			start = i
			continue
		}

		if r == '.' || r == '!' || r == '?' {
			j := i + 1
			for j < n && unicode.IsSpace(runes[j]) {
				j++
			}
			// Boundary only when at least one whitespace rune separates
			// the terminator from an uppercase letter.
			if j > i+1 && j < n && unicode.IsUpper(runes[j]) {
				appendSegment(start, i+1)
				i = j
				start = j
				continue
			}
		}

		i++
	}

	appendSegment(start, n)
	return segments
}
