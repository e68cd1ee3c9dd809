// Package chunker splits normalised document text into ordered,
// token-bounded chunks with configurable overlap. Text is segmented at
// sentence-like boundaries, segments are accumulated up to a token
// budget, and a suffix of each emitted chunk's segments is carried into
// the next chunk to preserve local context across boundaries.
package chunker

import (
	"strings"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
)

// Piece is a single chunk of text produced by a Splitter. Index is the
// zero-based position in emission order, which equals reading order.
type Piece struct {
	Index      int
	Content    string
	TokenCount int
}

// Splitter divides text into token-bounded pieces. It holds no mutable
// state and is safe for concurrent use.
type Splitter struct {
	counter driven.TokenCounter
	opts    domain.ChunkOptions
}

// New creates a Splitter using the given token counter. Options are
// validated up front; invalid combinations return an error wrapping
// domain.ErrInvalidInput.
func New(counter driven.TokenCounter, opts domain.ChunkOptions) (*Splitter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Splitter{counter: counter, opts: opts}, nil
}

// Options returns the chunking parameters the Splitter was built with.
func (s *Splitter) Options() domain.ChunkOptions {
	return s.opts
}

// Split divides text into pieces. Segments are accumulated until the
// next one would push the running token count strictly above MaxTokens,
// at which point the buffer is emitted if it reaches MinTokens and a
// segment suffix within OverlapTokens seeds the next buffer. A single
// segment larger than MaxTokens is split again at word granularity.
// Buffers below MinTokens are dropped, never padded. Empty input
// produces no pieces and Split never fails.
func (s *Splitter) Split(text string) []Piece {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	segments := Segments(text)
	if len(segments) == 0 {
		return nil
	}

	var pieces []Piece
	emit := func(content string) {
		pieces = append(pieces, Piece{
			Index:      len(pieces),
			Content:    content,
			TokenCount: s.counter.CountTokens(content),
		})
	}

	var buf []string
	var counts []int
	bufTokens := 0

	flush := func() bool {
		if len(buf) == 0 || bufTokens < s.opts.MinTokens {
			return false
		}
		emit(strings.Join(buf, " "))
		return true
	}

	for _, seg := range segments {
		segTokens := s.counter.CountTokens(seg)

		if segTokens > s.opts.MaxTokens {
			// One sentence alone blows the budget. Emit what we have,
			// then split the segment at word granularity.
			flush()
			buf, counts, bufTokens = nil, nil, 0
			s.splitOversized(seg, emit)
			continue
		}

		if len(buf) > 0 && bufTokens+segTokens > s.opts.MaxTokens {
			if flush() {
				buf, counts, bufTokens = overlapSuffix(buf, counts, s.opts.OverlapTokens)
				// The carried suffix plus the incoming segment must
				// still fit; trim overlap from the front until it does.
				for len(buf) > 0 && bufTokens+segTokens > s.opts.MaxTokens {
					bufTokens -= counts[0]
					buf = buf[1:]
					counts = counts[1:]
				}
			} else {
				// A dropped buffer carries no overlap.
				buf, counts, bufTokens = nil, nil, 0
			}
		}

		buf = append(buf, seg)
		counts = append(counts, segTokens)
		bufTokens += segTokens
	}

	flush()
	return pieces
}

// splitOversized applies the accumulate/flush/overlap cycle at word
// granularity to a segment whose token count exceeds MaxTokens.
func (s *Splitter) splitOversized(segment string, emit func(string)) {
	words := strings.Fields(segment)

	var buf []string
	var counts []int
	bufTokens := 0

	flush := func() bool {
		if len(buf) == 0 || bufTokens < s.opts.MinTokens {
			return false
		}
		emit(strings.Join(buf, " "))
		return true
	}

	for _, w := range words {
		wTokens := s.counter.CountTokens(w)

		if len(buf) > 0 && bufTokens+wTokens > s.opts.MaxTokens {
			if flush() {
				buf, counts, bufTokens = overlapSuffix(buf, counts, s.opts.OverlapTokens)
				for len(buf) > 0 && bufTokens+wTokens > s.opts.MaxTokens {
					bufTokens -= counts[0]
					buf = buf[1:]
					counts = counts[1:]
				}
			} else {
				buf, counts, bufTokens = nil, nil, 0
			}
		}

		buf = append(buf, w)
		counts = append(counts, wTokens)
		bufTokens += wTokens
	}

	flush()
}

// overlapSuffix walks backward over the buffer and keeps whole entries
// while their cumulative token count stays within budget. It returns
// copies so the caller can keep appending without aliasing.
func overlapSuffix(entries []string, counts []int, budget int) ([]string, []int, int) {
	if budget <= 0 {
		return nil, nil, 0
	}

	total := 0
	start := len(entries)
	for start > 0 && total+counts[start-1] <= budget {
		total += counts[start-1]
		start--
	}
	if start == len(entries) {
		return nil, nil, 0
	}

	tail := append([]string(nil), entries[start:]...)
	tailCounts := append([]int(nil), counts[start:]...)
	return tail, tailCounts, total
}
