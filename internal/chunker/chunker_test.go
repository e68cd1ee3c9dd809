package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
)

// wordCounter counts whitespace-separated words. Joining segments with a
// single space preserves the sum, which keeps expectations exact.
type wordCounter struct{}

func (wordCounter) CountTokens(text string) int { return len(strings.Fields(text)) }
func (wordCounter) EncodingName() string        { return "words" }

func newSplitter(t *testing.T, maxTokens, overlapTokens, minTokens int) *Splitter {
	t.Helper()
	s, err := New(wordCounter{}, domain.ChunkOptions{
		MaxTokens:     maxTokens,
		OverlapTokens: overlapTokens,
		MinTokens:     minTokens,
	})
	require.NoError(t, err)
	return s
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts domain.ChunkOptions
	}{
		{"zero max tokens", domain.ChunkOptions{MaxTokens: 0, OverlapTokens: 10, MinTokens: 5}},
		{"negative overlap", domain.ChunkOptions{MaxTokens: 100, OverlapTokens: -1, MinTokens: 5}},
		{"overlap at max", domain.ChunkOptions{MaxTokens: 100, OverlapTokens: 100, MinTokens: 5}},
		{"min above max", domain.ChunkOptions{MaxTokens: 100, OverlapTokens: 10, MinTokens: 101}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := New(wordCounter{}, tc.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Nil(t, s)
		})
	}
}

func TestNew_DefaultOptions(t *testing.T) {
	s, err := New(wordCounter{}, domain.DefaultChunkOptions())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMaxTokens, s.Options().MaxTokens)
}

func TestSplit_EmptyInput(t *testing.T) {
	s := newSplitter(t, 100, 10, 2)

	assert.Empty(t, s.Split(""))
	assert.Empty(t, s.Split("   \n\t  "))
}

func TestSplit_SingleChunkWithinBudget(t *testing.T) {
	s := newSplitter(t, 100, 10, 2)

	text := "The patient reported mild dizziness after the morning dose."
	pieces := s.Split(text)

	require.Len(t, pieces, 1)
	assert.Equal(t, 0, pieces[0].Index)
	assert.Equal(t, text, pieces[0].Content)
	assert.Equal(t, 9, pieces[0].TokenCount)
}

func TestSplit_WholeTextBelowMinimum(t *testing.T) {
	s := newSplitter(t, 100, 10, 5)

	assert.Empty(t, s.Split("Too short."))
}

func TestSplit_AccumulatesSegments(t *testing.T) {
	s := newSplitter(t, 7, 3, 2)

	// Four 3-word sentences; budget 7 fits two per chunk before overlap.
	text := "One two alpha. Two three bravo. Three four charlie. Four five delta."
	pieces := s.Split(text)

	require.Len(t, pieces, 3)
	assert.Equal(t, "One two alpha. Two three bravo.", pieces[0].Content)
	assert.Equal(t, "Two three bravo. Three four charlie.", pieces[1].Content)
	assert.Equal(t, "Three four charlie. Four five delta.", pieces[2].Content)
	for i, p := range pieces {
		assert.Equal(t, i, p.Index)
		assert.Equal(t, 6, p.TokenCount)
	}
}

func TestSplit_OverlapIsSegmentSuffix(t *testing.T) {
	s := newSplitter(t, 7, 3, 2)

	text := "One two alpha. Two three bravo. Three four charlie. Four five delta."
	pieces := s.Split(text)

	require.True(t, len(pieces) >= 2)
	for i := 1; i < len(pieces); i++ {
		prev := pieces[i-1].Content
		head := strings.Join(strings.Fields(pieces[i].Content)[:3], " ")
		assert.True(t, strings.HasSuffix(prev, head),
			"piece %d should begin with the tail of piece %d", i, i-1)
	}
}

func TestSplit_NoOverlapWhenSegmentsExceedBudget(t *testing.T) {
	// Overlap budget 3 cannot hold any whole 4-word segment.
	s := newSplitter(t, 10, 3, 2)

	text := "Alpha bravo charlie delta. Echo foxtrot golf hotel. India juliet kilo lima. Mike november oscar papa."
	pieces := s.Split(text)

	require.Len(t, pieces, 2)
	assert.Equal(t, "Alpha bravo charlie delta. Echo foxtrot golf hotel.", pieces[0].Content)
	assert.Equal(t, "India juliet kilo lima. Mike november oscar papa.", pieces[1].Content)
}

func TestSplit_OverlapTrimmedToFitIncomingSegment(t *testing.T) {
	s := newSplitter(t, 10, 8, 1)

	// Third segment is 9 tokens; the full 8-token overlap cannot be kept.
	text := "Alpha bravo charlie delta. Echo foxtrot golf hotel. India juliet kilo lima mike november oscar papa quebec."
	pieces := s.Split(text)

	require.Len(t, pieces, 2)
	assert.Equal(t, "Alpha bravo charlie delta. Echo foxtrot golf hotel.", pieces[0].Content)
	assert.Equal(t, "India juliet kilo lima mike november oscar papa quebec.", pieces[1].Content)
	for _, p := range pieces {
		assert.LessOrEqual(t, p.TokenCount, 10)
	}
}

func TestSplit_DroppedBufferCarriesNoContent(t *testing.T) {
	s := newSplitter(t, 10, 0, 5)

	// First segment has 3 tokens, below the 5-token floor, and the second
	// does not leave room for it. The short buffer is dropped.
	text := "Alpha bravo charlie.\nDelta echo foxtrot golf hotel india juliet kilo lima."
	pieces := s.Split(text)

	require.Len(t, pieces, 1)
	assert.Equal(t, "Delta echo foxtrot golf hotel india juliet kilo lima.", pieces[0].Content)
}

func TestSplit_TrailingBufferBelowMinimumDropped(t *testing.T) {
	s := newSplitter(t, 8, 0, 4)

	text := "Alpha bravo charlie delta echo foxtrot golf hotel.\nIndia juliet."
	pieces := s.Split(text)

	require.Len(t, pieces, 1)
	assert.Equal(t, "Alpha bravo charlie delta echo foxtrot golf hotel.", pieces[0].Content)
}

func TestSplit_OversizedSegmentFallsBackToWords(t *testing.T) {
	s := newSplitter(t, 10, 2, 2)

	// One unbroken 30-word segment, no sentence boundaries.
	words := make([]string, 30)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i)
	}
	pieces := s.Split(strings.Join(words, " "))

	require.Len(t, pieces, 4)
	for i, p := range pieces {
		assert.Equal(t, i, p.Index)
		assert.LessOrEqual(t, p.TokenCount, 10)
	}
	// Word order is preserved and overlap repeats the previous tail.
	assert.True(t, strings.HasPrefix(pieces[1].Content, "word8 word9"))
	assert.True(t, strings.HasSuffix(pieces[3].Content, "word29"))
}

func TestSplit_PendingBufferFlushedBeforeOversized(t *testing.T) {
	s := newSplitter(t, 10, 0, 2)

	long := make([]string, 25)
	for i := range long {
		long[i] = fmt.Sprintf("term%d", i)
	}
	text := "Short intro sentence here.\n" + strings.Join(long, " ")
	pieces := s.Split(text)

	require.True(t, len(pieces) >= 3)
	assert.Equal(t, "Short intro sentence here.", pieces[0].Content)
	assert.True(t, strings.HasPrefix(pieces[1].Content, "term0"))
}

func TestSplit_IndicesAreContiguous(t *testing.T) {
	s := newSplitter(t, 12, 4, 2)

	var sb strings.Builder
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&sb, "Entry %d notes the patient slept well. ", i)
	}
	pieces := s.Split(sb.String())

	require.NotEmpty(t, pieces)
	for i, p := range pieces {
		assert.Equal(t, i, p.Index)
		assert.NotEmpty(t, p.Content)
	}
}

func TestSplit_Deterministic(t *testing.T) {
	s := newSplitter(t, 12, 4, 2)

	text := "First note here. Second note follows. Third note ends the record."
	first := s.Split(text)
	second := s.Split(text)

	assert.Equal(t, first, second)
}

func TestSplit_ReconstructsSentenceOrder(t *testing.T) {
	s := newSplitter(t, 256, 50, 20)

	sentences := make([]string, 40)
	for i := range sentences {
		sentences[i] = fmt.Sprintf("Entry number %d records stable vitals and good medication adherence.", i)
	}
	pieces := s.Split(strings.Join(sentences, " "))

	require.True(t, len(pieces) >= 2, "expected at least two chunks, got %d", len(pieces))

	// Every sentence survives chunking, and first occurrences follow the
	// original reading order.
	joined := ""
	for _, p := range pieces {
		joined += p.Content + " "
	}
	lastIndex := -1
	for i, sentence := range sentences {
		pos := strings.Index(joined, sentence)
		require.NotEqual(t, -1, pos, "sentence %d missing from output", i)
		assert.Greater(t, pos, lastIndex, "sentence %d out of order", i)
		lastIndex = pos
	}
}

func TestSplit_RespectsMaxTokens(t *testing.T) {
	s := newSplitter(t, 16, 6, 2)

	var sb strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&sb, "Visit %d went well and vitals were stable throughout. ", i)
	}
	pieces := s.Split(sb.String())

	require.NotEmpty(t, pieces)
	for _, p := range pieces {
		assert.LessOrEqual(t, p.TokenCount, 16)
		assert.GreaterOrEqual(t, p.TokenCount, 2)
	}
}
