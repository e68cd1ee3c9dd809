package extractive

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarise_EmptyContent(t *testing.T) {
	s := New()

	_, err := s.Summarise(context.Background(), "   \n ", 200)
	assert.Error(t, err)
}

func TestSummarise_ShortTextReturnedWhole(t *testing.T) {
	s := New()

	text := "Patient is stable. Follow up in two weeks."
	summary, err := s.Summarise(context.Background(), text, 200)
	require.NoError(t, err)
	assert.Equal(t, text, summary)
}

func TestSummarise_KeepsHighestFrequencySentences(t *testing.T) {
	s := New()

	// "metformin" dominates the frequency table, so the two sentences
	// that mention it and score best are kept; filler is dropped.
	text := "Metformin controls blood sugar. " +
		"Metformin dose was increased. " +
		"The weather was pleasant. " +
		"Metformin remains the main treatment."

	summary, err := s.Summarise(context.Background(), text, 80)
	require.NoError(t, err)

	assert.Equal(t, "Metformin controls blood sugar. Metformin remains the main treatment.", summary)
	assert.LessOrEqual(t, len(summary), 80)
	assert.NotContains(t, summary, "weather")
}

func TestSummarise_PreservesReadingOrder(t *testing.T) {
	s := New()

	text := "Aspirin was prescribed first. " +
		"Unrelated filler sentence here. " +
		"Aspirin dosage was doubled later. " +
		"Aspirin use should continue."

	summary, err := s.Summarise(context.Background(), text, 120)
	require.NoError(t, err)

	first := strings.Index(summary, "prescribed first")
	later := strings.Index(summary, "doubled later")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, later, 0)
	assert.Less(t, first, later, "selected sentences must keep original order")
	assert.NotContains(t, summary, "filler")
}

func TestSummarise_RespectsBudget(t *testing.T) {
	s := New()

	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("Blood pressure was recorded during the visit. ")
	}

	summary, err := s.Summarise(context.Background(), sb.String(), 200)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(summary), 200)
	assert.NotEmpty(t, summary)
}

func TestSummarise_OversizedSingleSentenceTruncated(t *testing.T) {
	s := New()

	text := strings.TrimSpace(strings.Repeat("word ", 40)) + "."
	summary, err := s.Summarise(context.Background(), text, 50)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(summary), 50)
	assert.True(t, strings.HasPrefix(summary, "word word"))
}

func TestSummarise_TruncationKeepsRunesIntact(t *testing.T) {
	s := New()

	text := strings.Repeat("日", 30) + "."
	summary, err := s.Summarise(context.Background(), text, 10)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(summary), 10)
	assert.True(t, utf8.ValidString(summary))
	assert.NotEmpty(t, summary)
}

func TestSummarise_FragmentWithoutTerminator(t *testing.T) {
	s := New()

	text := "handwritten note about dizziness after breakfast"
	summary, err := s.Summarise(context.Background(), text, 200)
	require.NoError(t, err)
	assert.Equal(t, text, summary)
}

func TestSummarise_ZeroBudgetUsesDefault(t *testing.T) {
	s := New()

	summary, err := s.Summarise(context.Background(), "Short report. Nothing abnormal found.", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, summary)
	assert.LessOrEqual(t, len(summary), DefaultMaxLength)
}

func TestModelName(t *testing.T) {
	assert.Equal(t, "extractive-frequency", New().ModelName())
}
