// Package extractive provides an offline summariser that ranks
// sentences by word frequency. It needs no model or network, which
// makes it the last resort of the summarisation chain.
package extractive

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/medvault-labs/medvault-cli/internal/chunker"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
)

// Ensure Summariser implements the interface.
var _ driven.Summariser = (*Summariser)(nil)

// DefaultMaxLength caps the summary when the caller passes no budget.
const DefaultMaxLength = 600

// Summariser ranks sentences by normalised word frequency and keeps
// the best ones, in original order, within a character budget.
type Summariser struct {
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// New creates a frequency-based extractive summariser.
func New() *Summariser {
	return &Summariser{
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

// Summarise selects the highest-scoring sentences that fit maxLength
// characters. Sentences keep their original reading order, so dosage
// instructions are never reordered relative to their context.
func (s *Summariser) Summarise(_ context.Context, content string, maxLength int) (string, error) {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("extractive: no content to summarise")
	}

	sentences := chunker.Segments(content)
	if len(sentences) == 0 {
		return truncate(content, maxLength), nil
	}

	// Normalised word frequencies, stopwords filtered.
	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range s.tokens(sent) {
			if _, ok := s.stopwords[tok]; ok {
				continue
			}
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}

	// Score sentences, normalised by length to avoid long-sentence bias.
	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(sentences))
	for i, sent := range sentences {
		toks := s.tokens(sent)
		total := 0.0
		for _, tok := range toks {
			if v, ok := freq[tok]; ok {
				total += v
			}
		}
		if l := float64(len(toks)); l > 0 {
			total /= math.Sqrt(l)
		}
		scores[i] = scored{i, total}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	// Take the best sentences until the budget is spent, then restore
	// reading order.
	var selected []int
	used := 0
	for _, sc := range scores {
		cost := len(sentences[sc.idx])
		if len(selected) > 0 {
			cost++ // joining space
		}
		if used+cost > maxLength {
			continue
		}
		selected = append(selected, sc.idx)
		used += cost
	}
	if len(selected) == 0 {
		// Even the best sentence is over budget; truncate it.
		return truncate(sentences[scores[0].idx], maxLength), nil
	}
	sort.Ints(selected)

	parts := make([]string, len(selected))
	for i, idx := range selected {
		parts[i] = sentences[idx]
	}
	return strings.Join(parts, " "), nil
}

// ModelName identifies this provider in chain outcomes and logs.
func (s *Summariser) ModelName() string {
	return "extractive-frequency"
}

// tokens lowercases and extracts word tokens from text.
func (s *Summariser) tokens(text string) []string {
	return s.tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// truncate cuts text to at most max bytes without splitting a rune.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return strings.TrimSpace(text[:cut])
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are",
		"was", "were", "be", "been", "being", "it", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "again",
		"further", "than", "so", "such", "into", "about", "between",
		"through", "during", "before", "after", "above", "below", "out",
		"off", "own", "same", "too", "very", "can", "will", "just",
		"don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
