package driven

// TokenCounter counts tokens in text under a fixed encoding.
// Counting is deterministic and pure: the same text always yields the
// same count, and a count never fails. Adapters that need setup (BPE
// rank loading) fail at construction, not here.
type TokenCounter interface {
	// CountTokens returns the token count for text. Empty text is 0.
	CountTokens(text string) int

	// EncodingName returns the encoding identifier (e.g. cl100k_base).
	EncodingName() string
}
