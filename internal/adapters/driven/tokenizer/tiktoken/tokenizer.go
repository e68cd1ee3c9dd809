// Package tiktoken provides a token counter backed by OpenAI BPE encodings.
package tiktoken

import (
	"fmt"

	tiktokengo "github.com/pkoukk/tiktoken-go"

	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
)

// Ensure Counter implements the interface.
var _ driven.TokenCounter = (*Counter)(nil)

// DefaultEncoding is the BPE encoding used when none is configured.
// cl100k_base is shared by the small OpenAI embedding models and is a
// close proxy for sentence-transformer vocabularies.
const DefaultEncoding = "cl100k_base"

// Counter counts tokens using a byte-pair encoding. It is immutable
// after construction and safe for concurrent use.
type Counter struct {
	encoding string
	codec    *tiktokengo.Tiktoken
}

// NewCounter loads the given BPE encoding. An empty name selects
// DefaultEncoding. Loading may fetch the encoding's rank file on first
// use, so construction can fail offline.
func NewCounter(encoding string) (*Counter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}

	codec, err := tiktokengo.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %q: %w", encoding, err)
	}

	return &Counter{
		encoding: encoding,
		codec:    codec,
	}, nil
}

// CountTokens returns the number of BPE tokens in text.
func (c *Counter) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(c.codec.Encode(text, nil, nil))
}

// EncodingName returns the name of the loaded encoding.
func (c *Counter) EncodingName() string {
	return c.encoding
}
