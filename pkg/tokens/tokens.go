// Package tokens wraps the tiktoken tokenizer used for chunk budgets and
// prompt truncation.
package tokens

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the encoding shared by the chat and embedding models
// the pipeline targets.
const DefaultEncoding = "cl100k_base"

// Encoder counts and truncates text in tokens.
type Encoder struct {
	enc *tiktoken.Tiktoken
}

// NewEncoder builds an encoder for a named encoding, e.g. cl100k_base.
func NewEncoder(encoding string) (*Encoder, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("get encoding %q: %w", encoding, err)
	}
	return &Encoder{enc: enc}, nil
}

// Count returns the number of tokens in text.
func (e *Encoder) Count(text string) int {
	return len(e.enc.Encode(text, nil, nil))
}

// Truncate cuts text down to at most maxTokens tokens.
func (e *Encoder) Truncate(text string, maxTokens int) string {
	ids := e.enc.Encode(text, nil, nil)
	if len(ids) <= maxTokens {
		return text
	}
	return e.enc.Decode(ids[:maxTokens])
}

// CountForModel counts tokens of text under the encoding of the given model.
// Returns 0 when the model is unknown; callers treat the count as advisory.
func CountForModel(text, model string) int {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return 0
	}
	return len(enc.Encode(text, nil, nil))
}
