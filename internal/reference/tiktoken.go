// Package reference wraps a production BPE encoder (tiktoken's cl100k_base)
// so the compare command can show how a trained vocabulary tokenizes the
// same input that this engine traced from scratch.
package reference

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Encoder wraps tiktoken for side-by-side comparisons.
type Encoder struct {
	enc *tiktoken.Tiktoken
}

// NewEncoder creates an Encoder using the cl100k_base encoding.
func NewEncoder() (*Encoder, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("reference: get encoding: %w", err)
	}
	return &Encoder{enc: enc}, nil
}

// Count returns the number of tokens in s.
func (e *Encoder) Count(s string) int {
	return len(e.enc.Encode(s, nil, nil))
}

// Tokens returns the decoded text of each token in s, in order.
func (e *Encoder) Tokens(s string) []string {
	ids := e.enc.Encode(s, nil, nil)
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = e.enc.Decode([]int{id})
	}
	return out
}
