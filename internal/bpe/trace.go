package bpe

// Pair is an ordered pair of adjacent symbols. Being a plain comparable
// struct it doubles as the frequency-table key, so symbol content can never
// collide with a separator.
type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Step records one iteration of the merge loop. Index 0 is the initial
// state: no pair was merged, MergedPair is nil and Frequency is zero.
// Tokens is the full token sequence after this step's merge, all chunks
// concatenated in original chunk order (chunk boundaries are not retained).
type Step struct {
	Index      int      `json:"index"`
	MergedPair *Pair    `json:"merged_pair,omitempty"`
	Frequency  int      `json:"frequency,omitempty"`
	NewToken   string   `json:"new_token,omitempty"`
	Tokens     []string `json:"tokens"`
}

// Trace is the complete ordered step history for one input. It is built once
// by Run and never mutated afterwards; callers own the returned value.
type Trace struct {
	Steps []Step `json:"steps"`
}

// MergeCount returns the number of merges performed (steps beyond step 0).
func (t *Trace) MergeCount() int {
	if len(t.Steps) == 0 {
		return 0
	}
	return len(t.Steps) - 1
}

// Final returns the token sequence after the last merge, or nil for an
// empty trace.
func (t *Trace) Final() []string {
	if len(t.Steps) == 0 {
		return nil
	}
	return t.Steps[len(t.Steps)-1].Tokens
}

// DecodeTokens restores the literal text a token sequence stands for.
// Concatenating a step's decoded tokens reconstructs the original input.
func DecodeTokens(tokens []string) string {
	var out []byte
	for _, tok := range tokens {
		out = append(out, DecodeSymbol(tok)...)
	}
	return string(out)
}

// flatten concatenates the per-chunk symbol sequences, in chunk order, into
// one freshly allocated token slice for a Step snapshot.
func flatten(chunks [][]string) []string {
	n := 0
	for _, c := range chunks {
		n += len(c)
	}
	out := make([]string, 0, n)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}
