package bpe

import "github.com/dlclark/regexp2"

// splitPattern is the GPT-2 pre-tokenization pattern: contraction suffixes,
// then space-prefixed letter / digit / symbol runs, then trailing or plain
// whitespace runs. The `\s+(?!\S)` alternative needs a negative lookahead,
// which the stdlib regexp (RE2) cannot express; regexp2 is the same engine
// tiktoken uses for this pattern.
const splitPattern = `'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+`

var splitRe = regexp2.MustCompile(splitPattern, regexp2.None)

// Pretokenize splits text into chunks along GPT-2's linguistic boundaries.
// Merging never crosses a chunk boundary. The chunks concatenate back to the
// input exactly; empty input yields no chunks.
func Pretokenize(text string) []string {
	if text == "" {
		return nil
	}

	var chunks []string
	m, err := splitRe.FindStringMatch(text)
	for err == nil && m != nil {
		chunks = append(chunks, m.String())
		m, err = splitRe.FindNextMatch(m)
	}
	return chunks
}

// chunkSymbols converts one chunk to its initial symbol sequence: the chunk's
// UTF-8 bytes, each mapped through the byte stand-in table. The initial token
// count is therefore the chunk's byte length, not its rune count.
func chunkSymbols(chunk string) []string {
	syms := make([]string, len(chunk))
	for i := 0; i < len(chunk); i++ {
		syms[i] = SymbolForByte(chunk[i])
	}
	return syms
}
