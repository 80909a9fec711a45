package bpe

// pairTable aggregates adjacent-pair counts across all chunks while
// remembering the order in which distinct pairs were first seen. Selection
// ties are broken by that first-seen order, so the table must not rely on
// Go's randomized map iteration.
type pairTable struct {
	counts map[Pair]int
	order  []Pair
}

func newPairTable() *pairTable {
	return &pairTable{counts: make(map[Pair]int)}
}

func (pt *pairTable) add(p Pair) {
	if _, seen := pt.counts[p]; !seen {
		pt.order = append(pt.order, p)
	}
	pt.counts[p]++
}

// best returns the pair with the strictly highest count, first-seen wins
// ties. ok is false when the table is empty.
func (pt *pairTable) best() (p Pair, count int, ok bool) {
	for _, cand := range pt.order {
		if c := pt.counts[cand]; c > count {
			p, count, ok = cand, c, true
		}
	}
	return p, count, ok
}

// countPairs scans every chunk's adjacent symbol pairs. Occurrences from
// different chunks contribute to the same aggregated count even though the
// merge itself is applied chunk-locally.
func countPairs(chunks [][]string) *pairTable {
	pt := newPairTable()
	for _, syms := range chunks {
		for i := 0; i+1 < len(syms); i++ {
			pt.add(Pair{Left: syms[i], Right: syms[i+1]})
		}
	}
	return pt
}

// mergeChunk replaces every non-overlapping left-to-right occurrence of p in
// syms with merged. Scanning resumes after a merged position, so with pair
// (a,b) the sequence [a a b] becomes [a ab], not [aa b].
func mergeChunk(syms []string, p Pair, merged string) []string {
	out := make([]string, 0, len(syms))
	for i := 0; i < len(syms); {
		if i+1 < len(syms) && syms[i] == p.Left && syms[i+1] == p.Right {
			out = append(out, merged)
			i += 2
			continue
		}
		out = append(out, syms[i])
		i++
	}
	return out
}

// Run tokenizes text and returns the complete merge trace.
//
// maxMerges caps the number of merge steps beyond step 0; zero or negative
// means unbounded. The run always terminates on its own: each merge strictly
// shrinks the token count, and a pair must occur at least twice to be merged
// at all. Run is pure — identical inputs produce identical traces — and is
// safe to call from any number of goroutines concurrently.
func Run(text string, maxMerges int) *Trace {
	chunks := pretokenizedChunks(text)
	if len(chunks) == 0 {
		return &Trace{}
	}

	trace := &Trace{
		Steps: []Step{{Index: 0, Tokens: flatten(chunks)}},
	}

	for step := 1; ; step++ {
		if maxMerges > 0 && step > maxMerges {
			break
		}

		pair, freq, ok := countPairs(chunks).best()
		if !ok || freq < 2 {
			break
		}

		merged := pair.Left + pair.Right
		for i, syms := range chunks {
			chunks[i] = mergeChunk(syms, pair, merged)
		}

		p := pair
		trace.Steps = append(trace.Steps, Step{
			Index:      step,
			MergedPair: &p,
			Frequency:  freq,
			NewToken:   merged,
			Tokens:     flatten(chunks),
		})
	}

	return trace
}

func pretokenizedChunks(text string) [][]string {
	raw := Pretokenize(text)
	chunks := make([][]string, len(raw))
	for i, c := range raw {
		chunks[i] = chunkSymbols(c)
	}
	return chunks
}
