package bpe

import (
	"reflect"
	"testing"
)

func TestRun_ClassicCorpus(t *testing.T) {
	// "aaabdaaabac" is a single letter chunk of 11 bytes. The pair (a,a)
	// occurs four times in the table scan and must be merged before any
	// pair occurring once.
	trace := Run("aaabdaaabac", 0)

	if len(trace.Steps) < 2 {
		t.Fatalf("expected at least one merge, got %d steps", len(trace.Steps))
	}

	step0 := trace.Steps[0]
	if step0.Index != 0 || step0.MergedPair != nil || step0.Frequency != 0 || step0.NewToken != "" {
		t.Errorf("step 0 is not a pure initial state: %+v", step0)
	}
	if len(step0.Tokens) != 11 {
		t.Errorf("step 0 has %d tokens, want 11", len(step0.Tokens))
	}

	step1 := trace.Steps[1]
	if step1.MergedPair == nil || step1.MergedPair.Left != "a" || step1.MergedPair.Right != "a" {
		t.Errorf("first merge = %+v, want (a,a)", step1.MergedPair)
	}
	if step1.Frequency != 4 {
		t.Errorf("first merge frequency = %d, want 4", step1.Frequency)
	}
	if step1.NewToken != "aa" {
		t.Errorf("first merge new token = %q, want %q", step1.NewToken, "aa")
	}
	// Non-overlapping left-to-right: a a a b d a a a b a c → aa a b d aa a b a c
	want := []string{"aa", "a", "b", "d", "aa", "a", "b", "a", "c"}
	if !reflect.DeepEqual(step1.Tokens, want) {
		t.Errorf("step 1 tokens = %q, want %q", step1.Tokens, want)
	}
}

func TestRun_EmptyInput(t *testing.T) {
	trace := Run("", 0)
	if len(trace.Steps) != 0 {
		t.Errorf("empty input produced %d steps, want 0", len(trace.Steps))
	}
	if trace.MergeCount() != 0 {
		t.Errorf("MergeCount = %d, want 0", trace.MergeCount())
	}
	if trace.Final() != nil {
		t.Errorf("Final = %q, want nil", trace.Final())
	}
}

func TestRun_MaxMergesBound(t *testing.T) {
	// Two "hello" occurrences land in different chunks ("hello", " hello")
	// but their shared pairs aggregate across chunks.
	trace := Run("hello hello", 1)

	if len(trace.Steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(trace.Steps))
	}

	step1 := trace.Steps[1]
	if step1.Frequency != 2 {
		t.Errorf("step 1 frequency = %d, want 2", step1.Frequency)
	}
	// First-seen order breaks the four-way tie: (h,e) is scanned first.
	if step1.MergedPair.Left != "h" || step1.MergedPair.Right != "e" {
		t.Errorf("step 1 merged %+v, want (h,e)", step1.MergedPair)
	}
}

func TestRun_NoRepeatedPairs(t *testing.T) {
	// Every adjacent pair occurs exactly once: nothing reaches the
	// frequency floor, so only step 0 is recorded.
	trace := Run("abcdefg", 0)
	if len(trace.Steps) != 1 {
		t.Errorf("got %d steps, want 1", len(trace.Steps))
	}
}

func TestRun_Determinism(t *testing.T) {
	const input = "the cat sat on the mat, the cat sat still"
	a := Run(input, 0)
	b := Run(input, 0)
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different traces")
	}
}

func TestRun_Invariants(t *testing.T) {
	inputs := []struct {
		text      string
		maxMerges int
	}{
		{"aaabdaaabac", 0},
		{"hello hello", 0},
		{"the rain in spain stays mainly in the plain", 0},
		{"ababab ababab", 3},
		{"don't don't don't", 0},
		{"héllo héllo héllo", 0},
	}

	for _, in := range inputs {
		trace := Run(in.text, in.maxMerges)
		if len(trace.Steps) == 0 {
			t.Fatalf("%q: empty trace", in.text)
		}

		if in.maxMerges > 0 && len(trace.Steps) > in.maxMerges+1 {
			t.Errorf("%q: %d steps exceeds bound %d", in.text, len(trace.Steps), in.maxMerges)
		}

		for i, step := range trace.Steps {
			if step.Index != i {
				t.Errorf("%q: step %d has index %d", in.text, i, step.Index)
			}

			// Every step decodes back to the original input.
			if got := DecodeTokens(step.Tokens); got != in.text {
				t.Errorf("%q step %d: tokens decode to %q", in.text, i, got)
			}

			if i == 0 {
				continue
			}

			// Merging strictly shrinks the token count.
			if len(step.Tokens) >= len(trace.Steps[i-1].Tokens) {
				t.Errorf("%q step %d: token count %d did not decrease from %d",
					in.text, i, len(step.Tokens), len(trace.Steps[i-1].Tokens))
			}

			if step.Frequency < 2 {
				t.Errorf("%q step %d: frequency %d below floor", in.text, i, step.Frequency)
			}
			if step.MergedPair == nil || step.NewToken != step.MergedPair.Left+step.MergedPair.Right {
				t.Errorf("%q step %d: new token %q does not match pair %+v",
					in.text, i, step.NewToken, step.MergedPair)
			}
		}
	}
}

func TestRun_ChunkBoundaryIsolation(t *testing.T) {
	// "ab ab" pre-tokenizes to "ab" and " ab". The pair (b, Ġa) straddles
	// the chunk boundary and must never merge even though it would be
	// adjacent in the flattened view.
	trace := Run("ab ab ab", 0)
	space := SymbolForByte(' ')

	for _, step := range trace.Steps[1:] {
		if step.MergedPair.Left == "b" && step.MergedPair.Right == space+"a" {
			t.Fatalf("merge crossed a chunk boundary: %+v", step.MergedPair)
		}
		for _, tok := range step.Tokens {
			// A token that decodes to text containing an interior space
			// would have had to span two chunks.
			decoded := DecodeTokens([]string{tok})
			for j := 1; j < len(decoded); j++ {
				if decoded[j] == ' ' {
					t.Fatalf("token %q spans a chunk boundary", decoded)
				}
			}
		}
	}
}

func TestMergeChunk_NonOverlapping(t *testing.T) {
	got := mergeChunk([]string{"a", "a", "b"}, Pair{Left: "a", Right: "b"}, "ab")
	want := []string{"a", "ab"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mergeChunk = %q, want %q", got, want)
	}

	got = mergeChunk([]string{"a", "a", "a", "a"}, Pair{Left: "a", Right: "a"}, "aa")
	want = []string{"aa", "aa"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mergeChunk = %q, want %q", got, want)
	}
}

func TestPairTable_FirstSeenTieBreak(t *testing.T) {
	pt := newPairTable()
	pt.add(Pair{Left: "x", Right: "y"})
	pt.add(Pair{Left: "y", Right: "z"})
	pt.add(Pair{Left: "y", Right: "z"})
	pt.add(Pair{Left: "x", Right: "y"})

	p, count, ok := pt.best()
	if !ok || count != 2 {
		t.Fatalf("best() = %+v, %d, %v", p, count, ok)
	}
	if p.Left != "x" || p.Right != "y" {
		t.Errorf("tie broken to %+v, want first-seen (x,y)", p)
	}
}
