// Package render turns BPE trace steps into terminal output: token chips
// with cycling background colors, one-line merge descriptions, and a trace
// summary. All functions are pure string builders so they can be tested
// without a TTY; color and width are passed in by the caller.
package render

import (
	"fmt"
	"strings"

	"github.com/bpetrace/bpetrace/internal/bpe"
)

// Options controls chip rendering.
type Options struct {
	// Color toggles ANSI escapes. Off = plain tokens separated by '|'.
	Color bool
	// Width is the terminal width used for wrapping; <= 0 disables wrapping.
	Width int
}

const (
	ansiReset = "\033[0m"
	ansiFg    = "\033[30m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
)

// chipPalette cycles soft 256-color backgrounds so adjacent tokens are
// visually distinct.
var chipPalette = []int{152, 180, 150, 222, 183, 210, 117, 144}

// Chips renders a token sequence as one (possibly wrapped) chip row.
// Tokens are shown in their stand-in symbol form, which is printable for
// every byte by construction of the byte mapper.
func Chips(tokens []string, opt Options) string {
	var b strings.Builder
	line := 0
	for i, tok := range tokens {
		w := chipWidth(tok)
		if opt.Width > 0 && line > 0 && line+w > opt.Width {
			b.WriteByte('\n')
			line = 0
		}

		if opt.Color {
			bg := chipPalette[i%len(chipPalette)]
			fmt.Fprintf(&b, "\033[48;5;%dm%s%s%s", bg, ansiFg, tok, ansiReset)
		} else {
			if line > 0 {
				b.WriteByte('|')
				line++
			}
			b.WriteString(tok)
		}
		line += w
	}
	return b.String()
}

func chipWidth(tok string) int {
	return len([]rune(tok))
}

// DescribeStep returns the one-line history entry for a step, e.g.
//
//	step  3: merge ("l", "l") ×2 → "ll"   9 tokens
//
// Step 0 is described as the initial state.
func DescribeStep(step bpe.Step) string {
	if step.MergedPair == nil {
		return fmt.Sprintf("step  0: initial state   %d tokens", len(step.Tokens))
	}
	return fmt.Sprintf("step %2d: merge (%q, %q) ×%d → %q   %d tokens",
		step.Index, step.MergedPair.Left, step.MergedPair.Right,
		step.Frequency, step.NewToken, len(step.Tokens))
}

// StepBlock renders a step's description line followed by its chip row.
func StepBlock(step bpe.Step, opt Options) string {
	desc := DescribeStep(step)
	if opt.Color {
		desc = ansiBold + desc + ansiReset
	}
	return desc + "\n" + Chips(step.Tokens, opt) + "\n"
}

// Summary returns the closing line for a full trace.
func Summary(trace *bpe.Trace) string {
	if len(trace.Steps) == 0 {
		return "no tokens (empty input)"
	}
	first := len(trace.Steps[0].Tokens)
	last := len(trace.Final())
	return fmt.Sprintf("%d merges: %d tokens → %d tokens", trace.MergeCount(), first, last)
}
