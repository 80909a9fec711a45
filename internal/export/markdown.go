package export

import (
	"fmt"
	"strings"
)

// MarkdownExporter emits a readable merge history: input, summary, and one
// table row per step.
type MarkdownExporter struct{}

// Export renders data as markdown.
func (e *MarkdownExporter) Export(data ExportData) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# BPE merge trace\n\n")
	fmt.Fprintf(&b, "Input: `%s`\n\n", data.Input)

	if len(data.Trace.Steps) == 0 {
		b.WriteString("No tokens (empty input).\n")
		return b.String(), nil
	}

	fmt.Fprintf(&b, "%d merges, %d → %d tokens.\n\n",
		data.Trace.MergeCount(),
		len(data.Trace.Steps[0].Tokens),
		len(data.Trace.Final()))

	b.WriteString("| step | merged pair | freq | new token | tokens |\n")
	b.WriteString("|-----:|-------------|-----:|-----------|-------:|\n")
	for _, step := range data.Trace.Steps {
		freq := "—"
		newTok := "—"
		if step.MergedPair != nil {
			freq = fmt.Sprintf("%d", step.Frequency)
			newTok = fmt.Sprintf("`%s`", step.NewToken)
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %d |\n",
			step.Index, describePair(step), freq, newTok, len(step.Tokens))
	}

	b.WriteString("\nFinal tokens: ")
	for i, tok := range data.Trace.Final() {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "`%s`", tok)
	}
	b.WriteString("\n")

	return b.String(), nil
}
