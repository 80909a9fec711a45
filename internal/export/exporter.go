// Package export renders a completed trace into formats consumable by other
// tools: machine-readable JSON and a human-readable markdown step table.
package export

import (
	"fmt"

	"github.com/bpetrace/bpetrace/internal/bpe"
)

// ExportData is passed to every Exporter.
type ExportData struct {
	Input     string
	MaxMerges int
	Trace     *bpe.Trace
}

// Exporter renders ExportData to a string in a specific format.
type Exporter interface {
	Export(data ExportData) (string, error)
}

// registry maps format names to Exporter implementations.
var registry = map[string]Exporter{
	"json":     &JSONExporter{},
	"markdown": &MarkdownExporter{},
}

// Get returns the Exporter registered under name, and whether it was found.
func Get(name string) (Exporter, bool) {
	e, ok := registry[name]
	return e, ok
}

// ValidFormats returns the list of supported export format names.
func ValidFormats() []string {
	formats := make([]string, 0, len(registry))
	for k := range registry {
		formats = append(formats, k)
	}
	return formats
}

func describePair(step bpe.Step) string {
	if step.MergedPair == nil {
		return "—"
	}
	return fmt.Sprintf("(%q, %q)", step.MergedPair.Left, step.MergedPair.Right)
}
