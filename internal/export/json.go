package export

import (
	"encoding/json"
	"fmt"

	"github.com/bpetrace/bpetrace/internal/bpe"
)

// JSONExporter emits the trace as indented JSON. The step layout mirrors the
// engine's types directly: step 0 omits merged_pair, frequency and new_token.
type JSONExporter struct{}

type jsonDocument struct {
	Input      string     `json:"input"`
	MaxMerges  int        `json:"max_merges,omitempty"`
	MergeCount int        `json:"merge_count"`
	Steps      []bpe.Step `json:"steps"`
}

// Export renders data as JSON.
func (e *JSONExporter) Export(data ExportData) (string, error) {
	doc := jsonDocument{
		Input:      data.Input,
		MaxMerges:  data.MaxMerges,
		MergeCount: data.Trace.MergeCount(),
		Steps:      data.Trace.Steps,
	}
	if doc.Steps == nil {
		doc.Steps = []bpe.Step{}
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export: marshal trace: %w", err)
	}
	return string(out) + "\n", nil
}
