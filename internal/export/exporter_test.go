package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/bpetrace/bpetrace/internal/bpe"
)

func sampleExportData() ExportData {
	return ExportData{
		Input: "hello hello",
		Trace: bpe.Run("hello hello", 0),
	}
}

func TestGet(t *testing.T) {
	for _, name := range []string{"json", "markdown"} {
		if _, ok := Get(name); !ok {
			t.Errorf("format %q not registered", name)
		}
	}
	if _, ok := Get("yaml"); ok {
		t.Error("unknown format should not resolve")
	}
	if len(ValidFormats()) != 2 {
		t.Errorf("ValidFormats = %v", ValidFormats())
	}
}

func TestJSONExporter(t *testing.T) {
	out, err := (&JSONExporter{}).Export(sampleExportData())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var doc struct {
		Input      string `json:"input"`
		MergeCount int    `json:"merge_count"`
		Steps      []struct {
			Index      int       `json:"index"`
			MergedPair *bpe.Pair `json:"merged_pair"`
			Tokens     []string  `json:"tokens"`
		} `json:"steps"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if doc.Input != "hello hello" {
		t.Errorf("input = %q", doc.Input)
	}
	if doc.MergeCount != len(doc.Steps)-1 {
		t.Errorf("merge_count %d inconsistent with %d steps", doc.MergeCount, len(doc.Steps))
	}
	if doc.Steps[0].MergedPair != nil {
		t.Error("step 0 should omit merged_pair")
	}
	if len(doc.Steps[0].Tokens) != len("hello hello") {
		t.Errorf("step 0 has %d tokens, want %d", len(doc.Steps[0].Tokens), len("hello hello"))
	}
}

func TestJSONExporter_EmptyTrace(t *testing.T) {
	out, err := (&JSONExporter{}).Export(ExportData{Input: "", Trace: bpe.Run("", 0)})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.Contains(out, `"steps": []`) {
		t.Errorf("empty trace should serialize steps as []: %s", out)
	}
}

func TestMarkdownExporter(t *testing.T) {
	out, err := (&MarkdownExporter{}).Export(sampleExportData())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	for _, want := range []string{"# BPE merge trace", "`hello hello`", "| step |", "| 0 |", "Final tokens:"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}
