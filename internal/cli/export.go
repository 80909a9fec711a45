package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bpetrace/bpetrace/internal/bpe"
	"github.com/bpetrace/bpetrace/internal/config"
	"github.com/bpetrace/bpetrace/internal/db"
	"github.com/bpetrace/bpetrace/internal/export"
	"github.com/bpetrace/bpetrace/internal/history"
)

func newExportCmd() *cobra.Command {
	var (
		format    string
		maxMerges int
		filePath  string
		runID     string
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "export [text]",
		Short: "Export a trace as JSON or markdown",
		Long: `Compute a trace (or load a saved run) and write it in a machine- or
human-readable format.

Examples:
  bpetrace export --format json "hello hello"
  bpetrace export --format markdown --file essay.txt --out trace.md
  bpetrace export --run 1a2b3c4d --format json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, ok := export.Get(format)
			if !ok {
				return fmt.Errorf("unknown format %q (valid: %s)",
					format, strings.Join(export.ValidFormats(), ", "))
			}

			var data export.ExportData
			if runID != "" {
				run, trace, err := loadFromHistory(runID)
				if err != nil {
					return err
				}
				data = export.ExportData{Input: run.Input, MaxMerges: run.MaxMerges, Trace: trace}
			} else {
				text, err := readInput(args, filePath)
				if err != nil {
					return err
				}
				bound := normalizeMaxMerges(maxMerges)
				data = export.ExportData{Input: text, MaxMerges: bound, Trace: bpe.Run(text, bound)}
			}

			out, err := exp.Export(data)
			if err != nil {
				return err
			}

			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
					return fmt.Errorf("write output file: %w", err)
				}
				fmt.Fprintf(os.Stderr, "wrote %s\n", outPath)
				return nil
			}

			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "output format: json or markdown")
	cmd.Flags().IntVarP(&maxMerges, "max-merges", "m", 0, "cap on merge steps (0 = unbounded)")
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "read input from a file")
	cmd.Flags().StringVar(&runID, "run", "", "export a saved run by id (or id prefix)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to a file instead of stdout")

	return cmd
}

// loadFromHistory opens the history database and loads one saved run.
func loadFromHistory(prefix string) (history.Run, *bpe.Trace, error) {
	path, err := config.HistoryDBPath()
	if err != nil {
		return history.Run{}, nil, err
	}

	database, err := db.Open(path)
	if err != nil {
		return history.Run{}, nil, fmt.Errorf("open history database: %w", err)
	}
	defer database.Close()

	return history.NewStore(database).GetRun(prefix)
}
