package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/bpetrace/bpetrace/internal/bpe"
	"github.com/bpetrace/bpetrace/internal/config"
	"github.com/bpetrace/bpetrace/internal/db"
	"github.com/bpetrace/bpetrace/internal/export"
	"github.com/bpetrace/bpetrace/internal/history"
	"github.com/bpetrace/bpetrace/internal/render"
)

// spinnerThreshold is the input size above which run shows a spinner while
// the trace is computed.
const spinnerThreshold = 1 << 14

func newRunCmd() *cobra.Command {
	var (
		maxMerges int
		filePath  string
		stepIndex int
		asJSON    bool
		save      bool
		quiet     bool
	)

	cmd := &cobra.Command{
		Use:   "run [text]",
		Short: "Tokenize text and print the full merge trace",
		Long: `Tokenize the given text and print one block per merge step: the merged
pair, its frequency, the new token, and the token sequence after the merge.

Input comes from the positional argument, --file, or stdin.

Examples:
  bpetrace run "hello hello"
  bpetrace run --max-merges 5 "the cat sat on the mat"
  bpetrace run --file essay.txt --step 3
  cat essay.txt | bpetrace run --json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args, filePath)
			if err != nil {
				return err
			}

			gcfg, _ := config.LoadGlobal()
			bound := normalizeMaxMerges(maxMerges)
			if bound == 0 {
				bound = normalizeMaxMerges(gcfg.Engine.MaxMerges)
			}

			trace := computeTrace(text, bound, !asJSON && !quiet)

			if save && gcfg.History.Enabled {
				if id, err := saveToHistory(text, bound, trace); err != nil {
					fmt.Fprintf(os.Stderr, "warning: save failed: %v\n", err)
				} else if !asJSON {
					fmt.Fprintf(os.Stderr, "saved as %s\n", id[:8])
				}
			}

			if asJSON {
				exp, _ := export.Get("json")
				out, err := exp.Export(export.ExportData{Input: text, MaxMerges: bound, Trace: trace})
				if err != nil {
					return err
				}
				fmt.Print(out)
				return nil
			}

			opt := renderOptions(gcfg)

			if len(trace.Steps) == 0 {
				fmt.Println(render.Summary(trace))
				return nil
			}

			switch {
			case stepIndex >= 0:
				if stepIndex >= len(trace.Steps) {
					return fmt.Errorf("step %d out of range (trace has steps 0..%d)",
						stepIndex, len(trace.Steps)-1)
				}
				fmt.Print(render.StepBlock(trace.Steps[stepIndex], opt))

			case quiet:
				fmt.Print(render.StepBlock(trace.Steps[len(trace.Steps)-1], opt))

			default:
				for _, step := range trace.Steps {
					fmt.Print(render.StepBlock(step, opt))
					fmt.Println()
				}
			}

			fmt.Println(render.Summary(trace))
			return nil
		},
	}

	cmd.Flags().IntVarP(&maxMerges, "max-merges", "m", 0, "cap on merge steps (0 = unbounded)")
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "read input from a file")
	cmd.Flags().IntVar(&stepIndex, "step", -1, "print only the given step")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the trace as JSON")
	cmd.Flags().BoolVar(&save, "save", false, "save the run to local history")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the final step and summary")

	return cmd
}

// computeTrace runs the engine, showing a spinner for large inputs when the
// output is a human terminal.
func computeTrace(text string, maxMerges int, spinnerOK bool) *bpe.Trace {
	if !spinnerOK || len(text) < spinnerThreshold {
		return bpe.Run(text, maxMerges)
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("  tracing merges"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan *bpe.Trace, 1)
	go func() { done <- bpe.Run(text, maxMerges) }()

	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case trace := <-done:
			bar.Finish()
			return trace
		case <-tick.C:
			bar.Add(1)
		}
	}
}

// saveToHistory opens the history database and stores one run.
func saveToHistory(text string, maxMerges int, trace *bpe.Trace) (string, error) {
	path, err := config.HistoryDBPath()
	if err != nil {
		return "", err
	}

	database, err := db.Open(path)
	if err != nil {
		return "", fmt.Errorf("open history database: %w", err)
	}
	defer database.Close()

	return history.NewStore(database).SaveRun(text, maxMerges, trace)
}
