package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bpetrace/bpetrace/internal/bpe"
	"github.com/bpetrace/bpetrace/internal/config"
	"github.com/bpetrace/bpetrace/internal/reference"
	"github.com/bpetrace/bpetrace/internal/render"
)

func newCompareCmd() *cobra.Command {
	var (
		maxMerges int
		filePath  string
	)

	cmd := &cobra.Command{
		Use:   "compare [text]",
		Short: "Compare this trace against a production encoder",
		Long: `Trace the input from scratch, then tokenize the same input with a trained
production vocabulary (tiktoken's cl100k_base) and show both segmentations.

The from-scratch trace only knows the pairs of this one input, so the two
usually disagree — that difference is the point: it shows what a trained
vocabulary buys you.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args, filePath)
			if err != nil {
				return err
			}

			gcfg, _ := config.LoadGlobal()
			opt := renderOptions(gcfg)

			trace := bpe.Run(text, normalizeMaxMerges(maxMerges))

			fmt.Printf("bpetrace (%d merges from this input alone):\n", trace.MergeCount())
			if final := trace.Final(); final != nil {
				fmt.Println(render.Chips(final, opt))
				fmt.Printf("%d tokens\n\n", len(final))
			} else {
				fmt.Print("no tokens\n\n")
			}

			enc, err := reference.NewEncoder()
			if err != nil {
				return fmt.Errorf("load reference encoder: %w", err)
			}

			refTokens := enc.Tokens(text)
			fmt.Println("cl100k_base (trained vocabulary):")
			fmt.Println(render.Chips(refTokens, opt))
			fmt.Printf("%d tokens\n", len(refTokens))

			return nil
		},
	}

	cmd.Flags().IntVarP(&maxMerges, "max-merges", "m", 0, "cap on merge steps (0 = unbounded)")
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "read input from a file")

	return cmd
}
