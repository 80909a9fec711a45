// Package cli defines the Cobra command tree for the bpetrace CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// version, commit, date are set via -ldflags at build time.
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bpetrace",
	Short: "Step-by-step byte-pair-encoding merge tracer",
	Long: `Bpetrace shows how a byte-level BPE tokenizer eats a string, one merge
at a time.

The input is pre-tokenized along GPT-2's linguistic boundaries, every byte
becomes a printable symbol, and the most frequent adjacent pair is merged
until no pair occurs twice. Every step is recorded: the pair, its frequency,
the new token, and the full token sequence after the merge.

Run 'bpetrace run "hello hello"' to see your first trace.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute(v, c, d string) {
	version, commit, date = v, c, d
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(
		newRunCmd(),
		newWatchCmd(),
		newExportCmd(),
		newCompareCmd(),
		newHistoryCmd(),
		newVersionCmd(),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("bpetrace %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
