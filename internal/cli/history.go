package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bpetrace/bpetrace/internal/config"
	"github.com/bpetrace/bpetrace/internal/db"
	"github.com/bpetrace/bpetrace/internal/history"
	"github.com/bpetrace/bpetrace/internal/render"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit    int
		deleteID string
	)

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List saved runs, or replay one",
		Long: `Without arguments, list the most recent runs saved with 'run --save'.
With a run id (or unique prefix), replay that run's full trace.

Examples:
  bpetrace history
  bpetrace history 1a2b3c4d
  bpetrace history --delete 1a2b3c4d`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.HistoryDBPath()
			if err != nil {
				return err
			}
			database, err := db.Open(path)
			if err != nil {
				return fmt.Errorf("open history database: %w", err)
			}
			defer database.Close()
			store := history.NewStore(database)

			if deleteID != "" {
				run, _, err := store.GetRun(deleteID)
				if err != nil {
					return err
				}
				if err := store.DeleteRun(run.ID); err != nil {
					return err
				}
				fmt.Printf("deleted %s\n", run.ID[:8])
				return nil
			}

			if len(args) == 1 {
				return replayRun(store, args[0])
			}

			runs, err := store.ListRuns(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No saved runs. Use 'bpetrace run --save' to keep one.")
				return nil
			}

			for _, r := range runs {
				input := r.Input
				if len(input) > 40 {
					input = input[:37] + "..."
				}
				fmt.Printf("%s  %s  %3d merges  %4d tokens  %q\n",
					r.ID[:8], r.CreatedAt.Format("2006-01-02 15:04"),
					r.MergeCount, r.TokenCount, input)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")
	cmd.Flags().StringVar(&deleteID, "delete", "", "delete a saved run by id (or id prefix)")

	return cmd
}

func replayRun(store *history.Store, prefix string) error {
	run, trace, err := store.GetRun(prefix)
	if err != nil {
		return err
	}

	gcfg, _ := config.LoadGlobal()
	opt := renderOptions(gcfg)

	fmt.Printf("run %s (%s): %q\n\n", run.ID[:8], run.CreatedAt.Format("2006-01-02 15:04"), run.Input)
	for _, step := range trace.Steps {
		fmt.Print(render.StepBlock(step, opt))
		fmt.Println()
	}
	fmt.Println(render.Summary(trace))
	return nil
}
