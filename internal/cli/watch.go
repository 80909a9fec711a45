package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/bpetrace/bpetrace/internal/config"
	"github.com/bpetrace/bpetrace/internal/render"
	"github.com/bpetrace/bpetrace/internal/runner"
)

func newWatchCmd() *cobra.Command {
	var (
		maxMerges  int
		debounceMs int
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Watch an input file and re-trace it on every change",
		Long: `Start a long-running watcher on an input file. Whenever the file changes,
its contents are re-tokenized and the trace is printed again.

Writes are debounced, and a save that lands while a trace is still being
computed supersedes it: the in-flight run is abandoned and only the newest
input's trace is shown.

Press Ctrl-C to stop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("stat input file: %w", err)
			}

			gcfg, _ := config.LoadGlobal()
			if debounceMs <= 0 {
				debounceMs = gcfg.Watch.DebounceMs
			}
			debounce := time.Duration(debounceMs) * time.Millisecond
			bound := normalizeMaxMerges(maxMerges)
			opt := renderOptions(gcfg)

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer watcher.Close()

			// Watch the directory: editors often replace the file on save,
			// which would drop a watch on the file itself.
			dir := filepath.Dir(path)
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("add watch directory: %w", err)
			}
			target := filepath.Base(path)

			fmt.Printf("Watching %s (debounce %s). Press Ctrl-C to stop.\n\n", path, debounce)

			// Handle Ctrl-C gracefully.
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			runs := runner.New()
			submit := func() {
				data, err := os.ReadFile(path)
				if err != nil {
					fmt.Fprintf(os.Stderr, "  read error: %v\n", err)
					return
				}
				runs.Submit(strings.TrimSpace(string(data)), bound)
			}

			// Trace the initial contents before waiting for changes.
			submit()

			timer := time.NewTimer(debounce)
			timer.Stop() // Don't fire immediately.

			for {
				select {
				case <-sigCh:
					fmt.Println("\nStopping watcher.")
					return nil

				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if filepath.Base(event.Name) != target {
						continue
					}
					if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
						timer.Reset(debounce)
					}

				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					fmt.Fprintf(os.Stderr, "  watch error: %v\n", err)

				case <-timer.C:
					submit()

				case res := <-runs.Results():
					printWatchResult(res, quiet, opt)
				}
			}
		},
	}

	cmd.Flags().IntVarP(&maxMerges, "max-merges", "m", 0, "cap on merge steps (0 = unbounded)")
	cmd.Flags().IntVar(&debounceMs, "debounce", 0, "debounce interval in milliseconds")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", true, "print only the final step and summary")

	return cmd
}

func printWatchResult(res runner.Result, quiet bool, opt render.Options) {
	ts := time.Now().Format("15:04:05")
	fmt.Printf("[%s] %d bytes in\n", ts, len(res.Text))

	if len(res.Trace.Steps) == 0 {
		fmt.Println(render.Summary(res.Trace))
		return
	}

	if quiet {
		fmt.Print(render.StepBlock(res.Trace.Steps[len(res.Trace.Steps)-1], opt))
	} else {
		for _, step := range res.Trace.Steps {
			fmt.Print(render.StepBlock(step, opt))
			fmt.Println()
		}
	}
	fmt.Println(render.Summary(res.Trace))
	fmt.Println()
}
