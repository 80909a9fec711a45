// Package runner executes BPE trace computations off the caller's goroutine
// with replace-on-submit semantics: a newer input supersedes any in-flight
// run, and only the newest run's trace is ever published. Superseded runs are
// abandoned along with their partial state; no partial result is surfaced.
package runner

import (
	"sync"

	"github.com/bpetrace/bpetrace/internal/bpe"
)

// Result carries one adopted trace together with the input that produced it.
type Result struct {
	Text      string
	MaxMerges int
	Trace     *bpe.Trace
}

// Runner owns a results channel and a generation counter. The engine itself
// is pure and synchronous, so cancellation is by abandonment: a stale
// goroutine finishes its work and finds its generation outdated.
type Runner struct {
	mu      sync.Mutex
	gen     uint64
	results chan Result
}

// New returns a Runner ready to accept submissions.
func New() *Runner {
	return &Runner{results: make(chan Result, 1)}
}

// Results delivers the traces of adopted (non-superseded) runs, in
// submission order of the runs that survived.
func (r *Runner) Results() <-chan Result {
	return r.results
}

// Submit schedules a run for text. Any in-flight run becomes stale
// immediately; its result will be dropped when it completes.
func (r *Runner) Submit(text string, maxMerges int) {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.mu.Unlock()

	go func() {
		trace := bpe.Run(text, maxMerges)

		// Staleness check and publish are atomic: once a newer generation
		// exists, this result can never be observed.
		r.mu.Lock()
		defer r.mu.Unlock()
		if gen != r.gen {
			return
		}

		// Replace a not-yet-consumed older result rather than blocking.
		select {
		case <-r.results:
		default:
		}
		r.results <- Result{Text: text, MaxMerges: maxMerges, Trace: trace}
	}()
}
