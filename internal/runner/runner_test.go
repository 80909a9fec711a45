package runner

import (
	"testing"
	"time"
)

func TestRunner_DeliversResult(t *testing.T) {
	r := New()
	r.Submit("hello hello", 0)

	select {
	case res := <-r.Results():
		if res.Text != "hello hello" {
			t.Errorf("result for %q, want %q", res.Text, "hello hello")
		}
		if res.Trace == nil || len(res.Trace.Steps) == 0 {
			t.Error("result carries no trace")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for result")
	}
}

func TestRunner_NewestSubmissionWins(t *testing.T) {
	r := New()

	// Rapid-fire submissions: earlier ones are superseded before or after
	// completion, so the last delivered result must be the final input.
	inputs := []string{"aaaa aaaa", "bbbb bbbb", "cccc cccc", "dddd dddd"}
	for _, in := range inputs {
		r.Submit(in, 0)
	}

	deadline := time.After(5 * time.Second)
	var last string
	for last != "dddd dddd" {
		select {
		case res := <-r.Results():
			last = res.Text
		case <-deadline:
			t.Fatalf("never saw final result, last = %q", last)
		}
	}

	// Nothing older may arrive after the newest generation's result.
	select {
	case res := <-r.Results():
		t.Errorf("stale result %q delivered after newest", res.Text)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRunner_EmptyInput(t *testing.T) {
	r := New()
	r.Submit("", 0)

	select {
	case res := <-r.Results():
		if len(res.Trace.Steps) != 0 {
			t.Errorf("empty input produced %d steps", len(res.Trace.Steps))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for result")
	}
}
