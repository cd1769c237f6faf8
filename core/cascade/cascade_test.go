package cascade

import (
	"fmt"
	"testing"
)

type attempt struct {
	method string
	text   string
	score  int
}

func qualifyAttempt(a attempt) (bool, string) {
	if len(a.text) < 5 {
		return false, fmt.Sprintf("text too short (%d chars)", len(a.text))
	}
	return true, ""
}

// TestBestPicksHighestScore verifies the highest qualifying score wins.
func TestBestPicksHighestScore(t *testing.T) {
	results := []attempt{
		{"a", "hello world", 40},
		{"b", "longer hello world", 90},
		{"c", "hello", 70},
	}
	best, failures, ok := Best(results,
		func(a attempt) string { return a.method },
		func(a attempt) int { return a.score },
		qualifyAttempt)
	if !ok {
		t.Fatal("Best found nothing, want a winner")
	}
	if best.method != "b" {
		t.Errorf("best = %q, want b", best.method)
	}
	if len(failures) != 0 {
		t.Errorf("failures = %v, want none", failures)
	}
}

// TestBestAllFail verifies total failure reports every technique.
func TestBestAllFail(t *testing.T) {
	results := []attempt{
		{"a", "", 0},
		{"b", "hi", 0},
		{"c", "", 0},
	}
	_, failures, ok := Best(results,
		func(a attempt) string { return a.method },
		func(a attempt) int { return a.score },
		qualifyAttempt)
	if ok {
		t.Fatal("Best found a winner, want failure")
	}
	if len(failures) != 3 {
		t.Fatalf("got %d failures, want 3", len(failures))
	}
	for i, name := range []string{"a", "b", "c"} {
		if failures[i].Name != name {
			t.Errorf("failures[%d].Name = %q, want %q", i, failures[i].Name, name)
		}
		if failures[i].Reason == "" {
			t.Errorf("failures[%d].Reason is empty", i)
		}
	}
}

// TestBestTieKeepsFirst verifies equal scores resolve to the earlier technique.
func TestBestTieKeepsFirst(t *testing.T) {
	results := []attempt{
		{"first", "hello world", 50},
		{"second", "hello world", 50},
	}
	best, _, ok := Best(results,
		func(a attempt) string { return a.method },
		func(a attempt) int { return a.score },
		qualifyAttempt)
	if !ok || best.method != "first" {
		t.Errorf("best = %q, want first", best.method)
	}
}

// TestEscalateGating verifies later stages run only when earlier stages
// under-produce.
func TestEscalateGating(t *testing.T) {
	produce := func(n int) func() []int {
		return func() []int {
			out := make([]int, n)
			return out
		}
	}

	// First stage produces enough: nothing else runs.
	_, ran := Escalate([]Stage[int]{
		{Name: "pattern", Run: produce(12)},
		{Name: "contextual", Gate: 10, Run: produce(3)},
		{Name: "intelligent", Gate: 5, Run: produce(3)},
	})
	if len(ran) != 1 || ran[0] != "pattern" {
		t.Errorf("ran = %v, want [pattern]", ran)
	}

	// First stage under-produces: second runs, and its output clears the
	// third stage's gate.
	items, ran := Escalate([]Stage[int]{
		{Name: "pattern", Run: produce(4)},
		{Name: "contextual", Gate: 10, Run: produce(8)},
		{Name: "intelligent", Gate: 5, Run: produce(3)},
	})
	if len(ran) != 2 {
		t.Errorf("ran = %v, want [pattern contextual]", ran)
	}
	if len(items) != 12 {
		t.Errorf("got %d items, want 12", len(items))
	}

	// Everything under-produces: all stages run.
	_, ran = Escalate([]Stage[int]{
		{Name: "pattern", Run: produce(1)},
		{Name: "contextual", Gate: 10, Run: produce(1)},
		{Name: "intelligent", Gate: 5, Run: produce(1)},
	})
	if len(ran) != 3 {
		t.Errorf("ran = %v, want all three stages", ran)
	}
}

// TestEscalateFirstStageAlwaysRuns verifies the first stage ignores its gate.
func TestEscalateFirstStageAlwaysRuns(t *testing.T) {
	_, ran := Escalate([]Stage[int]{
		{Name: "only", Gate: 1, Run: func() []int { return nil }},
	})
	if len(ran) != 1 {
		t.Errorf("ran = %v, want [only]", ran)
	}
}
