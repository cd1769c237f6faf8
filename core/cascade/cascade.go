// Package cascade implements the "try alternatives, keep the best" pattern
// used at two levels of the pipeline: picking the winning extraction attempt
// for a document, and escalating through recognition strategies only while
// earlier strategies under-produce.
package cascade

// Failure records why one technique did not qualify.
type Failure struct {
	Name   string
	Reason string
}

// Best picks the highest-scoring qualifying item from results. qualify guards
// entry (a failed technique supplies a reason via describe), score orders the
// survivors. The boolean result is false when nothing qualifies; failures then
// describes every technique.
func Best[T any](results []T, name func(T) string, score func(T) int, qualify func(T) (bool, string)) (T, []Failure, bool) {
	var (
		best     T
		bestSet  bool
		failures []Failure
	)
	for _, r := range results {
		ok, reason := qualify(r)
		if !ok {
			failures = append(failures, Failure{Name: name(r), Reason: reason})
			continue
		}
		if !bestSet || score(r) > score(best) {
			best = r
			bestSet = true
		}
	}
	if !bestSet {
		var zero T
		return zero, failures, false
	}
	return best, failures, true
}

// Stage is one escalation step. A stage with Gate > 0 runs only while the
// cumulative item count from earlier stages is below its gate; the first
// stage always runs.
type Stage[T any] struct {
	Name string
	Gate int
	Run  func() []T
}

// Escalate runs stages in order, accumulating their output. It returns the
// combined items and the names of the stages that actually ran.
func Escalate[T any](stages []Stage[T]) (items []T, ran []string) {
	for i, st := range stages {
		if i > 0 && st.Gate > 0 && len(items) >= st.Gate {
			break
		}
		items = append(items, st.Run()...)
		ran = append(ran, st.Name)
	}
	return items, ran
}
