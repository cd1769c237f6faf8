// Package recognize turns acquired text into verse candidates. Three
// strategies run in strict escalation order: precise pattern matching first,
// then contextual line analysis, then intelligent segment scoring as a
// low-precision last resort. Later strategies run only while earlier ones
// under-produce.
package recognize

import (
	"log/slog"

	"github.com/danteata/spiritammo/core/books"
	"github.com/danteata/spiritammo/core/cascade"
	"github.com/danteata/spiritammo/core/verse"
)

// Strategy labels recorded on candidates.
const (
	StrategyPattern     = "pattern"
	StrategyContextual  = "contextual"
	StrategyIntelligent = "intelligent"
)

// Escalation gates: the contextual strategy runs only while fewer than
// contextualGate candidates exist, the intelligent strategy below
// intelligentGate.
const (
	contextualGate  = 10
	intelligentGate = 5
)

// Recognizer runs the strategy cascade against one block of text.
type Recognizer struct {
	canon  *books.Canon
	logger *slog.Logger
}

// New creates a Recognizer over a book canon.
func New(canon *books.Canon, logger *slog.Logger) *Recognizer {
	return &Recognizer{canon: canon, logger: logger}
}

// Recognize extracts verse candidates from text. It returns the candidates in
// discovery order and the names of the strategies that ran. Zero candidates
// is a valid outcome, not an error.
func (r *Recognizer) Recognize(text string) ([]verse.Candidate, []string) {
	stages := []cascade.Stage[verse.Candidate]{
		{Name: StrategyPattern, Run: r.guard(StrategyPattern, r.patternStrategy, text)},
		{Name: StrategyContextual, Gate: contextualGate, Run: r.guard(StrategyContextual, r.contextualStrategy, text)},
		{Name: StrategyIntelligent, Gate: intelligentGate, Run: r.guard(StrategyIntelligent, r.intelligentStrategy, text)},
	}

	candidates, ran := cascade.Escalate(stages)

	r.logger.Info("recognition complete",
		"candidates", len(candidates),
		"strategies", ran)

	return candidates, ran
}

// guard wraps a strategy so that a panic inside it is recorded and skipped
// instead of aborting the cascade.
func (r *Recognizer) guard(name string, strategy func(string) []verse.Candidate, text string) func() []verse.Candidate {
	return func() (out []verse.Candidate) {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Warn("recognition strategy panicked", "strategy", name, "panic", rec)
				out = nil
			}
		}()
		return strategy(text)
	}
}
