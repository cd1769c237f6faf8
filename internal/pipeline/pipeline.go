// Package pipeline orchestrates one extraction run: acquisition, recognition,
// and ranking as a sequential stage pipeline over an immutable document
// buffer. Runs are independent; callers may process many documents
// concurrently with a single Pipeline.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/danteata/spiritammo/core/doc"
	"github.com/danteata/spiritammo/core/verse"
	"github.com/danteata/spiritammo/internal/acquire"
	"github.com/danteata/spiritammo/internal/dedup"
	"github.com/danteata/spiritammo/internal/formats"
	"github.com/danteata/spiritammo/internal/recognize"
)

// LowConfidenceThreshold flags runs whose acquired text scored below the
// ideal floor. The run still completes; the flag tells reviewers to look
// closer.
const LowConfidenceThreshold = 60

// Progress is one event on the run's one-way progress stream. Consumers may
// drop events; emission never blocks the run. VerseCount is set once
// candidates exist, on the analyzing and complete stages.
type Progress struct {
	Stage      string `json:"stage"`
	Percent    int    `json:"percent"`
	Message    string `json:"message"`
	VerseCount int    `json:"verseCount,omitempty"`
}

// Sink receives progress events. A nil sink discards them.
type Sink func(Progress)

// Result is the final outcome of a successful run. Zero candidates is a
// valid result: recognition finding nothing is not an error.
type Result struct {
	Document      doc.Document         `json:"document"`
	Acquired      formats.AcquiredText `json:"acquired"`
	Candidates    []verse.Candidate    `json:"candidates"`
	LowConfidence bool                 `json:"low_confidence"`
	StrategiesRun []string             `json:"strategies_run"`
}

// Pipeline wires the run stages together.
type Pipeline struct {
	acquirer   *acquire.Acquirer
	recognizer *recognize.Recognizer
	logger     *slog.Logger
	sink       Sink
}

// New creates a Pipeline. sink may be nil.
func New(acquirer *acquire.Acquirer, recognizer *recognize.Recognizer, logger *slog.Logger, sink Sink) *Pipeline {
	return &Pipeline{
		acquirer:   acquirer,
		recognizer: recognizer,
		logger:     logger,
		sink:       sink,
	}
}

// Run processes one document. Cancellation is checked between stages only:
// each stage is a pure function over immutable input, so stopping at a stage
// boundary carries no correctness risk.
func (p *Pipeline) Run(ctx context.Context, d *doc.Document) (*Result, error) {
	p.emit(Progress{Stage: "reading", Percent: 10, Message: fmt.Sprintf("reading %s", d.Name)})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.emit(Progress{Stage: "parsing", Percent: 30, Message: fmt.Sprintf("extracting text from %s document", d.Format)})
	acquired, err := p.acquirer.Acquire(ctx, d)
	if err != nil {
		p.logger.Error("acquisition failed", "document", d.Name, "error", err)
		return nil, err
	}
	lowConfidence := acquired.Confidence < LowConfidenceThreshold
	if lowConfidence {
		p.logger.Warn("acquired text below ideal confidence",
			"document", d.Name, "confidence", acquired.Confidence)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.emit(Progress{Stage: "extracting", Percent: 60, Message: "recognizing verse candidates"})
	candidates, ran := p.recognizer.Recognize(acquired.Text)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.emit(Progress{
		Stage:      "analyzing",
		Percent:    85,
		Message:    fmt.Sprintf("ranking %d candidates", len(candidates)),
		VerseCount: len(candidates),
	})
	ranked := dedup.Rank(candidates)
	if len(ranked) == 0 {
		p.logger.Info("no verses found", "document", d.Name, "strategies", ran)
	}

	p.emit(Progress{
		Stage:      "complete",
		Percent:    100,
		Message:    fmt.Sprintf("%d verse candidates", len(ranked)),
		VerseCount: len(ranked),
	})

	return &Result{
		Document:      *d,
		Acquired:      acquired,
		Candidates:    ranked,
		LowConfidence: lowConfidence,
		StrategiesRun: ran,
	}, nil
}

func (p *Pipeline) emit(ev Progress) {
	if p.sink != nil {
		p.sink(ev)
	}
}
