package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/danteata/spiritammo/core/books"
	"github.com/danteata/spiritammo/core/doc"
	pipeerrors "github.com/danteata/spiritammo/core/errors"
	"github.com/danteata/spiritammo/internal/acquire"
	"github.com/danteata/spiritammo/internal/formats"
	"github.com/danteata/spiritammo/internal/recognize"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubAdapter returns one canned attempt per Extract call.
type stubAdapter struct {
	format  doc.Format
	attempt formats.Attempt
}

func (s *stubAdapter) Format() doc.Format { return s.format }

func (s *stubAdapter) Extract(context.Context, []byte) []formats.Attempt {
	return []formats.Attempt{s.attempt}
}

func newPipeline(attempt formats.Attempt, sink Sink) *Pipeline {
	logger := discardLogger()
	registry := formats.NewRegistry(&stubAdapter{format: doc.FormatTXT, attempt: attempt})
	return New(
		acquire.New(registry, logger),
		recognize.New(books.Standard(), logger),
		logger,
		sink,
	)
}

func txtDocument() *doc.Document {
	return &doc.Document{Name: "input.txt", Format: doc.FormatTXT}
}

const verseText = "John 3:16 For God so loved the world, that he gave his only begotten Son, that whosoever believeth in him should not perish, but have everlasting life."

// TestRunProducesCandidates verifies the happy path end to end.
func TestRunProducesCandidates(t *testing.T) {
	p := newPipeline(formats.Attempt{Method: "txt-utf8", Text: verseText, Confidence: 100}, nil)

	result, err := p.Run(context.Background(), txtDocument())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Candidates) == 0 {
		t.Fatal("got no candidates")
	}
	if result.Candidates[0].Reference != "John 3:16" {
		t.Errorf("top Reference = %q, want John 3:16", result.Candidates[0].Reference)
	}
	if result.LowConfidence {
		t.Error("LowConfidence set for a confidence-100 acquisition")
	}
	if len(result.StrategiesRun) == 0 || result.StrategiesRun[0] != recognize.StrategyPattern {
		t.Errorf("StrategiesRun = %v, want pattern first", result.StrategiesRun)
	}
}

// TestRunEmitsOrderedProgress verifies the progress stream covers every stage
// in order with monotonic percentages.
func TestRunEmitsOrderedProgress(t *testing.T) {
	var events []Progress
	p := newPipeline(formats.Attempt{Method: "txt-utf8", Text: verseText, Confidence: 100},
		func(ev Progress) { events = append(events, ev) })

	result, err := p.Run(context.Background(), txtDocument())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantStages := []string{"reading", "parsing", "extracting", "analyzing", "complete"}
	if len(events) != len(wantStages) {
		t.Fatalf("got %d events, want %d", len(events), len(wantStages))
	}
	for i, want := range wantStages {
		if events[i].Stage != want {
			t.Errorf("event %d stage = %q, want %q", i, events[i].Stage, want)
		}
		if i > 0 && events[i].Percent <= events[i-1].Percent {
			t.Errorf("percent not increasing at %d: %d then %d", i, events[i-1].Percent, events[i].Percent)
		}
	}
	if events[len(events)-1].Percent != 100 {
		t.Errorf("final percent = %d, want 100", events[len(events)-1].Percent)
	}
	if got := events[len(events)-1].VerseCount; got != len(result.Candidates) {
		t.Errorf("final VerseCount = %d, want %d", got, len(result.Candidates))
	}
	if events[0].VerseCount != 0 {
		t.Errorf("reading VerseCount = %d, want 0 before recognition", events[0].VerseCount)
	}
}

// TestRunFlagsLowConfidence verifies a sub-threshold acquisition completes
// but is flagged.
func TestRunFlagsLowConfidence(t *testing.T) {
	p := newPipeline(formats.Attempt{Method: "txt-utf8", Text: verseText, Confidence: 45}, nil)

	result, err := p.Run(context.Background(), txtDocument())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.LowConfidence {
		t.Error("LowConfidence not set for confidence-45 acquisition")
	}
	if len(result.Candidates) == 0 {
		t.Error("low-confidence run should still produce candidates")
	}
}

// TestRunEmptyResultWhenNoVerses verifies zero recognized verses is an empty
// result, not an error.
func TestRunEmptyResultWhenNoVerses(t *testing.T) {
	plain := strings.Repeat("An ordinary sentence about gardening and weather patterns. ", 3)
	p := newPipeline(formats.Attempt{Method: "txt-utf8", Text: plain, Confidence: 100}, nil)

	result, err := p.Run(context.Background(), txtDocument())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Candidates) != 0 {
		t.Errorf("got %d candidates from plain prose, want 0", len(result.Candidates))
	}
}

// TestRunPropagatesAcquisitionFailure verifies a total cascade failure is a
// hard error.
func TestRunPropagatesAcquisitionFailure(t *testing.T) {
	p := newPipeline(formats.Failed("txt-utf8", "undecodable payload"), nil)

	_, err := p.Run(context.Background(), txtDocument())
	if !errors.Is(err, pipeerrors.ErrAcquisitionFailed) {
		t.Errorf("err = %v, want ErrAcquisitionFailed", err)
	}
}

// TestRunHonorsCancellation verifies a cancelled context stops the run at a
// stage boundary.
func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newPipeline(formats.Attempt{Method: "txt-utf8", Text: verseText, Confidence: 100}, nil)
	_, err := p.Run(ctx, txtDocument())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
