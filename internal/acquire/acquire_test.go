package acquire

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/danteata/spiritammo/core/doc"
	pipeerrors "github.com/danteata/spiritammo/core/errors"
	"github.com/danteata/spiritammo/internal/formats"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubAdapter returns canned attempts for a format.
type stubAdapter struct {
	format   doc.Format
	attempts []formats.Attempt
}

func (s *stubAdapter) Format() doc.Format { return s.format }

func (s *stubAdapter) Extract(context.Context, []byte) []formats.Attempt {
	return s.attempts
}

func longText(prefix string) string {
	return prefix + strings.Repeat(" and so it continued through the chapter", 3)
}

// TestAcquirePicksHighestConfidence verifies the winner is the best-scoring
// qualifying attempt, not the first.
func TestAcquirePicksHighestConfidence(t *testing.T) {
	adapter := &stubAdapter{format: doc.FormatPDF, attempts: []formats.Attempt{
		{Method: "pdf-salvage", Text: longText("salvaged"), Confidence: 20},
		{Method: "pdf-structured", Text: longText("structured"), Confidence: 80, PartCount: 3},
		{Method: "pdf-tokenstream", Text: longText("scraped"), Confidence: 55},
	}}
	a := New(formats.NewRegistry(adapter), discardLogger())

	got, err := a.Acquire(context.Background(), &doc.Document{Name: "x.pdf", Format: doc.FormatPDF})
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if got.Method != "pdf-structured" {
		t.Errorf("Method = %q, want pdf-structured", got.Method)
	}
	if got.PageOrPartCount != 3 {
		t.Errorf("PageOrPartCount = %d, want 3", got.PageOrPartCount)
	}
}

// TestAcquireSkipsShortAttempts verifies an attempt below the text floor
// loses to a qualifying one even at higher confidence.
func TestAcquireSkipsShortAttempts(t *testing.T) {
	adapter := &stubAdapter{format: doc.FormatTXT, attempts: []formats.Attempt{
		{Method: "txt-utf8", Text: "too short", Confidence: 100},
		{Method: "fallback", Text: longText("recovered"), Confidence: 40},
	}}
	a := New(formats.NewRegistry(adapter), discardLogger())

	got, err := a.Acquire(context.Background(), &doc.Document{Name: "x.txt", Format: doc.FormatTXT})
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if got.Method != "fallback" {
		t.Errorf("Method = %q, want fallback", got.Method)
	}
}

// TestAcquireFailureListsEveryAttempt verifies the acquisition error names
// each technique and its reason.
func TestAcquireFailureListsEveryAttempt(t *testing.T) {
	adapter := &stubAdapter{format: doc.FormatPDF, attempts: []formats.Attempt{
		formats.Failed("pdf-structured", "pdfcpu read: broken xref"),
		{Method: "pdf-salvage", Text: "tiny", Confidence: 5},
	}}
	a := New(formats.NewRegistry(adapter), discardLogger())

	_, err := a.Acquire(context.Background(), &doc.Document{Name: "x.pdf", Format: doc.FormatPDF})
	if err == nil {
		t.Fatal("Acquire succeeded, want failure")
	}
	if !errors.Is(err, pipeerrors.ErrAcquisitionFailed) {
		t.Errorf("err = %v, want ErrAcquisitionFailed", err)
	}

	var acqErr *pipeerrors.AcquisitionFailedError
	if !errors.As(err, &acqErr) {
		t.Fatalf("err type = %T, want *AcquisitionFailedError", err)
	}
	if len(acqErr.Attempts) != 2 {
		t.Fatalf("got %d attempt failures, want 2", len(acqErr.Attempts))
	}
	if !strings.Contains(err.Error(), "broken xref") {
		t.Errorf("error text %q missing technique reason", err.Error())
	}
	if !strings.Contains(err.Error(), "pdf-salvage") {
		t.Errorf("error text %q missing technique name", err.Error())
	}
}

// TestAcquireUnsupportedFormat verifies an unregistered format fails before
// any extraction runs.
func TestAcquireUnsupportedFormat(t *testing.T) {
	a := New(formats.NewRegistry(), discardLogger())

	_, err := a.Acquire(context.Background(), &doc.Document{Name: "x.epub", Format: doc.FormatEPUB})
	if !errors.Is(err, pipeerrors.ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}
