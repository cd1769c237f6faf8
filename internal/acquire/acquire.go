// Package acquire turns a document's raw bytes into the single best block of
// extracted text. It runs the document's format adapter, lets every
// sub-technique report an attempt, and picks the highest-confidence attempt
// that clears the minimum text floor.
package acquire

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/danteata/spiritammo/core/cascade"
	"github.com/danteata/spiritammo/core/doc"
	pipeerrors "github.com/danteata/spiritammo/core/errors"
	"github.com/danteata/spiritammo/internal/formats"
)

// MinTextLength is the floor below which an attempt's text is useless for
// verse recognition.
const MinTextLength = 50

// Acquirer picks the winning extraction attempt for a document.
type Acquirer struct {
	registry *formats.Registry
	logger   *slog.Logger
}

// New creates an Acquirer over a format registry.
func New(registry *formats.Registry, logger *slog.Logger) *Acquirer {
	return &Acquirer{registry: registry, logger: logger}
}

// Acquire extracts text from the document. It returns UnsupportedFormatError
// when no adapter covers the format and AcquisitionFailedError, carrying every
// attempt's reason, when no attempt clears the floor.
func (a *Acquirer) Acquire(ctx context.Context, d *doc.Document) (formats.AcquiredText, error) {
	adapter, ok := a.registry.Lookup(d.Format)
	if !ok {
		return formats.AcquiredText{}, pipeerrors.NewUnsupportedFormat(string(d.Format))
	}

	attempts := adapter.Extract(ctx, d.Data)
	for _, at := range attempts {
		a.logger.Debug("extraction attempt",
			"document", d.Name,
			"method", at.Method,
			"chars", len(at.Text),
			"confidence", at.Confidence,
			"error", at.ErrorReason)
	}

	best, failures, ok := cascade.Best(attempts,
		func(at formats.Attempt) string { return at.Method },
		func(at formats.Attempt) int { return at.Confidence },
		qualify,
	)
	if !ok {
		attemptFailures := make([]pipeerrors.AttemptFailure, len(failures))
		for i, f := range failures {
			attemptFailures[i] = pipeerrors.AttemptFailure{Method: f.Name, Reason: f.Reason}
		}
		return formats.AcquiredText{}, pipeerrors.NewAcquisitionFailed(string(d.Format), attemptFailures)
	}

	a.logger.Info("text acquired",
		"document", d.Name,
		"method", best.Method,
		"chars", len(best.Text),
		"confidence", best.Confidence)

	return formats.AcquiredText{Attempt: best, PageOrPartCount: best.PartCount}, nil
}

// qualify admits attempts that succeeded and recovered enough text to be
// worth recognizing.
func qualify(at formats.Attempt) (bool, string) {
	if at.ErrorReason != "" {
		return false, at.ErrorReason
	}
	if len(at.Text) < MinTextLength {
		return false, fmt.Sprintf("recovered only %d characters, need %d", len(at.Text), MinTextLength)
	}
	return true, ""
}
