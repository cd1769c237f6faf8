// Package formats defines the extraction attempt types and the adapter
// registry. One adapter exists per supported container format; each returns
// every sub-technique's attempt rather than a single best guess, and the
// acquisition layer picks the winner.
package formats

import (
	"context"

	"github.com/danteata/spiritammo/core/doc"
)

// Attempt is the result of one extraction technique run. Attempts are
// ephemeral: created and consumed within a single pipeline run.
type Attempt struct {
	// Method identifies the technique, e.g. "pdf-tokenstream".
	Method string `json:"method"`
	// Text is the recovered text; empty when the technique failed.
	Text string `json:"text"`
	// Confidence is the technique's 0-100 quality estimate for Text.
	Confidence int `json:"confidence"`
	// ErrorReason describes a technique failure. A failing technique never
	// aborts the cascade; it is recorded here instead.
	ErrorReason string `json:"error_reason,omitempty"`
	// PartCount is the number of pages or container parts that contributed,
	// where the technique knows it.
	PartCount int `json:"part_count,omitempty"`
}

// Failed creates a failed attempt for a technique.
func Failed(method, reason string) Attempt {
	return Attempt{Method: method, ErrorReason: reason}
}

// AcquiredText is the winning attempt for a document, annotated with the
// page/part count where known.
type AcquiredText struct {
	Attempt
	// PageOrPartCount mirrors the winning attempt's PartCount.
	PageOrPartCount int `json:"page_or_part_count,omitempty"`
}

// Adapter extracts raw text from one container format. Extract never returns
// an error: technique failures are reported as failed attempts so that one
// failing technique cannot deny the others a chance. Implementations must
// treat data as read-only.
type Adapter interface {
	Format() doc.Format
	Extract(ctx context.Context, data []byte) []Attempt
}

// Registry maps formats to their adapters.
type Registry struct {
	adapters map[doc.Format]Adapter
}

// NewRegistry creates a registry from the given adapters. Later adapters for
// the same format override earlier ones.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[doc.Format]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Format()] = a
	}
	return r
}

// Lookup returns the adapter for a format.
func (r *Registry) Lookup(format doc.Format) (Adapter, bool) {
	a, ok := r.adapters[format]
	return a, ok
}

// Formats returns the registered formats.
func (r *Registry) Formats() []doc.Format {
	out := make([]doc.Format, 0, len(r.adapters))
	for f := range r.adapters {
		out = append(out, f)
	}
	return out
}
