// Package pdf provides the PDF format adapter. Three independent
// sub-techniques run over the same immutable byte buffer:
//
//   - structured extraction via the pdfcpu object model, grouping positioned
//     text runs into lines
//   - token-stream scraping of BT..ET blocks and string literals from the raw
//     bytes, for files pdfcpu cannot parse
//   - binary salvage of printable runs, a last resort that never fails
//
// All three attempts are returned; the acquisition layer picks the winner.
package pdf

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/danteata/spiritammo/core/doc"
	"github.com/danteata/spiritammo/internal/formats"
)

// Sub-technique method labels.
const (
	MethodStructured  = "pdf-structured"
	MethodTokenStream = "pdf-tokenstream"
	MethodSalvage     = "pdf-salvage"
)

// Adapter extracts text from PDF documents.
type Adapter struct {
	logger *slog.Logger
}

// New creates the PDF adapter.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{logger: logger}
}

// Format implements formats.Adapter.
func (a *Adapter) Format() doc.Format {
	return doc.FormatPDF
}

// Extract implements formats.Adapter. The sub-techniques only read the shared
// buffer, so they run concurrently; a panicking technique is recorded as a
// failed attempt and must not deny the others a chance.
func (a *Adapter) Extract(ctx context.Context, data []byte) []formats.Attempt {
	techniques := []struct {
		method string
		run    func(context.Context, []byte) formats.Attempt
	}{
		{MethodStructured, a.extractStructured},
		{MethodTokenStream, a.extractTokenStream},
		{MethodSalvage, a.extractSalvage},
	}

	attempts := make([]formats.Attempt, len(techniques))
	var wg sync.WaitGroup
	for i, tech := range techniques {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					a.logger.Warn("pdf technique panicked", "method", tech.method, "panic", r)
					attempts[i] = formats.Failed(tech.method, fmt.Sprintf("technique panicked: %v", r))
				}
			}()
			attempts[i] = tech.run(ctx, data)
		}()
	}
	wg.Wait()

	return attempts
}
