// Package txt provides the plain-text format adapter.
package txt

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/ulikunitz/xz"

	"github.com/danteata/spiritammo/core/doc"
	"github.com/danteata/spiritammo/internal/formats"
)

// MethodUTF8 is the direct-read attempt label.
const MethodUTF8 = "txt-utf8"

// directConfidence is fixed at 100: the format carries no ambiguity.
const directConfidence = 100

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
	xzMagic = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}
)

// Adapter reads plain-text documents. xz-compressed payloads are inflated
// transparently before decoding.
type Adapter struct {
	logger *slog.Logger
}

// New creates the TXT adapter.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{logger: logger}
}

// Format implements formats.Adapter.
func (a *Adapter) Format() doc.Format {
	return doc.FormatTXT
}

// Extract implements formats.Adapter. It returns a single attempt: UTF-8
// decoding has no competing technique.
func (a *Adapter) Extract(_ context.Context, data []byte) []formats.Attempt {
	if bytes.HasPrefix(data, xzMagic) {
		inflated, err := inflateXZ(data)
		if err != nil {
			a.logger.Warn("xz payload failed to inflate", "error", err)
			return []formats.Attempt{formats.Failed(MethodUTF8, "xz-compressed payload could not be inflated: "+err.Error())}
		}
		data = inflated
	}

	text := string(bytes.ToValidUTF8(bytes.TrimPrefix(data, utf8BOM), []byte("�")))

	return []formats.Attempt{{
		Method:     MethodUTF8,
		Text:       text,
		Confidence: directConfidence,
		PartCount:  1,
	}}
}

func inflateXZ(data []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
