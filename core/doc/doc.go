// Package doc defines the Document value handed to the extraction pipeline.
// A Document is immutable once created: the pipeline treats its byte payload
// as a read-only shared buffer for the whole run.
package doc

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/danteata/spiritammo/core/errors"
)

// Format identifies a supported document container format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatEPUB Format = "epub"
	FormatTXT  Format = "txt"
)

// Document is an imported source document. Owned by the caller; the pipeline
// only reads it.
type Document struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Format      Format    `json:"format"`
	SizeBytes   int64     `json:"size_bytes"`
	ContentHash string    `json:"content_hash"`
	CreatedAt   time.Time `json:"created_at"`

	// Data is the raw document payload. Never mutated after New.
	Data []byte `json:"-"`
}

// New creates a Document with a fresh identity and a BLAKE3 content hash.
func New(name string, format Format, data []byte) *Document {
	sum := blake3.Sum256(data)
	return &Document{
		ID:          uuid.New().String(),
		Name:        name,
		Format:      format,
		SizeBytes:   int64(len(data)),
		ContentHash: hex.EncodeToString(sum[:]),
		CreatedAt:   time.Now().UTC(),
		Data:        data,
	}
}

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04")
	xzMagic  = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}
	epubMime = []byte("application/epub+zip")
)

// DetectFormat determines the document format from the filename extension,
// falling back to magic-byte sniffing. Unknown formats are a hard error; the
// pipeline never cascades across formats.
func DetectFormat(filename string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, nil
	case ".epub":
		return FormatEPUB, nil
	case ".txt", ".text":
		return FormatTXT, nil
	}

	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return FormatPDF, nil
	case bytes.HasPrefix(data, zipMagic) && bytes.Contains(data[:minInt(len(data), 512)], epubMime):
		return FormatEPUB, nil
	case bytes.HasPrefix(data, xzMagic):
		// xz-compressed plain text is handled by the TXT adapter.
		return FormatTXT, nil
	case utf8.Valid(data) && len(data) > 0:
		return FormatTXT, nil
	}

	return "", errors.NewUnsupportedFormat(fmt.Sprintf("%q", filepath.Ext(filename)))
}

// ParseFormat validates a user-declared format label.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatEPUB:
		return FormatEPUB, nil
	case FormatTXT:
		return FormatTXT, nil
	}
	return "", errors.NewUnsupportedFormat(s)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
