package doc

import (
	"testing"

	"github.com/danteata/spiritammo/core/errors"
)

// TestNewDocument verifies identity, size, and content hashing.
func TestNewDocument(t *testing.T) {
	data := []byte("In the beginning God created the heavens and the earth.")
	d := New("genesis.txt", FormatTXT, data)

	if d.ID == "" {
		t.Error("ID is empty")
	}
	if d.SizeBytes != int64(len(data)) {
		t.Errorf("SizeBytes = %d, want %d", d.SizeBytes, len(data))
	}
	if len(d.ContentHash) != 64 {
		t.Errorf("ContentHash length = %d, want 64 hex chars", len(d.ContentHash))
	}

	same := New("copy.txt", FormatTXT, data)
	if same.ContentHash != d.ContentHash {
		t.Error("identical payloads produced different content hashes")
	}
	if same.ID == d.ID {
		t.Error("distinct documents share an ID")
	}
}

// TestDetectFormatByExtension verifies extension-based detection.
func TestDetectFormatByExtension(t *testing.T) {
	cases := []struct {
		name string
		want Format
	}{
		{"bible.pdf", FormatPDF},
		{"bible.epub", FormatEPUB},
		{"bible.txt", FormatTXT},
		{"BIBLE.TXT", FormatTXT},
	}
	for _, c := range cases {
		got, err := DetectFormat(c.name, nil)
		if err != nil {
			t.Errorf("DetectFormat(%q) failed: %v", c.name, err)
			continue
		}
		if got != c.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

// TestDetectFormatByMagic verifies magic-byte sniffing for unnamed payloads.
func TestDetectFormatByMagic(t *testing.T) {
	pdf := []byte("%PDF-1.7\nrest of file")
	if got, err := DetectFormat("upload", pdf); err != nil || got != FormatPDF {
		t.Errorf("PDF magic: got %q, %v", got, err)
	}

	epub := append([]byte("PK\x03\x04........mimetype"), []byte("application/epub+zip")...)
	if got, err := DetectFormat("upload", epub); err != nil || got != FormatEPUB {
		t.Errorf("EPUB magic: got %q, %v", got, err)
	}

	if got, err := DetectFormat("upload", []byte("plain readable text")); err != nil || got != FormatTXT {
		t.Errorf("UTF-8 fallback: got %q, %v", got, err)
	}
}

// TestDetectFormatUnsupported verifies unknown payloads fail with the
// taxonomy sentinel.
func TestDetectFormatUnsupported(t *testing.T) {
	binary := []byte{0x00, 0xFF, 0xFE, 0x00, 0x80}
	_, err := DetectFormat("upload.bin", binary)
	if err == nil {
		t.Fatal("DetectFormat succeeded on binary garbage")
	}
	if !errors.Is(err, errors.ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}

// TestParseFormat verifies declared-format validation.
func TestParseFormat(t *testing.T) {
	if got, err := ParseFormat("PDF"); err != nil || got != FormatPDF {
		t.Errorf("ParseFormat(PDF) = %q, %v", got, err)
	}
	if _, err := ParseFormat("docx"); err == nil {
		t.Error("ParseFormat(docx) succeeded, want error")
	}
}
