package pdf

import (
	"bytes"
	"context"
	"strings"
	"unicode"

	"github.com/danteata/spiritammo/core/confidence"
	"github.com/danteata/spiritammo/internal/formats"
)

// minPrintableRatio rejects text-block candidates that are mostly binary
// noise, which happens when a BT..ET window lands inside a compressed stream.
const minPrintableRatio = 0.7

var (
	btMarker = []byte("BT")
	etMarker = []byte("ET")
)

// extractTokenStream scrapes text operators out of the raw bytes without
// parsing the PDF object model. It recovers text from files whose xref table
// or object structure is too damaged for structured extraction, as long as
// the content streams themselves are stored uncompressed.
func (a *Adapter) extractTokenStream(ctx context.Context, data []byte) formats.Attempt {
	var blocks []string
	count := 0
	for pos := 0; pos < len(data); {
		if ctx.Err() != nil {
			break
		}
		start := indexMarker(data, btMarker, pos)
		if start < 0 {
			break
		}
		end := indexMarker(data, etMarker, start+len(btMarker))
		if end < 0 {
			break
		}
		count++
		if block := scrapeTextBlock(data[start+len(btMarker) : end]); block != "" {
			blocks = append(blocks, block)
		}
		pos = end + len(etMarker)
	}

	// No text blocks in the raw bytes: fall back to bare string literals,
	// which some generators emit outside BT..ET.
	if len(blocks) == 0 {
		if lit := scrapeStringLiterals(data); lit != "" {
			blocks = append(blocks, lit)
		}
	}

	text := strings.TrimSpace(strings.Join(blocks, "\n"))
	if text == "" {
		return formats.Failed(MethodTokenStream, "no readable text operators in raw byte stream")
	}

	return formats.Attempt{
		Method:     MethodTokenStream,
		Text:       text,
		Confidence: confidence.TextConfidence(text),
		PartCount:  count,
	}
}

// indexMarker finds the next occurrence of marker at or after pos that is
// delimited on both sides, so that e.g. "OBT" or "BTx" never match.
func indexMarker(data, marker []byte, pos int) int {
	for pos < len(data) {
		i := bytes.Index(data[pos:], marker)
		if i < 0 {
			return -1
		}
		i += pos
		beforeOK := i == 0 || isPDFWhitespace(data[i-1]) || isPDFDelimiter(data[i-1])
		after := i + len(marker)
		afterOK := after >= len(data) || isPDFWhitespace(data[after]) || isPDFDelimiter(data[after])
		if beforeOK && afterOK {
			return i
		}
		pos = i + len(marker)
	}
	return -1
}

// scrapeTextBlock decodes the string literals of one BT..ET window, joining
// consecutive show-text strings with spaces. Windows that decode to mostly
// unprintable bytes are discarded.
func scrapeTextBlock(block []byte) string {
	var parts []string
	tok := newTokenizer(block)
	for {
		t, ok := tok.next()
		if !ok {
			break
		}
		if t.kind != tokString {
			continue
		}
		if s := strings.TrimSpace(t.str); s != "" {
			parts = append(parts, s)
		}
	}
	joined := strings.Join(parts, " ")
	if printableRatio(joined) < minPrintableRatio {
		return ""
	}
	return joined
}

// scrapeStringLiterals pulls every parenthesized literal out of the buffer,
// keeping only ones that look like prose.
func scrapeStringLiterals(data []byte) string {
	var parts []string
	for i := 0; i < len(data); i++ {
		if data[i] != '(' {
			continue
		}
		s, n := decodeLiteralString(data[i:])
		if n == 0 {
			continue
		}
		i += n - 1
		s = strings.TrimSpace(s)
		if len(s) >= 3 && printableRatio(s) >= minPrintableRatio {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func printableRatio(s string) float64 {
	if s == "" {
		return 0
	}
	printable := 0
	total := 0
	for _, r := range s {
		total++
		if unicode.IsPrint(r) || r == '\n' || r == '\t' {
			printable++
		}
	}
	return float64(printable) / float64(total)
}
