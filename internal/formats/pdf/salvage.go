package pdf

import (
	"context"
	"strings"
	"unicode"

	"github.com/danteata/spiritammo/core/confidence"
	"github.com/danteata/spiritammo/internal/formats"
)

// Salvage token filter: runs shorter than this, or without a letter, are
// structural noise (object numbers, operator soup) rather than words.
const minSalvageToken = 3

// halveDivisor halves the text-quality score: salvage output is word salad at
// best and the acquisition cascade should prefer any other technique.
const halveDivisor = 2

// extractSalvage sweeps the raw bytes for printable runs and keeps tokens
// that look like words. It cannot fail, but its confidence is halved so it
// only wins when everything else comes back empty.
func (a *Adapter) extractSalvage(_ context.Context, data []byte) formats.Attempt {
	var (
		sb  strings.Builder
		run []byte
	)
	flush := func() {
		if len(run) == 0 {
			return
		}
		for _, tok := range strings.Fields(string(run)) {
			if keepSalvageToken(tok) {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(tok)
			}
		}
		run = run[:0]
	}

	for _, b := range data {
		if b >= 0x20 && b < 0x7F {
			run = append(run, b)
		} else {
			flush()
		}
	}
	flush()

	text := sb.String()
	return formats.Attempt{
		Method:     MethodSalvage,
		Text:       text,
		Confidence: confidence.TextConfidence(text) / halveDivisor,
	}
}

// keepSalvageToken reports whether a whitespace-delimited token plausibly is
// a word: long enough and containing at least one letter.
func keepSalvageToken(tok string) bool {
	if len(tok) < minSalvageToken {
		return false
	}
	for _, r := range tok {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
