package recognize

import (
	"regexp"
	"strings"

	"github.com/danteata/spiritammo/core/confidence"
	"github.com/danteata/spiritammo/core/refparse"
	"github.com/danteata/spiritammo/core/verse"
)

// A line must exceed contextualScoreFloor to trigger the look-around; the
// window spans contextualLineRadius lines either side.
const (
	contextualScoreFloor    = 40
	contextualLineRadius    = 2
	contextualMaxConfidence = 80
)

// referenceShapeRe finds any reference-shaped fragment inside the look-around
// window.
var referenceShapeRe = regexp.MustCompile(bookToken + `[ \t]+\d{1,3}[:.]\d{1,3}(?:-\d{1,3})?`)

// contextualStrategy scans line by line. A line that scores as scripture
// prose becomes a candidate when a reference shape appears within two lines
// of it; the line itself is the candidate text, not the window.
func (r *Recognizer) contextualStrategy(text string) []verse.Candidate {
	lines := strings.Split(text, "\n")
	var out []verse.Candidate

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		score := confidence.BiblicalContentScore(trimmed)
		if score <= contextualScoreFloor {
			continue
		}

		lo := i - contextualLineRadius
		if lo < 0 {
			lo = 0
		}
		hi := i + contextualLineRadius + 1
		if hi > len(lines) {
			hi = len(lines)
		}
		window := strings.Join(lines[lo:hi], "\n")

		refStr := referenceShapeRe.FindString(window)
		if refStr == "" {
			continue
		}
		ref, err := refparse.Parse(refStr)
		if err != nil {
			continue
		}
		canonical, _, ok := r.canon.Resolve(ref.Book)
		if !ok {
			continue
		}

		conf := score + 10
		if conf > contextualMaxConfidence {
			conf = contextualMaxConfidence
		}

		c := verse.New(canonical, ref.ChapterOr(1), ref.VerseOr(1),
			cleanCandidateText(trimmed), conf, strings.TrimSpace(window), StrategyContextual)
		if validCandidate(c) {
			out = append(out, c)
		}
	}

	return out
}
