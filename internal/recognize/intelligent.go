package recognize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/danteata/spiritammo/core/confidence"
	"github.com/danteata/spiritammo/core/verse"
)

// Intelligent-scoring thresholds. The strategy is a deliberately
// low-precision last resort: its composite floor is high, its candidates
// never claim a book, and its confidence tops out at 60.
const (
	intelligentScoreFloor    = 60
	intelligentMinChars      = 15
	intelligentMaxChars      = 400
	intelligentMaxConfidence = 60
)

var (
	sentenceBoundaryRe = regexp.MustCompile(`[.!?]+[ \t]*\r?\n|[.!?]+[ \t]+`)
	blankLineRe        = regexp.MustCompile(`\r?\n[ \t]*\r?\n`)
)

// intelligentStrategy segments the text three ways, scores every distinct
// segment, and keeps high scorers as book-less candidates. Verse numbers are
// ordinal positions among the kept segments.
func (r *Recognizer) intelligentStrategy(text string) []verse.Candidate {
	var out []verse.Candidate
	ordinal := 0

	for _, seg := range segmentations(text) {
		if len(seg) < intelligentMinChars || len(seg) > intelligentMaxChars {
			continue
		}
		score := compositeScore(seg)
		if score <= intelligentScoreFloor {
			continue
		}

		ordinal++
		conf := score / 2
		if conf > intelligentMaxConfidence {
			conf = intelligentMaxConfidence
		}

		c := verse.New(verse.UnknownBook, 1, ordinal, seg, conf, "", StrategyIntelligent)
		if validCandidate(c) {
			out = append(out, c)
		}
	}

	return out
}

// segmentations returns the union of three independent segmentations of text
// (sentence boundaries, blank-line paragraphs, double newlines), trimmed and
// deduplicated as strings, in first-seen order.
func segmentations(text string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(parts []string) {
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}

	add(sentenceBoundaryRe.Split(text, -1))
	add(blankLineRe.Split(text, -1))
	add(strings.Split(text, "\n\n"))
	return out
}

// compositeScore combines scripture resemblance with length and structure
// bonuses.
func compositeScore(seg string) int {
	score := confidence.BiblicalContentScore(seg)

	if n := len(seg); n >= 50 && n <= 300 {
		score += 10
	}
	if strings.ContainsAny(seg[len(seg)-1:], ".!?") {
		score += 5
	}
	if first, _ := firstRune(seg); unicode.IsUpper(first) {
		score += 5
	}

	return score
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}
