// Package confidence provides the scoring model shared by every extraction
// stage. All confidence numbers in the pipeline come from this package so that
// scores stay comparable across acquisition techniques and recognition
// strategies.
//
// Scores are heuristic quality values in [0,100], not probabilities. All
// functions are pure and total: they never fail and depend only on their
// input text.
package confidence

import (
	"math"
	"regexp"
	"strings"
)

const (
	// MaxText is the ceiling for TextConfidence.
	MaxText = 95

	// MinVerse and MaxVerse bound VerseConfidence.
	MinVerse = 30
	MaxVerse = 95
)

// biblicalKeywords is the fixed domain keyword list. Matching is
// case-insensitive on whole words.
var biblicalKeywords = []string{
	"god", "lord", "jesus", "christ", "spirit", "holy",
	"faith", "love", "grace", "mercy", "sin", "salvation",
	"heaven", "prayer", "blessed", "righteous", "glory",
	"soul", "eternal", "gospel", "covenant", "kingdom",
	"prophet", "disciples", "temple", "scripture", "angel",
	"amen", "sabbath", "shepherd",
}

var (
	wordRe = regexp.MustCompile(`[A-Za-z']+`)

	// Archaic pronouns and verb forms common in traditional translations.
	archaicPronounRe = regexp.MustCompile(`(?i)\b(thou|thee|thy|thine|ye)\b`)
	archaicVerbRe    = regexp.MustCompile(`(?i)\b(shall|shalt|hath|doth|saith|cometh|unto)\b`)

	// Narrative connectives typical of scripture prose.
	narrativeRe = regexp.MustCompile(`(?i)\b(behold|verily|and it came to pass|thus saith|for this cause)\b`)

	sentencePunctRe = regexp.MustCompile(`[.!?]`)
	quoteRe         = regexp.MustCompile(`["\x{201C}\x{201D}\x{2018}\x{2019}']`)
)

// TextConfidence scores how much a block of text looks like usable prose.
//
// Texts shorter than 20 characters always score 0. Otherwise the score starts
// at 20 and accumulates length, word-density, punctuation, and domain-keyword
// bonuses, clamped to [0,95].
func TextConfidence(text string) int {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 20 {
		return 0
	}

	score := 20
	score += lengthTier(trimmed)

	// Word density: natural prose averages one word per ~5 characters.
	chars := len(trimmed)
	words := len(wordRe.FindAllString(trimmed, -1))
	if chars > 0 {
		density := float64(words) / (float64(chars) / 5.0)
		score += int(math.Min(20, density*20))
	}

	if sentencePunctRe.MatchString(trimmed) {
		score += 15
	}

	// +3 per distinct keyword, capped at +15.
	distinct := 0
	lower := strings.ToLower(trimmed)
	for _, kw := range biblicalKeywords {
		if containsWord(lower, kw) {
			distinct++
		}
	}
	score += min(15, distinct*3)

	return clamp(score, 0, MaxText)
}

// BiblicalContentScore scores how strongly text resembles scripture content.
// The result is unbounded and only meaningful relative to other texts.
func BiblicalContentScore(text string) int {
	if text == "" {
		return 0
	}

	score := 0
	lower := strings.ToLower(text)

	// +5 per keyword occurrence.
	for _, kw := range biblicalKeywords {
		score += 5 * countWord(lower, kw)
	}

	if archaicPronounRe.MatchString(text) {
		score += 10
	}
	if archaicVerbRe.MatchString(text) {
		score += 15
	}
	if narrativeRe.MatchString(text) {
		score += 10
	}
	if quoteRe.MatchString(text) {
		score += 10
	}

	// Sentence-like word count band.
	words := len(wordRe.FindAllString(text, -1))
	if words >= 8 && words <= 50 {
		score += 10
	}

	return score
}

// VerseConfidence scores a recognized verse candidate. bookNormalized reports
// whether the raw book token resolved through a synonym or abbreviation
// (as opposed to an exact canonical match).
//
// The result is always in [30,95].
func VerseConfidence(text string, bookNormalized bool) int {
	trimmed := strings.TrimSpace(text)

	score := MinVerse
	if len(trimmed) >= 20 {
		score += 20 + lengthTier(trimmed)
	}
	score += int(0.3 * float64(BiblicalContentScore(trimmed)))
	if bookNormalized {
		score += 15
	}

	return clamp(score, MinVerse, MaxVerse)
}

// lengthTier returns the single highest length bonus tier for text.
func lengthTier(text string) int {
	switch n := len(text); {
	case n > 500:
		return 30
	case n > 200:
		return 20
	case n > 100:
		return 10
	default:
		return 0
	}
}

// containsWord reports whether lower contains kw as a whole word.
func containsWord(lower, kw string) bool {
	return countWord(lower, kw) > 0
}

// countWord counts whole-word occurrences of kw in lower.
func countWord(lower, kw string) int {
	count := 0
	for i := 0; ; {
		j := strings.Index(lower[i:], kw)
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(kw)
		if (start == 0 || !isWordByte(lower[start-1])) &&
			(end == len(lower) || !isWordByte(lower[end])) {
			count++
		}
		i = end
	}
	return count
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '\''
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
