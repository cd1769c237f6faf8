package recognize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/danteata/spiritammo/core/confidence"
	"github.com/danteata/spiritammo/core/refparse"
	"github.com/danteata/spiritammo/core/verse"
)

// maxContextRadius bounds the surrounding-text window stored on a candidate
// to roughly 300 characters.
const maxContextRadius = 150

// bookToken matches a book name in running text: optional ordinal prefix,
// capitalized word, optional abbreviation period, optional "of X" tail
// ("Song of Solomon").
const bookToken = `(?:[1-3][ \t]+)?[A-Z][A-Za-z]+\.?(?:[ \t]+(?:of[ \t]+)?[A-Z][A-Za-z]+)?`

// refPattern is one reference shape. Every pattern uses the same named
// capture groups — book/chapter/verse for inline shapes, ref for shapes whose
// reference needs full parsing — so adding a shape never requires editing
// extraction logic.
type refPattern struct {
	name string
	re   *regexp.Regexp
}

var refPatterns = []refPattern{
	// John 3:16 For God so loved the world...
	{"book-colon", regexp.MustCompile(`(?m)^[ \t]*(?P<book>` + bookToken + `)[ \t]+(?P<chapter>\d{1,3}):(?P<verse>\d{1,3})(?:-\d{1,3}(?::\d{1,3})?)?[ \t]+(?P<text>[^\n]+)`)},
	// John 3.16 or John 3-16 with the same trailing text.
	{"book-period-dash", regexp.MustCompile(`(?m)^[ \t]*(?P<book>` + bookToken + `)[ \t]+(?P<chapter>\d{1,3})[.-](?P<verse>\d{1,3})[ \t]+(?P<text>[^\n]+)`)},
	// Reference on its own line, verse text on the next.
	{"ref-then-text", regexp.MustCompile(`(?m)^[ \t]*(?P<ref>` + bookToken + `[ \t]+\d{1,3}[:.]\d{1,3}(?:-\d{1,3})?)[ \t]*\r?\n[ \t]*(?P<text>[^\n]+)`)},
	// 16) For God so loved the world... (John 3:16)
	{"verse-first-paren", regexp.MustCompile(`(?m)^[ \t]*\d{1,3}[.)][ \t]*(?P<text>[^\n()]+?)[ \t]*\((?P<ref>` + bookToken + `[ \t]+\d{1,3}[:.]\d{1,3}(?:-\d{1,3})?)\)`)},
	// For God so loved the world... (John 3:16)
	{"text-paren-ref", regexp.MustCompile(`(?m)(?P<text>[^\n()]{10,}?)[ \t]*\((?P<ref>` + bookToken + `[ \t]+\d{1,3}[:.]\d{1,3}(?:-\d{1,3})?)\)`)},
}

// patternStrategy applies the ordered reference-shape patterns. Matches with
// book tokens that do not resolve against the canon are rejected outright.
func (r *Recognizer) patternStrategy(text string) []verse.Candidate {
	var out []verse.Candidate
	seen := make(map[string]bool)

	for _, p := range refPatterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			groups := captureGroups(p.re, text, m)

			book, chapter, verseNum, ok := resolveGroups(groups)
			if !ok {
				continue
			}
			canonical, normalized, ok := r.canon.Resolve(book)
			if !ok {
				continue
			}

			body := cleanCandidateText(groups["text"])
			key := canonical + "|" + strconv.Itoa(chapter) + "|" + strconv.Itoa(verseNum) + "|" + body
			if seen[key] {
				continue
			}
			seen[key] = true

			c := verse.New(canonical, chapter, verseNum, body,
				confidence.VerseConfidence(body, normalized),
				contextWindow(text, m[0], m[1]),
				StrategyPattern)
			if validCandidate(c) {
				out = append(out, c)
			}
		}
	}

	return out
}

// captureGroups maps the pattern's named groups to their matched text.
func captureGroups(re *regexp.Regexp, text string, m []int) map[string]string {
	groups := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name == "" || 2*i >= len(m) || m[2*i] < 0 {
			continue
		}
		groups[name] = text[m[2*i]:m[2*i+1]]
	}
	return groups
}

// resolveGroups extracts book/chapter/verse either from inline groups or by
// parsing a combined ref group.
func resolveGroups(groups map[string]string) (book string, chapter, verseNum int, ok bool) {
	if refStr, found := groups["ref"]; found {
		ref, err := refparse.Parse(refStr)
		if err != nil || ref.Chapter == nil {
			return "", 0, 0, false
		}
		return ref.Book, ref.ChapterOr(1), ref.VerseOr(1), true
	}

	chapter, err := strconv.Atoi(groups["chapter"])
	if err != nil {
		return "", 0, 0, false
	}
	verseNum, err = strconv.Atoi(groups["verse"])
	if err != nil {
		return "", 0, 0, false
	}
	return groups["book"], chapter, verseNum, true
}

// cleanCandidateText trims the candidate body: whitespace, then leading
// characters before the first letter or digit, then trailing characters that
// are neither word characters nor closing sentence punctuation.
func cleanCandidateText(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	s = strings.TrimRightFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune(`.!?"'`, r)
	})
	return s
}

// contextWindow returns up to maxContextRadius characters either side of the
// match, snapped to rune boundaries.
func contextWindow(text string, start, end int) string {
	lo := start - maxContextRadius
	if lo < 0 {
		lo = 0
	}
	hi := end + maxContextRadius
	if hi > len(text) {
		hi = len(text)
	}
	for lo > 0 && !utf8.RuneStart(text[lo]) {
		lo--
	}
	for hi < len(text) && !utf8.RuneStart(text[hi]) {
		hi++
	}
	return strings.TrimSpace(text[lo:hi])
}
