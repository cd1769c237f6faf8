// Package refparse parses human-written scripture reference strings such as
// "John 3:16", "Gen. 1:1-5", or "1 Cor 13.4" into their book, chapter, and
// verse parts. It performs no book-name validation; callers resolve the book
// token against a canon.
package refparse

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Reference is a parsed scripture reference, possibly spanning a verse or
// chapter range. Nil fields were absent from the input.
type Reference struct {
	Book       string `parser:"@Book"`
	Chapter    *int   `parser:"( @Number"`
	Verse      *int   `parser:"( Colon @Number )?"`
	ChapterEnd *int   `parser:"( Dash ( @Number"`
	VerseEnd   *int   `parser:"    ( Colon @Number )? )? )? )?"`
}

// referenceLexer tokenizes scripture references. Book tokens absorb an
// optional leading ordinal ("1 John") and multi-word names ("Song of Solomon").
var referenceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Book", Pattern: `(?:\d\s*)?[A-Za-z]+(?:\s+(?:of\s+)?[A-Za-z]+)*\.?`},
	{Name: "Number", Pattern: `\d+`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Dash", Pattern: `-`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var referenceParser = participle.MustBuild[Reference](
	participle.Lexer(referenceLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a reference string. Accepted shapes:
//
//	"John 3:16"        book chapter:verse
//	"Jn 3:16"          abbreviated book
//	"John.3.16"        dot separators
//	"John 3:16-17"     verse range
//	"John 3:16-4:2"    cross-chapter range
//	"John 3"           whole chapter
//	"John"             whole book
func Parse(input string) (*Reference, error) {
	normalized := normalizeSeparators(input)

	ref, err := referenceParser.ParseString("", normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reference %q: %w", input, err)
	}

	ref.Book = strings.TrimSpace(strings.TrimSuffix(ref.Book, "."))

	// "John 3:16-17" lexes the 17 into ChapterEnd; when a start verse exists
	// and no end verse does, the number after the dash is the end verse.
	if ref.Verse != nil && ref.ChapterEnd != nil && ref.VerseEnd == nil {
		ref.VerseEnd = ref.ChapterEnd
		ref.ChapterEnd = nil
	}

	return ref, nil
}

// normalizeSeparators rewrites dot separators ("Gen.1.1", "Gen 1.1",
// "John 3.16-17") into the canonical "Gen 1:1" shape before lexing. Each dot
// is classified by its non-space neighbors: between digits it separates
// chapter from verse, after a letter and before a digit it ends the book
// token, anywhere else it stays put.
func normalizeSeparators(input string) string {
	if !strings.Contains(input, ".") {
		return input
	}

	var sb strings.Builder
	sb.Grow(len(input))
	for i := 0; i < len(input); i++ {
		c := input[i]
		if c != '.' {
			sb.WriteByte(c)
			continue
		}
		prev := lastNonSpace(input[:i])
		next := firstNonSpace(input[i+1:])
		switch {
		case isDigit(prev) && isDigit(next):
			sb.WriteByte(':')
		case isLetter(prev) && isDigit(next):
			sb.WriteByte(' ')
		default:
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

func lastNonSpace(s string) byte {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] != ' ' && s[i] != '\t' {
			return s[i]
		}
	}
	return 0
}

func firstNonSpace(s string) byte {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return s[i]
		}
	}
	return 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// ChapterOr returns the start chapter, or def when the reference has none.
func (r *Reference) ChapterOr(def int) int {
	if r.Chapter == nil {
		return def
	}
	return *r.Chapter
}

// VerseOr returns the start verse, or def when the reference has none.
func (r *Reference) VerseOr(def int) int {
	if r.Verse == nil {
		return def
	}
	return *r.Verse
}

// IsRange reports whether the reference spans multiple verses or chapters.
func (r *Reference) IsRange() bool {
	return r.ChapterEnd != nil || r.VerseEnd != nil
}

// String renders the reference in canonical "Book C:V[-V2]" form.
func (r *Reference) String() string {
	var sb strings.Builder
	sb.WriteString(r.Book)
	if r.Chapter == nil {
		return sb.String()
	}
	fmt.Fprintf(&sb, " %d", *r.Chapter)
	if r.Verse != nil {
		fmt.Fprintf(&sb, ":%d", *r.Verse)
	}
	if r.ChapterEnd != nil {
		fmt.Fprintf(&sb, "-%d", *r.ChapterEnd)
		if r.VerseEnd != nil {
			fmt.Fprintf(&sb, ":%d", *r.VerseEnd)
		}
	} else if r.VerseEnd != nil {
		fmt.Fprintf(&sb, "-%d", *r.VerseEnd)
	}
	return sb.String()
}
