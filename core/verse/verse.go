// Package verse defines the candidate records produced by the recognition
// strategies and their conversion for the persistence handoff.
package verse

import (
	"fmt"

	"github.com/google/uuid"
)

// UnknownBook labels candidates whose book could not be recognized. Only the
// intelligent-scoring strategy produces these.
const UnknownBook = "Unknown"

// Candidate is an unverified, machine-proposed scripture verse awaiting human
// confirmation. Candidates are value objects: produced fresh per run, never
// mutated after creation.
type Candidate struct {
	ID             string `json:"id"`
	Book           string `json:"book"`
	Chapter        int    `json:"chapter"`
	Verse          int    `json:"verse"`
	Text           string `json:"text"`
	Reference      string `json:"reference"`
	Confidence     int    `json:"confidence"`
	Context        string `json:"context,omitempty"`
	SourceStrategy string `json:"source_strategy"`
}

// New creates a Candidate with a fresh identity and a rendered reference.
func New(book string, chapter, verseNum int, text string, confidence int, context, strategy string) Candidate {
	return Candidate{
		ID:             uuid.New().String(),
		Book:           book,
		Chapter:        chapter,
		Verse:          verseNum,
		Text:           text,
		Reference:      FormatReference(book, chapter, verseNum),
		Confidence:     confidence,
		Context:        context,
		SourceStrategy: strategy,
	}
}

// FormatReference renders the human reference string, e.g. "John 3:16".
func FormatReference(book string, chapter, verse int) string {
	return fmt.Sprintf("%s %d:%d", book, chapter, verse)
}

// ImportableRecord is the shape handed to the persistence collaborator, which
// owns its own ID scheme and storage format.
type ImportableRecord struct {
	Book       string `json:"book"`
	Chapter    int    `json:"chapter"`
	Verse      int    `json:"verse"`
	Text       string `json:"text"`
	Reference  string `json:"reference"`
	Confidence int    `json:"confidence"`
}

// ToImportableRecord converts a candidate for the persistence handoff. Pure:
// the candidate is not modified.
func ToImportableRecord(c Candidate) ImportableRecord {
	return ImportableRecord{
		Book:       c.Book,
		Chapter:    c.Chapter,
		Verse:      c.Verse,
		Text:       c.Text,
		Reference:  c.Reference,
		Confidence: c.Confidence,
	}
}
