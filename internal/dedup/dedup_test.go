package dedup

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/danteata/spiritammo/core/verse"
)

func candidate(book string, chapter, verseNum, confidence int, text string) verse.Candidate {
	return verse.Candidate{
		Book:       book,
		Chapter:    chapter,
		Verse:      verseNum,
		Text:       text,
		Reference:  verse.FormatReference(book, chapter, verseNum),
		Confidence: confidence,
	}
}

// TestRankDropsSameReference verifies identical references collapse to the
// earlier candidate regardless of confidence.
func TestRankDropsSameReference(t *testing.T) {
	in := []verse.Candidate{
		candidate("John", 3, 16, 60, "For God so loved the world"),
		candidate("John", 3, 16, 90, "a completely different rendering of the verse text"),
	}

	got := Rank(in)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].Confidence != 60 {
		t.Errorf("kept Confidence = %d, want the earlier candidate (60)", got[0].Confidence)
	}
}

// TestRankDropsNearIdenticalText verifies high text similarity collapses
// candidates with different references.
func TestRankDropsNearIdenticalText(t *testing.T) {
	in := []verse.Candidate{
		candidate("John", 3, 16, 70, "For God so loved the world that he gave his only Son"),
		candidate("Unknown", 1, 1, 40, "For God so loved the world that he gave his only Son"),
	}

	got := Rank(in)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].Book != "John" {
		t.Errorf("kept Book = %q, want the earlier candidate", got[0].Book)
	}
}

// TestRankKeepsDistinctVerses verifies dissimilar candidates all survive and
// come out confidence-sorted.
func TestRankKeepsDistinctVerses(t *testing.T) {
	in := []verse.Candidate{
		candidate("John", 3, 16, 60, "For God so loved the world that he gave his only Son"),
		candidate("Romans", 8, 28, 85, "And we know that all things work together for good"),
		candidate("Psalms", 23, 1, 70, "The LORD is my shepherd I shall not want"),
	}

	got := Rank(in)
	if len(got) != 3 {
		t.Fatalf("got %d candidates, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Confidence < got[i].Confidence {
			t.Errorf("candidates not sorted by confidence: %d before %d",
				got[i-1].Confidence, got[i].Confidence)
		}
	}
	if got[0].Book != "Romans" {
		t.Errorf("top candidate = %q, want Romans", got[0].Book)
	}
}

// TestRankIdempotent verifies ranking an already-ranked set changes nothing.
func TestRankIdempotent(t *testing.T) {
	in := []verse.Candidate{
		candidate("John", 3, 16, 60, "For God so loved the world that he gave his only Son"),
		candidate("Romans", 8, 28, 85, "And we know that all things work together for good"),
	}

	once := Rank(in)
	twice := Rank(once)
	if len(once) != len(twice) {
		t.Fatalf("got %d then %d candidates, want stable", len(once), len(twice))
	}
	for i := range once {
		if once[i].Reference != twice[i].Reference {
			t.Errorf("rank not idempotent at %d: %s vs %s", i, once[i].Reference, twice[i].Reference)
		}
	}
}

// TestRankCollapsesWhitespaceVariants verifies a pile of candidates whose
// texts differ only in trailing whitespace collapses to a single survivor.
func TestRankCollapsesWhitespaceVariants(t *testing.T) {
	var in []verse.Candidate
	for i := 0; i < 50; i++ {
		text := "For God so loved the world that he gave his only Son" + strings.Repeat(" ", i)
		in = append(in, candidate("John", 3, i+1, 40+i%20, text))
	}

	got := Rank(in)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].Verse != 1 {
		t.Errorf("kept Verse = %d, want the first candidate seen", got[0].Verse)
	}
}

// TestRankCapsResult verifies the fixed cap.
func TestRankCapsResult(t *testing.T) {
	var in []verse.Candidate
	for i := 0; i < MaxCandidates+20; i++ {
		in = append(in, candidate("Psalms", 119, i+1, 50,
			fmt.Sprintf("alpha%d bravo%d charlie%d delta%d echo%d foxtrot%d", i, i, i, i, i, i)))
	}

	got := Rank(in)
	if len(got) != MaxCandidates {
		t.Errorf("got %d candidates, want cap %d", len(got), MaxCandidates)
	}
}

// TestSimilaritySymmetric verifies cosine similarity is symmetric and bounded.
func TestSimilaritySymmetric(t *testing.T) {
	a := "For God so loved the world"
	b := "the world God loved so much"

	ab := Similarity(a, b)
	ba := Similarity(b, a)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("Similarity not symmetric: %f vs %f", ab, ba)
	}
	if ab < 0 || ab > 1+1e-9 {
		t.Errorf("Similarity = %f, want within [0,1]", ab)
	}
}

// TestSimilarityIdentical verifies identical texts score 1.
func TestSimilarityIdentical(t *testing.T) {
	if got := Similarity("the quick brown fox", "The Quick Brown Fox"); math.Abs(got-1) > 1e-9 {
		t.Errorf("Similarity = %f, want 1 (case-folded)", got)
	}
}

// TestSimilarityEmptyText verifies zero-magnitude vectors score 0.
func TestSimilarityEmptyText(t *testing.T) {
	if got := Similarity("", "some words here"); got != 0 {
		t.Errorf("Similarity = %f, want 0", got)
	}
}
