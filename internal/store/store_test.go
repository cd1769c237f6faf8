package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/danteata/spiritammo/core/verse"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "scriptures.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecords() []verse.ImportableRecord {
	return []verse.ImportableRecord{
		{Book: "John", Chapter: 3, Verse: 16, Text: "For God so loved the world", Reference: "John 3:16", Confidence: 75},
		{Book: "John", Chapter: 3, Verse: 17, Text: "For God sent not his Son to condemn", Reference: "John 3:17", Confidence: 70},
		{Book: "Romans", Chapter: 8, Verse: 28, Text: "All things work together for good", Reference: "Romans 8:28", Confidence: 80},
	}
}

// TestSaveAndListByBook verifies round-tripping records through the store.
func TestSaveAndListByBook(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	inserted, err := s.Save(ctx, "input.pdf", sampleRecords())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if inserted != 3 {
		t.Errorf("inserted = %d, want 3", inserted)
	}

	got, err := s.ByBook(ctx, "John")
	if err != nil {
		t.Fatalf("ByBook failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d John records, want 2", len(got))
	}
	if got[0].Verse != 16 || got[1].Verse != 17 {
		t.Errorf("verses = %d,%d, want chapter/verse order 16,17", got[0].Verse, got[1].Verse)
	}
	if got[0].Text != "For God so loved the world" {
		t.Errorf("Text = %q, round trip corrupted", got[0].Text)
	}
}

// TestSaveIgnoresDuplicates verifies re-importing the same records inserts
// nothing new.
func TestSaveIgnoresDuplicates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Save(ctx, "input.pdf", sampleRecords()); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	inserted, err := s.Save(ctx, "input.pdf", sampleRecords())
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if inserted != 0 {
		t.Errorf("second Save inserted %d, want 0", inserted)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}
}

// TestCountEmpty verifies a fresh store reports zero records.
func TestCountEmpty(t *testing.T) {
	s := openTestStore(t)

	n, err := s.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Count = %d, want 0", n)
	}
}
