package verse

import "testing"

// TestNewCandidate verifies identity and reference rendering.
func TestNewCandidate(t *testing.T) {
	c := New("John", 3, 16, "For God so loved the world.", 80, "ctx", "pattern")

	if c.ID == "" {
		t.Error("ID is empty")
	}
	if c.Reference != "John 3:16" {
		t.Errorf("Reference = %q, want %q", c.Reference, "John 3:16")
	}
	if c.SourceStrategy != "pattern" {
		t.Errorf("SourceStrategy = %q, want pattern", c.SourceStrategy)
	}

	other := New("John", 3, 16, "same", 80, "", "pattern")
	if other.ID == c.ID {
		t.Error("two candidates share an ID")
	}
}

// TestToImportableRecord verifies the conversion copies every handoff field.
func TestToImportableRecord(t *testing.T) {
	c := New("Romans", 8, 28, "And we know that in all things God works for good.", 72, "ctx", "pattern")
	rec := ToImportableRecord(c)

	if rec.Book != c.Book || rec.Chapter != c.Chapter || rec.Verse != c.Verse {
		t.Errorf("record reference fields = %s %d:%d, want %s %d:%d",
			rec.Book, rec.Chapter, rec.Verse, c.Book, c.Chapter, c.Verse)
	}
	if rec.Text != c.Text || rec.Reference != c.Reference || rec.Confidence != c.Confidence {
		t.Error("record payload fields differ from candidate")
	}
}
