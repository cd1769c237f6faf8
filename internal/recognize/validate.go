package recognize

import (
	"strings"

	"github.com/danteata/spiritammo/core/verse"
)

// Candidate text bounds shared by all strategies.
const (
	minCandidateChars = 10
	maxCandidateChars = 1000
)

// validCandidate applies the validation every strategy shares: bounded text,
// positive chapter and verse. Book resolution is each strategy's own concern
// because the intelligent strategy never claims one.
func validCandidate(c verse.Candidate) bool {
	n := len(strings.TrimSpace(c.Text))
	if n < minCandidateChars || n > maxCandidateChars {
		return false
	}
	return c.Chapter >= 1 && c.Verse >= 1
}
