// Package dedup ranks recognized verse candidates: duplicates are dropped
// greedily in discovery order (earlier strategies win ties), survivors sort
// by confidence, and the result is capped to bound downstream UI and storage
// cost.
package dedup

import (
	"math"
	"sort"
	"strings"

	"github.com/danteata/spiritammo/core/verse"
)

// SimilarityThreshold marks two texts as duplicates.
const SimilarityThreshold = 0.8

// MaxCandidates caps the ranked result.
const MaxCandidates = 50

// Rank deduplicates and orders candidates. Two candidates are duplicates when
// they share book, chapter, and verse, or when their text similarity reaches
// the threshold. The input slice is not modified.
func Rank(candidates []verse.Candidate) []verse.Candidate {
	var kept []verse.Candidate
	for _, c := range candidates {
		if !isDuplicate(c, kept) {
			kept = append(kept, c)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Confidence > kept[j].Confidence
	})

	if len(kept) > MaxCandidates {
		kept = kept[:MaxCandidates]
	}
	return kept
}

func isDuplicate(c verse.Candidate, kept []verse.Candidate) bool {
	for _, k := range kept {
		if sameReference(c, k) {
			return true
		}
		if Similarity(c.Text, k.Text) >= SimilarityThreshold {
			return true
		}
	}
	return false
}

func sameReference(a, b verse.Candidate) bool {
	return strings.EqualFold(a.Book, b.Book) && a.Chapter == b.Chapter && a.Verse == b.Verse
}

// Similarity computes cosine similarity over the two texts' word-frequency
// vectors. Tokenization is case-folded whitespace splitting. The result is
// zero when either vector has zero magnitude.
func Similarity(a, b string) float64 {
	va := wordFreq(a)
	vb := wordFreq(b)
	if len(va) == 0 || len(vb) == 0 {
		return 0
	}

	var dot, magA, magB float64
	for w, fa := range va {
		dot += float64(fa) * float64(vb[w])
		magA += float64(fa) * float64(fa)
	}
	for _, fb := range vb {
		magB += float64(fb) * float64(fb)
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

func wordFreq(text string) map[string]int {
	freq := make(map[string]int)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		freq[w]++
	}
	return freq
}
