package app

import (
	"math"
	"strconv"
	"strings"

	"review_removal/internal/domain"
)

// LowRatingThreshold is inclusive: a 3-star review counts as low-rated.
const LowRatingThreshold = 3.0

// DedupeByURL keeps the first occurrence of each non-empty URL, preserving
// order. Rows without a URL cannot be told apart, so every one of them is
// kept.
func DedupeByURL(records []domain.ReviewRecord) []domain.ReviewRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]domain.ReviewRecord, 0, len(records))
	for _, r := range records {
		if r.URL == "" {
			out = append(out, r)
			continue
		}
		if _, dup := seen[r.URL]; dup {
			continue
		}
		seen[r.URL] = struct{}{}
		out = append(out, r)
	}
	return out
}

// FilterLowRated keeps records whose rating parses to a number at or below
// threshold. Unparseable ratings are dropped.
func FilterLowRated(records []domain.ReviewRecord, threshold float64) []domain.ReviewRecord {
	out := make([]domain.ReviewRecord, 0, len(records))
	for _, r := range records {
		v, err := strconv.ParseFloat(strings.TrimSpace(r.Rating), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v <= threshold {
			out = append(out, r)
		}
	}
	return out
}
