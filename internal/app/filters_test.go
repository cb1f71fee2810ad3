package app_test

import (
	"testing"

	"review_removal/internal/app"
	"review_removal/internal/domain"
)

func rec(url, rating string) domain.ReviewRecord {
	return domain.ReviewRecord{URL: url, Rating: rating}
}

func TestDedupeByURL_KeepsFirstOccurrence(t *testing.T) {
	in := []domain.ReviewRecord{
		{URL: "u1", Title: "first"},
		{URL: "u2"},
		{URL: "u1", Title: "dup"},
		{URL: "u3"},
	}
	out := app.DedupeByURL(in)
	if len(out) != 3 {
		t.Fatalf("expected 3 records, got %d", len(out))
	}
	if out[0].Title != "first" {
		t.Fatalf("expected first occurrence kept, got %+v", out[0])
	}
	if out[0].URL != "u1" || out[1].URL != "u2" || out[2].URL != "u3" {
		t.Fatalf("order not preserved: %+v", out)
	}
}

func TestDedupeByURL_EmptyURLsAllSurvive(t *testing.T) {
	in := []domain.ReviewRecord{
		{URL: "", Title: "a"},
		{URL: "", Title: "b"},
		{URL: "u1"},
		{URL: "", Title: "c"},
	}
	out := app.DedupeByURL(in)
	if len(out) != 4 {
		t.Fatalf("expected all 4 kept, got %d", len(out))
	}
}

func TestFilterLowRated(t *testing.T) {
	in := []domain.ReviewRecord{
		rec("a", "1"),
		rec("b", "5"),
		rec("c", "3"),   // inclusive threshold
		rec("d", "3.5"), // above
		rec("e", "2.5"),
		rec("f", ""),          // unparseable, dropped
		rec("g", "not a num"), // dropped
		rec("h", "+Inf"),      // not finite, dropped
	}
	out := app.FilterLowRated(in, app.LowRatingThreshold)
	want := []string{"a", "c", "e"}
	if len(out) != len(want) {
		t.Fatalf("expected %d records, got %d: %+v", len(want), len(out), out)
	}
	for i, w := range want {
		if out[i].URL != w {
			t.Fatalf("at %d: expected %s, got %s", i, w, out[i].URL)
		}
	}
}

func TestDedupeThenFilter_Idempotent(t *testing.T) {
	in := []domain.ReviewRecord{
		rec("u1", "1"), rec("u2", "2"), rec("", "3"),
	}
	once := app.FilterLowRated(app.DedupeByURL(in), app.LowRatingThreshold)
	twice := app.FilterLowRated(app.DedupeByURL(once), app.LowRatingThreshold)
	if len(once) != len(twice) {
		t.Fatalf("not idempotent: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("record %d changed on second pass", i)
		}
	}
}

// Mirrors the five-row intake scenario: one duplicate URL, ratings 1,5,2,3,4.
func TestDedupeFilter_Scenario(t *testing.T) {
	in := []domain.ReviewRecord{
		{URL: "u1", Rating: "1"},
		{URL: "u2", Rating: "5"},
		{URL: "u3", Rating: "2"},
		{URL: "u4", Rating: "3"},
		{URL: "u1", Rating: "4"}, // duplicate of u1
	}
	// 5 in, one dup -> 4 unique; ratings 1,5,2,3 -> three at or below 3
	unique := app.DedupeByURL(in)
	if len(unique) != 4 {
		t.Fatalf("after dedup expected 4, got %d", len(unique))
	}
	low := app.FilterLowRated(unique, app.LowRatingThreshold)
	if len(low) != 3 {
		t.Fatalf("after filter expected 3, got %d", len(low))
	}
}
