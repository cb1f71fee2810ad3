package app_test

import (
	"testing"

	"review_removal/internal/app"
)

func TestExtractSheetID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://docs.google.com/spreadsheets/d/ABC123/edit", "ABC123"},
		{"https://docs.google.com/spreadsheets/d/ABC123", "ABC123"},
		{"https://docs.google.com/spreadsheets/d/a-b_C9/edit#gid=0", "a-b_C9"},
		{"https://drive.google.com/open?id=XYZ789", "XYZ789"},
		{"not a url", ""},
		{"", ""},
		{"https://example.com/nothing/here", ""},
	}
	for _, c := range cases {
		if got := app.ExtractSheetID(c.in); got != c.want {
			t.Errorf("ExtractSheetID(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
