package app_test

import (
	"errors"
	"fmt"
	"testing"

	"review_removal/internal/app"
	"review_removal/internal/domain"
)

func TestIsPermissionDenied(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"forbidden sentinel", fmt.Errorf("sheets values.get: %w", domain.ErrForbidden), true},
		{"status code in message", errors.New("remote returned 403"), true},
		{"forbidden token", errors.New("Forbidden: no access"), true},
		{"permission token", errors.New("insufficient permission for file"), true},
		{"generic failure", errors.New("connection reset"), false},
		{"lowercase forbidden does not match", errors.New("forbidden"), false},
	}
	for _, c := range cases {
		if got := app.IsPermissionDenied(c.err); got != c.want {
			t.Errorf("%s: IsPermissionDenied = %v, want %v", c.name, got, c.want)
		}
	}
}
