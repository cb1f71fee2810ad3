package app

import (
	"errors"
	"strings"

	"review_removal/internal/domain"
)

// IsPermissionDenied reports whether err is an access-control rejection from
// the source sheet (the user never shared it with the service account), as
// opposed to any other failure. Matches the explicit forbidden sentinel or
// the literal tokens "403", "permission", "Forbidden" in the message.
func IsPermissionDenied(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrForbidden) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "403") ||
		strings.Contains(msg, "permission") ||
		strings.Contains(msg, "Forbidden")
}
