package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed caller input (bad link, missing brand
	// name, missing file). Surfaced before any processing happens.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRowNotFound is returned by SheetStore.UpdateRowByColumnMatch when no
	// row matches; the pipeline treats it as a skip, not a failure.
	ErrRowNotFound = errors.New("row not found")

	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// ParseError means the uploaded bytes could not be decoded as tabular data.
type ParseError struct {
	FileName string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %v", e.FileName, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// PermissionRequiredError is a distinct outcome, not a generic failure: the
// source sheet rejected us and the user must share it with ContactEmail.
type PermissionRequiredError struct {
	ContactEmail string
	Err          error
}

func (e *PermissionRequiredError) Error() string {
	return fmt.Sprintf("permission denied, share the sheet with %s: %v", e.ContactEmail, e.Err)
}

func (e *PermissionRequiredError) Unwrap() error { return e.Err }
