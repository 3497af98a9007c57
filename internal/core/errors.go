package core

import (
	"errors"
	"fmt"
)

// Structural errors abort the whole run before any output is written.
var (
	ErrNoSource             = errors.New("no source file defined")
	ErrEmptySource          = errors.New("empty file: no data rows")
	ErrInvalidCSV           = errors.New("invalid csv")
	ErrSchemaMismatch       = errors.New("mismatched header/column count")
	ErrUnknownField         = errors.New("unknown column header")
	ErrDuplicateField       = errors.New("duplicate column header")
	ErrDescriptionFragments = errors.New("description fragments incomplete")
	ErrInvalidSettings      = errors.New("invalid settings")
)

// Target-level errors abort only the affected target's export.
var (
	ErrMissingRequired = errors.New("missing required column")
	ErrNonNumeric      = errors.New("non-numeric value encountered in a numeric field")
	ErrMalformedLot    = errors.New("unexpected alpha character(s) in lot")
)

// TargetError attaches the target that failed to a target-level error.
type TargetError struct {
	Target string
	Err    error
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("%s export error: %v", e.Target, e.Err)
}

func (e *TargetError) Unwrap() error {
	return e.Err
}

// IsStructural reports whether err must abort the entire run.
func IsStructural(err error) bool {
	return errors.Is(err, ErrNoSource) ||
		errors.Is(err, ErrEmptySource) ||
		errors.Is(err, ErrInvalidCSV) ||
		errors.Is(err, ErrSchemaMismatch) ||
		errors.Is(err, ErrUnknownField) ||
		errors.Is(err, ErrDuplicateField) ||
		errors.Is(err, ErrDescriptionFragments) ||
		errors.Is(err, ErrInvalidSettings)
}

// IsTargetLevel reports whether err aborts only the target that raised it.
func IsTargetLevel(err error) bool {
	return errors.Is(err, ErrMissingRequired) ||
		errors.Is(err, ErrNonNumeric) ||
		errors.Is(err, ErrMalformedLot)
}
