package types

import (
	"errors"
	"fmt"
)

// ValidationReport holds the counts used to decide whether the primary and
// secondary tables can be joined.
type ValidationReport struct {
	Total     int64 `json:"total"`
	Valid     int64 `json:"valid"`
	Secondary int64 `json:"secondary"`
	Matched   int64 `json:"matched"`
}

// Integrity errors. An *IntegrityError wraps exactly one of these.
var (
	ErrNoValidRecords      = errors.New("no valid records")
	ErrCardinalityMismatch = errors.New("record count mismatch")
	ErrJoinMismatch        = errors.New("join key mismatch")
)

// Check enforces Valid > 0 and Valid == Secondary == Matched.
// It returns nil or an *IntegrityError.
func (r ValidationReport) Check() error {
	switch {
	case r.Valid == 0:
		return &IntegrityError{Kind: ErrNoValidRecords, Report: r}
	case r.Valid != r.Secondary:
		return &IntegrityError{Kind: ErrCardinalityMismatch, Report: r}
	case r.Matched != r.Valid:
		return &IntegrityError{Kind: ErrJoinMismatch, Report: r}
	}
	return nil
}

// IntegrityError reports a failed join precondition with the counts involved.
type IntegrityError struct {
	Kind   error
	Report ValidationReport
}

func (e *IntegrityError) Error() string {
	r := e.Report
	switch e.Kind {
	case ErrNoValidRecords:
		return fmt.Sprintf("%s: all %d records have non-positive duration", e.Kind, r.Total)
	case ErrCardinalityMismatch:
		return fmt.Sprintf("%s: %d valid records but %d path records (total records: %d)",
			e.Kind, r.Valid, r.Secondary, r.Total)
	case ErrJoinMismatch:
		return fmt.Sprintf("%s: %d records matched by id but %d valid records",
			e.Kind, r.Matched, r.Valid)
	default:
		return fmt.Sprintf("%v: %+v", e.Kind, r)
	}
}

func (e *IntegrityError) Unwrap() error {
	return e.Kind
}
