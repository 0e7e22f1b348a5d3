package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorKind identifies why a single field value was rejected by validation.
// Field-level rejections are recoverable: the respondent corrects the value
// and resubmits.
type ErrorKind string

const (
	ErrorKindMissingRequired ErrorKind = "missing_required"
	ErrorKindNotANumber      ErrorKind = "not_a_number"
	ErrorKindBelowMin        ErrorKind = "below_min"
	ErrorKindAboveMax        ErrorKind = "above_max"
)

// Message renders the respondent-facing message for this error kind, using
// the field's bounds where the message references them.
func (k ErrorKind) Message(field AssessmentField) string {
	switch k {
	case ErrorKindMissingRequired:
		return "This field is required"
	case ErrorKindNotANumber:
		return "Please enter a valid number"
	case ErrorKindBelowMin:
		if field.Validation != nil && field.Validation.Min != nil {
			return fmt.Sprintf("Value must be at least %g", *field.Validation.Min)
		}
		return "Value is below the allowed minimum"
	case ErrorKindAboveMax:
		if field.Validation != nil && field.Validation.Max != nil {
			return fmt.Sprintf("Value must be at most %g", *field.Validation.Max)
		}
		return "Value is above the allowed maximum"
	}
	return "Invalid value"
}

// Sentinel errors for lookup failures, authorization, and repository
// invariant violations. Callers distinguish them with errors.Is.
var (
	// ErrAssessmentTypeNotFound is returned when no assessment type exists
	// for the requested id.
	ErrAssessmentTypeNotFound = errors.New("assessment type not found")

	// ErrResponseNotFound is returned when no response exists for the
	// requested id.
	ErrResponseNotFound = errors.New("assessment response not found")

	// ErrForbidden is returned when a role-gated operation is attempted by a
	// caller without the admin role.
	ErrForbidden = errors.New("operation requires admin role")

	// ErrDuplicateIdentifier signals a collision in generated identifiers.
	// This is an invariant violation in the id generator, not a recoverable
	// condition, and must not be silently retried.
	ErrDuplicateIdentifier = errors.New("duplicate identifier generated")

	// ErrInvalidCredentials is returned by the identity provider on a failed
	// login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering with an email that already
	// has an account.
	ErrEmailTaken = errors.New("an account with this email already exists")

	// ErrInvalidInput is returned for malformed create/update inputs such as
	// missing titles or fields with unknown types. Wrapped errors carry the
	// specific reason.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError aggregates every failing field of a submission. Submission
// is all-or-nothing: when any field fails, nothing is persisted and the
// complete per-field breakdown is returned in one outcome.
type ValidationError struct {
	FieldErrors map[string]ErrorKind
}

func (e *ValidationError) Error() string {
	ids := make([]string, 0, len(e.FieldErrors))
	for id := range e.FieldErrors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return fmt.Sprintf("validation failed for %d field(s): %s", len(ids), strings.Join(ids, ", "))
}
