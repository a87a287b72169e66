// Package apperr defines the closed set of error kinds the API can return
// and their single mapping to HTTP status codes.
package apperr

import "net/http"

type Kind string

const (
	Unauthorized    Kind = "UNAUTHORIZED"
	InvalidID       Kind = "INVALID_ID"
	InvalidInput    Kind = "INVALID_INPUT"
	ValidationError Kind = "VALIDATION_ERROR"
	InvalidDate     Kind = "INVALID_DATE"
	InvalidDoctor   Kind = "INVALID_DOCTOR"
	PastDate        Kind = "PAST_DATE"
	ConflictSlot    Kind = "CONFLICT_SLOT"
	NotFound        Kind = "NOT_FOUND"
	DuplicateKey    Kind = "DUPLICATE_KEY"
	Internal        Kind = "INTERNAL_ERROR"
)

// Error carries a kind plus optional field-scoped details for the response
// body. It satisfies the error interface so services can return it directly.
type Error struct {
	Kind    Kind
	Details any
}

func (e *Error) Error() string { return string(e.Kind) }

func New(kind Kind) *Error { return &Error{Kind: kind} }

func WithDetails(kind Kind, details any) *Error {
	return &Error{Kind: kind, Details: details}
}

// Status maps an error kind to its transport status code. Absence and
// access denial both map to 404 so existence is not leaked.
func Status(kind Kind) int {
	switch kind {
	case Unauthorized:
		return http.StatusUnauthorized
	case InvalidID, InvalidInput, ValidationError, InvalidDate, InvalidDoctor, PastDate:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case ConflictSlot, DuplicateKey:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// From normalizes any error to an *Error, defaulting to INTERNAL_ERROR for
// unexpected failures from collaborators.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return New(Internal)
}
