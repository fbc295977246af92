// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrDuplicatePhone is returned when a write collides with the unique phone number.
var ErrDuplicatePhone = errors.New("phone number already exists")

// ErrInvalidQuery marks list parameters that cannot be turned into a statement.
var ErrInvalidQuery = errors.New("invalid query parameter")

// NotFoundError is returned when an id has no matching row
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", strings.ToLower(e.Resource), e.ID)
}

// NewNotFound builds a NotFoundError for resource ("Customer", "Address").
func NewNotFound(resource string, id int64) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError collects per-field messages for a rejected request body.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, ", ") + ")"
}

func NewValidation(message string, fields map[string]string) error {
	return &ValidationError{Message: message, Fields: fields}
}

// InvalidQuery wraps ErrInvalidQuery with a client-facing reason.
func InvalidQuery(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}

// HTTPStatus maps an error onto the status code returned to clients.
func HTTPStatus(err error) int {
	var nf *NotFoundError
	var ve *ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &ve), errors.Is(err, ErrDuplicatePhone), errors.Is(err, ErrInvalidQuery):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show to clients. Internal errors
// never leak driver details.
func PublicMessage(err error) string {
	var nf *NotFoundError
	var ve *ValidationError
	switch {
	case errors.As(err, &nf):
		return nf.Resource + " not found"
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, ErrDuplicatePhone):
		return "Phone number already exists"
	case errors.Is(err, ErrInvalidQuery):
		return err.Error()
	default:
		return "Internal server error"
	}
}

// FieldErrors returns the per-field messages of a validation error, if any.
func FieldErrors(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
