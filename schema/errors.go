package schema

import (
	"errors"
	"strings"

	santhosh "github.com/santhosh-tekuri/jsonschema/v6"
)

// ValidationError reports arguments that do not conform to a schema.
type ValidationError struct {
	Field   string `json:"field,omitempty"` // Instance path of the first failing field, if known
	Message string `json:"message"`         // Human-readable error message
	Err     error  `json:"-"`               // Underlying validator error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "validation error for field '" + e.Field + "': " + e.Message
	}
	return "validation error: " + e.Message
}

// Unwrap exposes the underlying validator error.
func (e *ValidationError) Unwrap() error { return e.Err }

// newValidationError converts a compiled-validator failure into a
// *ValidationError, extracting the first failing instance path when available.
func newValidationError(err error) *ValidationError {
	ve := &ValidationError{Message: err.Error(), Err: err}

	var sv *santhosh.ValidationError
	if errors.As(err, &sv) {
		if leaf := firstLeaf(sv); leaf != nil {
			ve.Field = strings.Join(leaf.InstanceLocation, "/")
		}
	}

	return ve
}

func firstLeaf(err *santhosh.ValidationError) *santhosh.ValidationError {
	if len(err.Causes) == 0 {
		return err
	}
	return firstLeaf(err.Causes[0])
}
