package entity

import "fmt"

// Error codes carried by OperationError for uniform downstream handling.
const (
	// CodeValidation marks arguments that failed schema validation.
	CodeValidation = "VALIDATION_ERROR"

	// CodePrecondition marks a rejection by a before-transform.
	CodePrecondition = "PRECONDITION_ERROR"

	// CodeExecution marks a failure of the underlying method or an
	// after-transform.
	CodeExecution = "EXECUTION_ERROR"
)

// OperationError represents a failure during operation execution. The
// runtime surfaces it to the model as a failed tool call; it is never fatal
// to the entity.
type OperationError struct {
	Op      string `json:"operation"`         // Name of the operation that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *OperationError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("operation error [%s] in %s: %s", e.Code, e.Op, e.Message)
	}
	return fmt.Sprintf("operation error in %s: %s", e.Op, e.Message)
}

// NewOperationError creates a new OperationError with the specified details.
func NewOperationError(op, message, code string) *OperationError {
	return &OperationError{
		Op:      op,
		Message: message,
		Code:    code,
	}
}
