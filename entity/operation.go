package entity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/agentry-ai/agentry/logging"
	"github.com/agentry-ai/agentry/registry"
	"github.com/agentry-ai/agentry/runtime"
)

// NewOperation wraps one registered callable into a runtime operation bound
// to recv. The execution entry point runs the full pipeline:
//
//  1. Validate the raw arguments against the callable's schema
//  2. Apply every before-transform of the method, in attachment order
//  3. Invoke the handler with recv and the transformed arguments
//  4. Apply every after-transform to the result, in attachment order
//  5. Return the final value
//
// The handler only ever sees arguments that passed validation and all
// before-transforms; callers only ever see results that passed all
// after-transforms. When the handler fails, the after-chain does not run.
//
// Error Semantics:
//
//	*OperationError (returned directly)  -> forwarded unchanged
//	schema mismatch                      -> *OperationError{Code: "VALIDATION_ERROR"}
//	before-transform failure             -> *OperationError{Code: "PRECONDITION_ERROR"}
//	handler or after-transform failure   -> *OperationError{Code: "EXECUTION_ERROR"}
//	handler panic                        -> *OperationError{Code: "EXECUTION_ERROR"}
//
// Logging Fields:
//
//	operation: external operation name
//	kind: declaring kind of the resolved callable
//	duration_ms: execution time in milliseconds
func NewOperation(recv any, c registry.Callable, chains *registry.ChainStore, logger logging.Logger) runtime.Operation {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	ref := c.Ref()

	return runtime.Operation{
		Name:        c.Name,
		Description: c.Description,
		Schema:      c.Schema,
		Execute: func(ctx context.Context, raw json.RawMessage) (result any, err error) {
			start := time.Now()

			logger.Debug("operation.start", "operation", c.Name, "kind", c.Kind.Name())

			defer func() {
				if r := recover(); r != nil {
					logger.Error("operation.panic", "operation", c.Name, "panic", fmt.Sprintf("%v", r))
					result = nil
					err = &OperationError{
						Op:      c.Name,
						Message: fmt.Sprintf("panic: %v", r),
						Code:    CodeExecution,
					}
				}
			}()

			args, verr := c.Schema.Validate(raw)
			if verr != nil {
				logger.Warn("operation.validation_failed", "operation", c.Name, "error", verr.Error())

				return nil, &OperationError{
					Op:      c.Name,
					Message: fmt.Sprintf("argument validation failed: %v", verr),
					Code:    CodeValidation,
					Details: verr,
				}
			}

			for _, before := range chains.Before(ref) {
				args, err = before(ctx, recv, args)
				if err != nil {
					logger.Warn("operation.precondition_failed", "operation", c.Name, "error", err.Error())

					return nil, asOperationError(c.Name, err, CodePrecondition)
				}
			}

			result, err = c.Handler(ctx, recv, args)
			if err != nil {
				logger.Error("operation.error", "operation", c.Name, "error", err.Error())

				return nil, asOperationError(c.Name, err, CodeExecution)
			}

			for _, after := range chains.After(ref) {
				result, err = after(ctx, recv, result)
				if err != nil {
					logger.Error("operation.error", "operation", c.Name, "error", err.Error())

					return nil, asOperationError(c.Name, err, CodeExecution)
				}
			}

			logger.Info("operation.success", "operation", c.Name, "duration_ms", time.Since(start).Milliseconds())

			return result, nil
		},
	}
}

// asOperationError forwards an existing *OperationError unchanged and wraps
// anything else under the given code.
func asOperationError(op string, err error, code string) *OperationError {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr
	}
	return &OperationError{
		Op:      op,
		Message: err.Error(),
		Code:    code,
	}
}
