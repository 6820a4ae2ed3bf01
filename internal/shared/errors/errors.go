package errors

import (
	"errors"
	"fmt"
)

// Error types for different domains
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "VALIDATION_ERROR"
	ErrorTypeInfrastructure ErrorType = "INFRASTRUCTURE_ERROR"
	ErrorTypeNotFound       ErrorType = "NOT_FOUND_ERROR"
	ErrorTypeInternal       ErrorType = "INTERNAL_ERROR"

	// Analysis errors surfaced by the decomposition pipeline
	ErrorTypeUnresolvedReference ErrorType = "UNRESOLVED_REFERENCE"
	ErrorTypeCyclicDependency    ErrorType = "CYCLIC_BOUNDARY_DEPENDENCY"
	ErrorTypeInvalidSchema       ErrorType = "INVALID_SCHEMA_DESCRIPTION"
)

// Exit codes reported by the CLI for each error class. The pipeline is
// single-shot and fail-fast, so the first error determines the exit code.
const (
	ExitCodeOK             = 0
	ExitCodeGeneric        = 1
	ExitCodeInvalidSchema  = 2
	ExitCodeUnresolvedRef  = 3
	ExitCodeCyclicBoundary = 4
	ExitCodeInfrastructure = 5
)

// Common application errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrEntityNotFound = errors.New("entity not found")
	ErrEmptySchema    = errors.New("schema description contains no entities")
)

// AppError represents a custom application error with context
type AppError struct {
	Type      ErrorType              `json:"type" yaml:"type"`
	Message   string                 `json:"message" yaml:"message"`
	Code      string                 `json:"code,omitempty" yaml:"code,omitempty"`
	ExitCode  int                    `json:"-" yaml:"-"`
	Details   map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
	Cause     error                  `json:"-" yaml:"-"`
	Component string                 `json:"component,omitempty" yaml:"component,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(errorType ErrorType, message string, exitCode int) *AppError {
	return &AppError{
		Type:     errorType,
		Message:  message,
		ExitCode: exitCode,
		Details:  make(map[string]interface{}),
	}
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithCause adds the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithComponent adds the component name
func (e *AppError) WithComponent(component string) *AppError {
	e.Component = component
	return e
}

// WithDetail adds a detail field
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Common error constructors

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrorTypeValidation, message, ExitCodeGeneric)
}

// NewInfrastructureError creates an infrastructure error
func NewInfrastructureError(message string) *AppError {
	return NewAppError(ErrorTypeInfrastructure, message, ExitCodeInfrastructure)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrorTypeNotFound, fmt.Sprintf("%s not found", resource), ExitCodeGeneric)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return NewAppError(ErrorTypeInternal, message, ExitCodeGeneric)
}

// NewUnresolvedReferenceError reports a reference whose target entity is
// absent from the schema description. The missing entity name is recorded
// in the error details.
func NewUnresolvedReferenceError(sourceEntity, field, missingEntity string) *AppError {
	return NewAppError(
		ErrorTypeUnresolvedReference,
		fmt.Sprintf("entity %q field %q references unknown entity %q", sourceEntity, field, missingEntity),
		ExitCodeUnresolvedRef,
	).
		WithDetail("source_entity", sourceEntity).
		WithDetail("field", field).
		WithDetail("missing_entity", missingEntity)
}

// NewCyclicBoundaryError reports that boundary dependencies cannot be
// linearized. The offending cycle members are recorded in the error details.
func NewCyclicBoundaryError(cycle []string) *AppError {
	return NewAppError(
		ErrorTypeCyclicDependency,
		fmt.Sprintf("boundary dependencies contain a cycle: %v", cycle),
		ExitCodeCyclicBoundary,
	).WithDetail("cycle", cycle)
}

// NewInvalidSchemaError reports malformed input, naming the offending entity.
func NewInvalidSchemaError(entity, reason string) *AppError {
	return NewAppError(
		ErrorTypeInvalidSchema,
		fmt.Sprintf("invalid schema description for entity %q: %s", entity, reason),
		ExitCodeInvalidSchema,
	).
		WithDetail("entity", entity).
		WithDetail("reason", reason)
}

// Helper functions for common error scenarios

// WrapError wraps an error with context
func WrapError(err error, message string) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// ExitCodeFor maps an error to the process exit code the CLI should report.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitCodeOK
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.ExitCode
	}
	return ExitCodeGeneric
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeNotFound
	}
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrEntityNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeValidation
	}
	return false
}

// IsUnresolvedReference checks if an error reports an unresolved reference
func IsUnresolvedReference(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeUnresolvedReference
	}
	return false
}

// IsCyclicDependency checks if an error reports a boundary dependency cycle
func IsCyclicDependency(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeCyclicDependency
	}
	return false
}

// IsInvalidSchema checks if an error reports a malformed schema description
func IsInvalidSchema(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeInvalidSchema
	}
	return false
}
