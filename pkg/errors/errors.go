// Package errors provides the roster engine's unified error taxonomy.
package errors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure; Recoverable reports which classes the
// pipeline folds into an error output document.
type Code string

const (
	CodeUnknown Code = "UNKNOWN"

	// Recoverable pipeline errors: the pipeline stops but emits a
	// well-formed error output document instead of crashing.
	CodeInputParse       Code = "INPUT_PARSE"
	CodeInvalidSchema    Code = "INVALID_SCHEMA"
	CodeInvalidField     Code = "INVALID_FIELD"
	CodeDuplicateID      Code = "DUPLICATE_ID"
	CodeCatalogueMismatch Code = "CATALOGUE_MISMATCH"
	CodeInconsistentDays Code = "INCONSISTENT_DAYS"
	CodeSolverTimeout    Code = "SOLVER_TIMEOUT"
	CodeSolverInfeasible Code = "SOLVER_INFEASIBLE"

	// Non-recoverable: I/O failure, solver crash, anything that should
	// propagate to main() for a non-zero process exit.
	CodeInternal Code = "INTERNAL_ERROR"
)

// AppError is the roster engine's structured error type, carrying enough
// context to render either a diagnostic log line or an error output
// document field.
type AppError struct {
	Code    Code                   `json:"code"`
	Message string                 `json:"message"`
	Details string                 `json:"details,omitempty"`
	Cause   error                  `json:"-"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// New creates a new AppError.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, Cause: err}
}

// Is reports whether err is an AppError of the given code.
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the Code from err, or CodeUnknown if err is not an AppError.
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// Recoverable reports whether the error kind is one the pipeline handles by
// emitting an error output document rather than a non-zero process exit.
func Recoverable(err error) bool {
	return GetCode(err) != CodeInternal && GetCode(err) != CodeUnknown
}

// InvalidField creates an InvalidField error for a specific input path.
func InvalidField(field, reason string) *AppError {
	return New(CodeInvalidField, fmt.Sprintf("field %q invalid: %s", field, reason)).WithField("field", field)
}

// DuplicateID creates a DuplicateId error.
func DuplicateID(kind, id string) *AppError {
	return New(CodeDuplicateID, fmt.Sprintf("duplicate %s id %q", kind, id)).WithField("id", id)
}

// CatalogueMismatch creates a CatalogueMismatch error.
func CatalogueMismatch(reason string) *AppError {
	return New(CodeCatalogueMismatch, reason)
}

// InconsistentDays creates an InconsistentDays error.
func InconsistentDays(reason string) *AppError {
	return New(CodeInconsistentDays, reason)
}

// SolverTimeout creates a SolverTimeout error.
func SolverTimeout(elapsedSeconds float64) *AppError {
	return New(CodeSolverTimeout, "solver exceeded the configured time limit").
		WithField("elapsedSeconds", elapsedSeconds)
}

// SolverInfeasible creates a SolverInfeasible error.
func SolverInfeasible(reason string) *AppError {
	return New(CodeSolverInfeasible, reason)
}

// ValidationErrors collects multiple field-level validation failures before
// they are reported together as a single InvalidField error.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// ValidationError is one field-level validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (ve *ValidationErrors) Error() string {
	if len(ve.Errors) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s - %s", ve.Errors[0].Field, ve.Errors[0].Message)
}

// Add records one field-level validation failure.
func (ve *ValidationErrors) Add(field, message string) {
	ve.Errors = append(ve.Errors, ValidationError{Field: field, Message: message})
}

// HasErrors reports whether any validation failures were recorded.
func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

// ToAppError converts the collected failures into a single InvalidField AppError.
func (ve *ValidationErrors) ToAppError() *AppError {
	err := New(CodeInvalidField, "input validation failed")
	err.Fields = make(map[string]interface{})
	for _, e := range ve.Errors {
		err.Fields[e.Field] = e.Message
	}
	return err
}
