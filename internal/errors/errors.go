package errors

import "errors"

// ErrForbidden is returned when the acting user lacks the role required
// for an operation. Handlers translate it to a 403.
var ErrForbidden = errors.New("operation is forbidden for user")

// FieldError attributes a validation failure to a single input field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports malformed or out-of-range input. It carries a
// stable user-facing message plus a machine-readable per-field breakdown.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError from field-level failures.
func NewValidationError(message string, fields ...FieldError) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// NotFoundError signals that a referenced entity does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFound(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

// CapacityError is the business-rule rejection of a ticket request once a
// screening has no allocation left. It covers both the exactly-full and the
// already-oversold case.
type CapacityError struct {
	Message string
}

func (e *CapacityError) Error() string {
	return e.Message
}

func NewCapacityExceeded(message string) *CapacityError {
	return &CapacityError{Message: message}
}

// ConstraintError signals a dangling reference: an insert pointed at a
// foreign-key target that is not in the database.
type ConstraintError struct {
	Message string
}

func (e *ConstraintError) Error() string {
	return e.Message
}

func NewConstraintViolation(message string) *ConstraintError {
	return &ConstraintError{Message: message}
}

// InvalidArgumentError is raised by repositories that re-validate ids
// defensively, independent of the validation layer.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

func NewInvalidArgument(message string) *InvalidArgumentError {
	return &InvalidArgumentError{Message: message}
}

// Is reports whether err matches target, delegating to the standard library.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As delegates to the standard library so callers only import this package.
func As(err error, target any) bool {
	return errors.As(err, target)
}
