package engine

import (
	"fmt"
)

// ValidationError signals malformed input (bad date, end before start,
// non-positive duration). No mutation has occurred.
type ValidationError string

// Error implements the error interface
func (e ValidationError) Error() string {
	return string(e)
}

// ValidationErrorFmt returns a ValidationError from the passed format string and parameters
func ValidationErrorFmt(format string, params ...any) ValidationError {
	return ValidationError(fmt.Sprintf(format, params...))
}

// AuthorizationError signals a missing capability. No mutation has
// occurred, and the message must not leak whether a record exists.
type AuthorizationError string

// Error implements the error interface
func (e AuthorizationError) Error() string {
	return string(e)
}

// AuthorizationErrorFmt returns an AuthorizationError from the passed format string and parameters
func AuthorizationErrorFmt(format string, params ...any) AuthorizationError {
	return AuthorizationError(fmt.Sprintf(format, params...))
}

// ConflictError signals that a non-terminal record already exists for the
// (subject, kind) pair.
type ConflictError string

// Error implements the error interface
func (e ConflictError) Error() string {
	return string(e)
}

// ConflictErrorFmt returns a ConflictError from the passed format string and parameters
func ConflictErrorFmt(format string, params ...any) ConflictError {
	return ConflictError(fmt.Sprintf(format, params...))
}

// DeliveryError signals that a message could not be delivered to its
// recipient. The requested state change (if any) has still been applied.
type DeliveryError string

// Error implements the error interface
func (e DeliveryError) Error() string {
	return string(e)
}

// DeliveryErrorFmt returns a DeliveryError from the passed format string and parameters
func DeliveryErrorFmt(format string, params ...any) DeliveryError {
	return DeliveryError(fmt.Sprintf(format, params...))
}
