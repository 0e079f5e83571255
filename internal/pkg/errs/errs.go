package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used as classification anchors. Callers match with
// errors.Is against these rather than against concrete struct types.
var (
	ErrValueIsRequired   = errors.New("value is required")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrValueIsOutOfRange = errors.New("value is out of range")
	ErrObjectNotFound    = errors.New("object not found")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidOtp        = errors.New("invalid code")
	ErrInvalidState      = errors.New("invalid state")
)

// sanitize strips line breaks from values that end up in error messages,
// keeping log lines single-line.
func sanitize(v any) string {
	return strings.ReplaceAll(strings.ReplaceAll(fmt.Sprintf("%v", v), "\n", " "), "\r", " ")
}

// ValueIsRequiredError indicates a required value was not supplied.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error { return ErrValueIsRequired }

// ValueIsInvalidError indicates a supplied value failed validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error { return ErrValueIsInvalid }

// ValueIsOutOfRangeError indicates a numeric value fell outside its allowed bounds.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %v, max value is %v",
		ErrValueIsOutOfRange, sanitize(e.Value), e.ParamName, e.Min, e.Max)
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %s)", e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error { return ErrValueIsOutOfRange }

// ObjectNotFoundError indicates a referenced object does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, sanitize(e.ID), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, sanitize(e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error { return ErrObjectNotFound }

// NotAuthorizedError indicates the acting party is not allowed to perform
// an operation: wrong role, or the wrong party acting on a deal.
type NotAuthorizedError struct {
	Actor  string
	Action string
}

func NewNotAuthorizedError(actor, action string) *NotAuthorizedError {
	return &NotAuthorizedError{Actor: actor, Action: action}
}

func (e *NotAuthorizedError) Error() string {
	return fmt.Sprintf("%s: %s may not %s", ErrNotAuthorized, sanitize(e.Actor), e.Action)
}

func (e *NotAuthorizedError) Unwrap() error { return ErrNotAuthorized }

// ConflictError indicates an operation lost against an already-established
// fact: a deal already claimed, a second deal for the same order, a payment
// not in its expected state.
type ConflictError struct {
	Reason string
	Cause  error
}

func NewConflictError(reason string) *ConflictError {
	return &ConflictError{Reason: reason}
}

func NewConflictErrorWithCause(reason string, cause error) *ConflictError {
	return &ConflictError{Reason: reason, Cause: cause}
}

func (e *ConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrConflict, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrConflict, e.Reason)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// InsufficientFundsError indicates a wallet balance is below the amount a
// debit requires. The balance itself is intentionally not disclosed in the
// message.
type InsufficientFundsError struct {
	WalletOwner string
	Required    float64
}

func NewInsufficientFundsError(walletOwner string, required float64) *InsufficientFundsError {
	return &InsufficientFundsError{WalletOwner: walletOwner, Required: required}
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: wallet of %s cannot cover %.2f", ErrInsufficientFunds, sanitize(e.WalletOwner), e.Required)
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// InvalidOtpError indicates a presented code does not match the expected
// one-time code for the current custody phase. No other state is disclosed.
type InvalidOtpError struct{}

func NewInvalidOtpError() *InvalidOtpError { return &InvalidOtpError{} }

func (e *InvalidOtpError) Error() string { return ErrInvalidOtp.Error() }

func (e *InvalidOtpError) Unwrap() error { return ErrInvalidOtp }

// InvalidStateError indicates an operation was attempted from a lifecycle
// status that does not permit it.
type InvalidStateError struct {
	Operation string
	Status    string
}

func NewInvalidStateError(operation, status string) *InvalidStateError {
	return &InvalidStateError{Operation: operation, Status: status}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: cannot %s while %s", ErrInvalidState, e.Operation, sanitize(e.Status))
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }
