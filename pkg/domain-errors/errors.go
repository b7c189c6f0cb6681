// Package domainerrors carries coded, human-readable errors from the record
// core up to the presentation layers. Lower layers never print; they return
// one of these and let the caller decide how to surface it.
package domainerrors

import (
	"errors"
)

// Code classifies a domain error so transports can map it without string
// matching.
type Code string

const (
	CodeBadRequest Code = "bad_request"
	CodeValidation Code = "validation_failed"
	CodeNotFound   Code = "not_found"
	CodeOutOfRange Code = "out_of_range"
	CodeCorrupt    Code = "corrupt"
	CodeIO         Code = "io_failure"
	CodeInternal   Code = "internal_error"
)

// Error is a coded error with a message meant for end users. Fields holds
// per-field messages for validation failures.
type Error struct {
	Code    Code
	Message string
	Fields  []string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and user-facing message to an underlying cause.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Validation builds a validation failure carrying one message per field.
func Validation(fields []string) *Error {
	msg := "validation failed"
	if len(fields) == 1 {
		msg = fields[0]
	}
	return &Error{Code: CodeValidation, Message: msg, Fields: fields}
}

// From extracts the first *Error in the chain.
func From(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	de, ok := From(err)
	return ok && de.Code == code
}

// CodeOf returns the error's code, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	if de, ok := From(err); ok {
		return de.Code
	}
	return CodeInternal
}

// Fields returns the per-field messages of a validation error.
func Fields(err error) []string {
	if de, ok := From(err); ok {
		return de.Fields
	}
	return nil
}
