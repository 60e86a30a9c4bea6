package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindNotFound Kind = iota + 1
	KindConflict
	KindValidation
	KindSerialization
)

// Error is the domain error type shared by services and repositories.
// The HTTP layer maps Kind to a status code; the core never does.
type Error struct {
	Kind   Kind
	Msg    string
	Fields map[string]string // per-field messages, validation only
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewNotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func NewConflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func NewValidation(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Msg: msg, Fields: fields}
}

func NewSerialization(msg string, err error) *Error {
	return &Error{Kind: KindSerialization, Msg: msg, Err: err}
}

func isKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

func IsNotFound(err error) bool      { return isKind(err, KindNotFound) }
func IsConflict(err error) bool      { return isKind(err, KindConflict) }
func IsValidation(err error) bool    { return isKind(err, KindValidation) }
func IsSerialization(err error) bool { return isKind(err, KindSerialization) }
