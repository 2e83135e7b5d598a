package cycles

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures of the load -> summarize -> present pipeline.
type ErrorKind string

const (
	KindInputAccess ErrorKind = "INPUT_ACCESS"
	KindSchema      ErrorKind = "SCHEMA"
	KindEmptyResult ErrorKind = "EMPTY_RESULT"
	KindUnloaded    ErrorKind = "UNLOADED"
	KindConfig      ErrorKind = "CONFIG"
)

// Sentinels for errors.Is. Every *Error matches the sentinel of its Kind.
var (
	ErrInputAccess = errors.New("input not accessible")
	ErrSchema      = errors.New("row does not match schema")
	ErrEmptyResult = errors.New("no cycles found")
	ErrUnloaded    = errors.New("data not loaded")
	ErrConfig      = errors.New("invalid configuration")
)

// Error carries the kind of failure plus where it happened.
type Error struct {
	Kind    ErrorKind
	Message string
	Path    string
	Line    int
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.Path != "" {
		msg += " (" + e.Path
		if e.Line > 0 {
			msg += fmt.Sprintf(":%d", e.Line)
		}
		msg += ")"
	} else if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel that corresponds to the error kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindInputAccess:
		return ErrInputAccess
	case KindSchema:
		return ErrSchema
	case KindEmptyResult:
		return ErrEmptyResult
	case KindUnloaded:
		return ErrUnloaded
	case KindConfig:
		return ErrConfig
	default:
		return nil
	}
}

// NewError builds an *Error without a location.
func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}
