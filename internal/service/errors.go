package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure. Handlers map kinds to status codes.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindStore
)

// Sentinels matched by errors.Is against any *Error of the same kind.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrStore      = errors.New("store failure")
)

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindConflict:
		return ErrConflict
	default:
		return ErrStore
	}
}

func (k Kind) String() string { return k.sentinel().Error() }

// Error is returned by every Directory operation that fails.
type Error struct {
	Kind  Kind
	Op    string // e.g. "CreateShow"
	Field string // offending field for validation failures, if known
	Err   error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Field)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return e.Op + ": " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool { return target == e.Kind.sentinel() }

func validationErr(op, field string, err error) error {
	return &Error{Kind: KindValidation, Op: op, Field: field, Err: err}
}

func notFoundErr(op string, err error) error {
	return &Error{Kind: KindNotFound, Op: op, Err: err}
}

func conflictErr(op string, err error) error {
	return &Error{Kind: KindConflict, Op: op, Err: err}
}

func storeErr(op string, err error) error {
	return &Error{Kind: KindStore, Op: op, Err: err}
}

// KindOf returns the Kind of err, or 0 when err is not a service error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
