// Package apperr classifies the failures the view pipelines can hit.
//
// Every failure is handled the same way by callers (log and abort the
// current operation), so the kind mostly drives log fields and the HTTP
// status chosen by the API layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindTransport    Kind = "TRANSPORT"    // network error or non-2xx response
	KindMalformed    Kind = "MALFORMED"    // payload missing an expected field
	KindPrecondition Kind = "PRECONDITION" // caller-side precondition not met
	KindStale        Kind = "STALE"        // superseded by a newer request
)

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind so errors.Is(err, apperr.ErrMalformed) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrTransport    = &Error{Kind: KindTransport}
	ErrMalformed    = &Error{Kind: KindMalformed}
	ErrPrecondition = &Error{Kind: KindPrecondition}
	ErrStale        = &Error{Kind: KindStale}
)

func Transport(op string, err error) error { return &Error{Kind: KindTransport, Op: op, Err: err} }
func Malformed(op string, err error) error { return &Error{Kind: KindMalformed, Op: op, Err: err} }
func Precondition(op string, err error) error { return &Error{Kind: KindPrecondition, Op: op, Err: err} }
func Stale(op string) error { return &Error{Kind: KindStale, Op: op} }

// MissingField reports a required payload field that was absent.
func MissingField(op, field string) error {
	return Malformed(op, fmt.Errorf("missing field %q", field))
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// HTTPStatus maps an error to the status the API layer answers with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindTransport:
		return http.StatusBadGateway
	case KindMalformed:
		return http.StatusUnprocessableEntity
	case KindPrecondition:
		return http.StatusBadRequest
	case KindStale:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
