// Package apperr holds the domain error taxonomy. Messages are the Spanish
// strings the storefront surfaces verbatim.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Kind int

const (
	KindNotFound Kind = iota
	KindCapacity
	KindConflict
	KindInvariant
)

type Error struct {
	Kind    Kind
	Message string
	// Tickets carries the conflicting numbers for KindConflict.
	Tickets []string
}

func (e *Error) Error() string { return e.Message }

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Capacity(format string, args ...any) *Error {
	return &Error{Kind: KindCapacity, Message: fmt.Sprintf(format, args...)}
}

func Conflict(tickets []string) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: fmt.Sprintf("Los tickets %s no están disponibles", strings.Join(tickets, ", ")),
		Tickets: tickets,
	}
}

func Invariant(msg string) *Error {
	return &Error{Kind: KindInvariant, Message: msg}
}

func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }
func IsConflict(err error) bool { return IsKind(err, KindConflict) }

// StatusCode maps a domain error to the HTTP status the handlers return.
func StatusCode(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindCapacity:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	case KindInvariant:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
