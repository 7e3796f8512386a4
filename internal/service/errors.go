// Package service holds the business rules of the lodging engine: the
// inventory, the availability checker, the booking lifecycle, the payment
// ledger and reporting.  Handlers call into it with an authenticated
// model.Caller; it talks to persistence only through repository.Store.
package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/event-lodging/internal/repository"
)

// Kind classifies a service error.  The HTTP layer maps each kind to a
// status code.
type Kind int

const (
	KindValidation    Kind = iota + 1 // malformed or missing input
	KindNotFound                      // referenced entity absent
	KindAuthorization                 // caller lacks the role or ownership
	KindConflict                      // double booking, duplicate room number, blocked delete
	KindPolicy                        // illegal state transition or refused operation
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuthorization:
		return "authorization"
	case KindConflict:
		return "conflict"
	case KindPolicy:
		return "policy"
	}
	return "unknown"
}

// Error is the typed error returned for every expected failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches the kind sentinels below, so errors.Is(err, ErrConflict)
// holds for every conflict regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

var (
	ErrValidation    = &Error{Kind: KindValidation}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrAuthorization = &Error{Kind: KindAuthorization}
	ErrConflict      = &Error{Kind: KindConflict}
	ErrPolicy        = &Error{Kind: KindPolicy}
)

func newError(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

func validationf(format string, args ...any) error { return newError(KindValidation, format, args...) }
func notFoundf(format string, args ...any) error   { return newError(KindNotFound, format, args...) }
func forbiddenf(format string, args ...any) error  { return newError(KindAuthorization, format, args...) }
func conflictf(format string, args ...any) error   { return newError(KindConflict, format, args...) }
func policyf(format string, args ...any) error     { return newError(KindPolicy, format, args...) }

// KindOf returns the kind of a service error, or 0 for anything else.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

// storeError translates repository sentinels.  ErrNotFound becomes a
// not-found error naming what; unknown errors are wrapped with op.
func storeError(err error, op, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFoundf("%s not found", what)
	case errors.Is(err, repository.ErrDuplicate):
		return conflictf("%s already exists", what)
	case errors.Is(err, repository.ErrConflict):
		return conflictf("%s is referenced by existing bookings", what)
	default:
		var se *Error
		if errors.As(err, &se) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}
}
