package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure so the transport can translate it.
type Kind string

const (
	KindValidation      Kind = "VALIDATION_ERROR"
	KindNotFound        Kind = "NOT_FOUND"
	KindForbidden       Kind = "FORBIDDEN"
	KindIntegrity       Kind = "INTEGRITY_ERROR"
	KindUnsupported     Kind = "UNSUPPORTED"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindInactive        Kind = "INACTIVE_USER"
)

// Error is a typed failure returned by services.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any error of the same kind against the bare sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

var (
	// ErrValidation matches malformed input.
	ErrValidation = &Error{Kind: KindValidation}
	// ErrNotFound matches a missing record.
	ErrNotFound = &Error{Kind: KindNotFound}
	// ErrForbidden matches an ownership or state policy violation.
	ErrForbidden = &Error{Kind: KindForbidden}
	// ErrIntegrity matches a referenced record that vanished.
	ErrIntegrity = &Error{Kind: KindIntegrity}
	// ErrUnsupported matches an intentionally disabled operation.
	ErrUnsupported = &Error{Kind: KindUnsupported}
	// ErrUnauthenticated matches missing or invalid credentials.
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	// ErrInactive matches an authenticated but deactivated user.
	ErrInactive = &Error{Kind: KindInactive}
)

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

func NotFoundf(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func Forbiddenf(format string, args ...any) *Error {
	return newError(KindForbidden, format, args...)
}

func Integrityf(format string, args ...any) *Error {
	return newError(KindIntegrity, format, args...)
}

func Unsupportedf(format string, args ...any) *Error {
	return newError(KindUnsupported, format, args...)
}

func Unauthenticatedf(format string, args ...any) *Error {
	return newError(KindUnauthenticated, format, args...)
}

func Inactivef(format string, args ...any) *Error {
	return newError(KindInactive, format, args...)
}

// KindOf returns the kind of a domain error in err's chain, or "" for anything else.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
