package service

import (
	"errors"
	"fmt"
)

// Kind classifies service failures so that handlers can map them to responses
type Kind int

const (
	// KindStoreFailure is an unexpected storage error
	KindStoreFailure Kind = iota
	// KindValidation is bad input: empty field, duplicate username
	KindValidation
	// KindNotFound is an unknown user or note
	KindNotFound
	// KindInvalidCredentials is a password mismatch
	KindInvalidCredentials
	// KindForbidden is an authenticated principal without access to a note
	KindForbidden
)

// String returns the kind name for logs
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindForbidden:
		return "forbidden"
	default:
		return "store_failure"
	}
}

// Error is the tagged error returned by every service operation
type Error struct {
	Err     error
	Message string
	Kind    Kind
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err. Errors not produced by this package are store failures.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindStoreFailure
}

// MessageOf returns the user-facing message carried by err
func MessageOf(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return "internal server error"
}

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func storeFailure(op string, cause error) *Error {
	return newError(KindStoreFailure, op, cause)
}
