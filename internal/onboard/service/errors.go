package service

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
)

// Kind classifies a failure for the transport layer and for retry decisions.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthorization
	KindNotFound
	KindConflict
	KindRateLimited
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRateLimited:
		return "rate_limited"
	case KindTransient:
		return "transient"
	default:
		return "internal"
	}
}

// Error is the error type every service operation returns. Code is stable
// and meant for machines; Message is for humans. Details carries extra
// response fields such as the rolled-back invitation id.
type Error struct {
	Kind    Kind
	Code    domain.Code
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// With returns a copy of e with an extra detail field.
func (e *Error) With(key string, value any) *Error {
	cp := *e
	cp.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		cp.Details[k] = v
	}
	cp.Details[key] = value
	return &cp
}

// KindOf returns the Kind of err, KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf returns the Code of err, CodeInternal when err is not an *Error.
func CodeOf(err error) domain.Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return domain.CodeInternal
}

func validationError(code domain.Code, msg string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: msg}
}

func forbidden(msg string) *Error {
	return &Error{Kind: KindAuthorization, Code: domain.CodeForbidden, Message: msg}
}

func notFound(code domain.Code, msg string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: msg}
}

func conflict(code domain.Code, msg string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: msg}
}

func internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Code: domain.CodeInternal, Message: msg, Err: err}
}

func transient(msg string, err error) *Error {
	return &Error{Kind: KindTransient, Code: domain.CodeIdentityError, Message: msg, Err: err}
}
