package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNetwork          = errors.New("network unreachable")
	ErrServer           = errors.New("server error")
	ErrRateLimited      = errors.New("too many requests")
	ErrDuplicateAccount = errors.New("account already exists")
	ErrInvalidCode      = errors.New("invalid verification code")
	ErrExpiredSession   = errors.New("verification session expired")
	ErrValidation       = errors.New("invalid request")
)

// Error is a failed auth API call. Kind is one of the sentinel errors
// above; Err is the underlying cause, if any.
type Error struct {
	Op      string
	Status  int
	Message string
	Field   string
	Kind    error
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: %d %s", e.Op, e.Status, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

// Unwrap exposes Kind and Err. A duplicate account is also a validation
// failure.
func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Kind == ErrDuplicateAccount {
		errs = append(errs, ErrValidation)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// kindFor maps a non-2xx status of op to its error kind.
func kindFor(op string, status int) error {
	switch {
	case status >= http.StatusInternalServerError:
		return ErrServer
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status == http.StatusConflict:
		return ErrDuplicateAccount
	}

	if op == OpVerifyOtp {
		switch status {
		case http.StatusBadRequest:
			return ErrInvalidCode
		case http.StatusUnauthorized, http.StatusNotFound, http.StatusGone:
			return ErrExpiredSession
		}
	}

	if status >= http.StatusBadRequest {
		return ErrValidation
	}
	// 1xx and 3xx never reach callers as success
	return ErrServer
}

// NewValidationError builds a local validation failure for op.
func NewValidationError(op, field, message string) *Error {
	return &Error{Op: op, Field: field, Message: message, Kind: ErrValidation}
}
