package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeAuthentication = "authentication_error"
	CodeAuthorization  = "authorization_error"
	CodeNotFound       = "not_found"
	CodeValidation     = "validation_error"
	CodePaymentGateway = "payment_gateway_error"
	CodeInternal       = "internal_error"
)

// Messages surfaced verbatim to callers.
const (
	MsgNotLoggedIn         = "not logged in"
	MsgIncorrectCredential = "incorrect credentials"
	MsgNotAuthorized       = "not authorized"
)

// Error carries an HTTP status and a stable code alongside the cause.
// Msg, when set, is the caller-facing text; Err is kept for logs and errors.Is.
type Error struct {
	Status int
	Code   string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Authentication(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: CodeAuthentication, Msg: msg}
}

func Authorization() *Error {
	return &Error{Status: http.StatusForbidden, Code: CodeAuthorization, Msg: MsgNotAuthorized}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Msg: fmt.Sprintf(format, args...)}
}

// PaymentGateway wraps a processor failure; the cause is surfaced as-is.
func PaymentGateway(err error) *Error {
	return &Error{Status: http.StatusBadGateway, Code: CodePaymentGateway, Err: err}
}

func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: CodeInternal, Err: err}
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

// CodeOf returns the code of err, or CodeInternal for anything untyped.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := As(err); ok && e.Code != "" {
		return e.Code
	}
	return CodeInternal
}

func IsCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}
