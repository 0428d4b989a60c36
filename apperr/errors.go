// Package apperr defines the errors returned to API callers. Each carries a
// machine-readable code and an HTTP-like status that end up in the GraphQL
// error extensions.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeBadRequest      Code = "BAD_REQUEST"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL_SERVER_ERROR"
)

var statusByCode = map[Code]int{
	CodeUnauthenticated: http.StatusUnauthorized,
	CodeUnauthorized:    http.StatusUnauthorized,
	CodeForbidden:       http.StatusForbidden,
	CodeBadRequest:      http.StatusBadRequest,
	CodeNotFound:        http.StatusNotFound,
	CodeConflict:        http.StatusConflict,
	CodeInternal:        http.StatusInternalServerError,
}

type Error struct {
	Code    Code
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Extensions is picked up by graphql-go and copied into errors[].extensions
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code":   string(e.Code),
		"status": e.Status,
	}
}

func New(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Status: statusByCode[code], Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(msg string) *Error { return New(CodeUnauthenticated, "%s", msg) }
func Unauthorized(msg string) *Error    { return New(CodeUnauthorized, "%s", msg) }
func Forbidden(msg string) *Error       { return New(CodeForbidden, "%s", msg) }
func BadRequest(msg string) *Error      { return New(CodeBadRequest, "%s", msg) }
func NotFound(msg string) *Error        { return New(CodeNotFound, "%s", msg) }
func Conflict(msg string) *Error        { return New(CodeConflict, "%s", msg) }

// Internal hides err behind a generic message; err stays reachable through Unwrap for logging
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Status: http.StatusInternalServerError, Message: "Internal Server Error", Err: err}
}

// From returns err as *Error, converting anything else into an internal error
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// Is reports whether err is an *Error with the given code
func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
