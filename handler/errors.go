package handler

import (
	"errors"
	"net/http"
)

var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError carries a status code and a stable machine-readable code.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Status)
}

func (e *HTTPError) Unwrap() error { return e.Err }

// NewHTTPError builds an HTTPError, defaulting the message to the status text.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

func BadRequest(code, message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, code, message, nil)
}

func Unauthorized(code, message string) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, code, message, nil)
}

func ServiceUnavailable(code, message string, err error) *HTTPError {
	return NewHTTPError(http.StatusServiceUnavailable, code, message, err)
}
