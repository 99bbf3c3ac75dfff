package handler

import (
	"net/http"
)

// Response renders itself to an http.ResponseWriter.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Func handles a request and returns the response to render.
type Func func(r *http.Request) Response

// ErrorHandler handles errors returned while rendering.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Wrap converts f into an http.HandlerFunc. A nil errorHandler falls back to
// DefaultErrorHandler.
func Wrap(f Func, errorHandler ErrorHandler) http.HandlerFunc {
	if errorHandler == nil {
		errorHandler = DefaultErrorHandler
	}
	return func(w http.ResponseWriter, r *http.Request) {
		resp := f(r)
		if resp == nil {
			errorHandler(w, r, ErrNilResponse)
			return
		}
		if err := resp.Render(w, r); err != nil {
			errorHandler(w, r, err)
		}
	}
}

// ResponseFunc adapts a function to Response.
type ResponseFunc func(w http.ResponseWriter, r *http.Request) error

func (f ResponseFunc) Render(w http.ResponseWriter, r *http.Request) error { return f(w, r) }
