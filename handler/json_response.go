package handler

import (
	"encoding/json"
	"errors"
	"net/http"
)

// JSONResponse is the standard JSON envelope.
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type jsonResponse struct {
	status  int
	headers http.Header
	body    JSONResponse
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	for k, vs := range j.headers {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures a JSON response.
type JSONOption func(*jsonResponse)

func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) { r.status = status }
}

func WithJSONMeta(meta map[string]any) JSONOption {
	return func(r *jsonResponse) { r.body.Meta = meta }
}

// WithJSONHeader adds a response header.
func WithJSONHeader(key, value string) JSONOption {
	return func(r *jsonResponse) {
		if r.headers == nil {
			r.headers = http.Header{}
		}
		r.headers.Add(key, value)
	}
}

// JSON wraps v in the envelope's data field with status 200.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: JSONResponse{Data: v}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError renders err in the envelope's error field. The status comes from
// an HTTPError in the chain, or 500.
func JSONError(err error, opts ...JSONOption) Response {
	status, detail := errorToDetail(err)
	r := &jsonResponse{status: status, body: JSONResponse{Error: detail}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func errorToDetail(err error) (int, *ErrorDetail) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status, &ErrorDetail{Code: httpErr.Code, Message: httpErr.Error()}
	}
	return http.StatusInternalServerError, &ErrorDetail{
		Code:    "internal_error",
		Message: http.StatusText(http.StatusInternalServerError),
	}
}
