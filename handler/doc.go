// Package handler renders HTTP responses for the access API.
//
// Handlers return a Response instead of writing to the ResponseWriter
// directly; Wrap adapts them to http.HandlerFunc and routes render failures
// to an ErrorHandler. JSON bodies share one envelope:
//
//	{"data": ..., "error": {"code": "...", "message": "..."}}
//
// Errors are mapped to status codes through HTTPError; any other error
// becomes a 500 with code "internal_error".
package handler
