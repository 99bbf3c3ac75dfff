package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/carlfalc/glutenworld-sub001/pkg/logger"
)

// WantsJSON reports whether the client prefers a JSON body over a page or
// redirect.
func WantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") {
		return true
	}
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// DefaultErrorHandler renders err as a JSON envelope.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	_ = JSONError(err).Render(w, r)
}

// LoggingErrorHandler logs server errors at error level and client errors at
// warn level before rendering them.
func LoggingErrorHandler(log *slog.Logger) ErrorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		status, _ := errorToDetail(err)
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		log.Log(r.Context(), level, "request failed",
			slog.Int("status", status),
			slog.String("path", r.URL.Path),
			logger.Error(err),
		)
		DefaultErrorHandler(w, r, err)
	}
}
