package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carlfalc/glutenworld-sub001/handler"
	"github.com/carlfalc/glutenworld-sub001/pkg/logger"
)

// Check is a named readiness dependency.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// LivenessHandler always answers 200.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = handler.JSON(map[string]string{"status": "alive"}).Render(w, r)
	}
}

// ReadinessHandler runs every check concurrently within timeout. Any failure
// turns the response into a 503 listing the failed checks.
func ReadinessHandler(log *slog.Logger, timeout time.Duration, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		var (
			mu      sync.Mutex
			results = make(map[string]string, len(checks))
			g       errgroup.Group
		)
		for _, c := range checks {
			g.Go(func() error {
				err := c.Fn(ctx)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					results[c.Name] = "failed"
					log.ErrorContext(ctx, "readiness check failed", slog.String("check", c.Name), logger.Error(err))
					return err
				}
				results[c.Name] = "ok"
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			_ = handler.JSON(
				map[string]any{"status": "not_ready", "checks": results},
				handler.WithJSONStatus(http.StatusServiceUnavailable),
			).Render(w, r)
			return
		}
		_ = handler.JSON(map[string]any{"status": "ready", "checks": results}).Render(w, r)
	}
}
