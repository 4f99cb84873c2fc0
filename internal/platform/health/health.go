// Package health serves the liveness endpoint backed by a store ping.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"cinedex/pkg/platform/httputil"
	"cinedex/pkg/requestcontext"
)

// Pinger is satisfied by every movie store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type response struct {
	Status string `json:"status"`
}

// Handler answers 200 {"status":"ok"} when the store responds within
// timeout and 503 {"status":"unavailable"} otherwise.
func Handler(store Pinger, timeout time.Duration, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			logger.WarnContext(ctx, "health check failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
			_ = httputil.WriteJSON(w, http.StatusServiceUnavailable, response{Status: "unavailable"})
			return
		}
		_ = httputil.WriteJSON(w, http.StatusOK, response{Status: "ok"})
	}
}
