package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/forgo/mergington/api/internal/model"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

const healthPingTimeout = 2 * time.Second

// Health returns a handler for GET /health that pings the activity store.
// backend names the store in the response.
func Health(store Pinger, backend string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			slog.Warn("health check failed",
				slog.String("store", backend),
				slog.String("error", err.Error()))
			WriteError(w, model.NewServiceUnavailableError(backend+" store unreachable"))
			return
		}

		WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok", Store: backend})
	}
}
