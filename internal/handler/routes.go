package handler

import (
	"net/http"
)

// RouterConfig holds what NewRouter needs to register every route
type RouterConfig struct {
	Activities *ActivityHandler
	Store      Pinger
	Backend    string
	// Metrics is mounted at GET /metrics when non-nil
	Metrics http.Handler
}

// NewRouter registers the API, health, metrics and UI routes
func NewRouter(cfg RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	// Health and metrics
	mux.HandleFunc("GET /health", Health(cfg.Store, cfg.Backend))
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	// Activity registry
	mux.HandleFunc("GET /activities", cfg.Activities.List)
	mux.HandleFunc("GET /activities/{activity}", cfg.Activities.Get)
	mux.HandleFunc("POST /activities/{activity}/signup", cfg.Activities.Signup)
	mux.HandleFunc("DELETE /activities/{activity}/unregister", cfg.Activities.Unregister)

	// UI
	mux.HandleFunc("GET /{$}", RootRedirect)
	mux.Handle("GET /static/", Static())

	return mux
}
