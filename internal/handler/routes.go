package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/msomdec/run-tracker/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	runs *service.RunService,
	stats *service.StatsService,
	photos *service.PhotoService,
	loginLimiter *service.TokenBucket,
) {
	authHandler := NewAuthHandler(auth, loginLimiter)
	runHandler := NewRunHandler(runs, photos)
	statsHandler := NewStatsHandler(stats)
	photoHandler := NewPhotoHandler(photos)

	protected := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(auth, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /auth/login", authHandler.HandleLogin)
	mux.Handle("GET /auth/me", protected(authHandler.HandleMe))

	mux.Handle("GET /runs", protected(runHandler.HandleList))
	mux.Handle("POST /runs", protected(runHandler.HandleCreate))
	mux.Handle("GET /runs/{id}", protected(runHandler.HandleGet))
	mux.Handle("DELETE /runs/{id}", protected(runHandler.HandleDelete))

	mux.Handle("GET /stats", protected(statsHandler.HandleStats))

	mux.HandleFunc("GET /uploads/{key}", photoHandler.HandleServe)

	mux.HandleFunc("/", HandleNotFound)
}
