package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, cfg RouterConfig) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /readyz", handler.Readyz)
	if cfg.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}
	if !cfg.SwaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerManagerRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/managers/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyProfile)))
	mux.Handle("PATCH /v1/managers/me", RequireAuth(verifier, http.HandlerFunc(handler.MutateMyRoster)))
	mux.Handle("GET /v1/players", RequireAuth(verifier, http.HandlerFunc(handler.ListPlayers)))
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	internal := func(h http.HandlerFunc) http.Handler {
		return RequireInternalJobToken(internalJobToken, h)
	}

	mux.Handle("POST /v1/internal/jobs/sync-players", internal(handler.RunSyncPlayersJob))
	mux.Handle("POST /v1/internal/jobs/rank-managers", internal(handler.RunRankManagersJob))
	mux.Handle("GET /v1/internal/jobs/runs/{runID}", internal(handler.GetJobRun))
	mux.Handle("POST /v1/internal/players", internal(handler.CreatePlayer))
}
