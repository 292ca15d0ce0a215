package analytics

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	dashboard "github.com/goliatone/go-store-dashboard/components/dashboard"
)

// NewMockHandler exposes a Client as a store backend over HTTP so the
// dashboard can run against it exactly like a real deployment.
func NewMockHandler(client Client) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get(OverviewPath, func(w http.ResponseWriter, req *http.Request) {
		overview, err := client.FetchOverview(req.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, overview)
	})

	r.Post(SeedPath, func(w http.ResponseWriter, req *http.Request) {
		if err := client.Seed(req.Context()); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "seeded"})
	})

	r.Get(DefaultHealthPath, func(w http.ResponseWriter, req *http.Request) {
		report, err := client.Ping(req.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "target": report.Target})
	})

	return r
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var statusErr *dashboard.HTTPStatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode >= 400 {
		status = statusErr.StatusCode
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
