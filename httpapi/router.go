package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/proposalkit/rfp-assistant/agent/agents/orchestrator"
)

// NewRouter wires HTTP routes to the orchestrator service.
func NewRouter(svc *orchestrator.Orchestrator) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	h := NewHandler(svc)
	r.Route("/api", func(api chi.Router) {
		h.RegisterRoutes(api)
	})

	return r
}
