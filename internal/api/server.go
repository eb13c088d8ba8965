package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/promptvault/internal/ingest"
	"github.com/MikeSquared-Agency/promptvault/internal/observability"
	"github.com/MikeSquared-Agency/promptvault/internal/store"
)

// Importer is the ingestion surface the API exposes.
type Importer interface {
	Import(ctx context.Context, req ingest.Request) (*ingest.Outcome, error)
	Stats(ctx context.Context, ownerID uuid.UUID) (ingest.Stats, error)
	History(ctx context.Context, ownerID uuid.UUID, projectID *uuid.UUID) ([]store.AuditRecord, error)
	Entry(ctx context.Context, ownerID, id uuid.UUID) (*store.Entry, error)
}

type Server struct {
	router         *chi.Mux
	importer       Importer
	maxUploadBytes int64
}

func NewServer(apiToken string, im Importer, maxUploadBytes int64) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:         router,
		importer:       im,
		maxUploadBytes: maxUploadBytes,
	}

	router.Get("/health", s.health)
	router.Handle("/metrics", observability.MetricsHandler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/promptvault/status", s.status)

		r.Group(func(r chi.Router) {
			r.Use(BearerAuthMiddleware(apiToken))
			r.Post("/projects/{projectID}/imports", s.importTranscript)
			r.Post("/projects/{projectID}/imports/preview", s.previewTranscript)
			r.Get("/imports/stats", s.importStats)
			r.Get("/imports/history", s.importHistory)
			r.Get("/entries/{entryID}", s.getEntry)
		})
	})

	return s
}

// Handler returns the root handler for an http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "promptvault",
		"status":  "ok",
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
