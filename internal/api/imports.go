package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/promptvault/internal/ingest"
)

// importTranscript handles POST /api/v1/projects/{projectID}/imports
func (s *Server) importTranscript(w http.ResponseWriter, r *http.Request) {
	owner, project, name, content, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	out, err := s.importer.Import(r.Context(), ingest.Request{
		OwnerID:   owner,
		ProjectID: project,
		FileName:  name,
		Content:   content,
		SizeBytes: int64(len(content)),
	})
	if errors.Is(err, ingest.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("transcript import failed", "owner", owner, "project", project, "file", name, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("import failed: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, out)
}

// previewTranscript handles POST /api/v1/projects/{projectID}/imports/preview
func (s *Server) previewTranscript(w http.ResponseWriter, r *http.Request) {
	_, _, _, content, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ingest.Preview(content))
}

// importStats handles GET /api/v1/imports/stats
func (s *Server) importStats(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid "+OwnerHeader)
		return
	}

	st, err := s.importer.Stats(r.Context(), owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("stats failed: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// importHistory handles GET /api/v1/imports/history?project_id=
func (s *Server) importHistory(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid "+OwnerHeader)
		return
	}

	var projectID *uuid.UUID
	if raw := r.URL.Query().Get("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid project_id: %v", err))
			return
		}
		projectID = &id
	}

	recs, err := s.importer.History(r.Context(), owner, projectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("history failed: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"imports": recs,
		"count":   len(recs),
	})
}

// readUpload validates the owner and project and reads the multipart "file"
// field. It writes the error response itself and reports ok=false on failure.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (owner, project uuid.UUID, name string, content []byte, ok bool) {
	owner, valid := ownerFromRequest(r)
	if !valid {
		writeError(w, http.StatusBadRequest, "missing or invalid "+OwnerHeader)
		return
	}
	project, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid project id: %v", err))
		return
	}

	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds %d bytes", s.maxUploadBytes))
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("missing file: %v", err))
		return
	}
	defer file.Close()

	content, err = io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("read file: %v", err))
		return
	}

	return owner, project, header.Filename, content, true
}
