package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/promptvault/internal/store"
)

// getEntry handles GET /api/v1/entries/{entryID}
func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid "+OwnerHeader)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid entry id: %v", err))
		return
	}

	e, err := s.importer.Entry(r.Context(), owner, id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("get entry: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, e)
}
