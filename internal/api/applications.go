package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/joestump/sara/internal/auth"
	"github.com/joestump/sara/internal/store"
)

type applicationHandler struct {
	apps   store.ApplicationStoreIface
	logger zerolog.Logger
}

// List handles GET /applications with the caller's granted applications.
func (h *applicationHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	apps, err := h.apps.ListForUser(r.Context(), user.ID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", user.ID).Msg("list applications")
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	out := make([]ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, toApplicationResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /applications/{name}. auth.Access has already checked
// the grant.
func (h *applicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.apps.GetByName(r.Context(), chi.URLParam(r, "name"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("get application")
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationResponse(*a))
}

func toApplicationResponse(a store.Application) ApplicationResponse {
	return ApplicationResponse{Name: a.Name, Description: a.Description}
}
