package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/joestump/sara/internal/auth"
	"github.com/joestump/sara/internal/metrics"
	"github.com/joestump/sara/internal/store"
)

type themeHandler struct {
	users  store.UserStoreIface
	logger zerolog.Logger
}

// Set handles POST /settings/theme.
func (h *themeHandler) Set(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var req ThemeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ThemeResponse{Status: "error", Message: msgBadRequest})
		return
	}
	theme, err := store.ParseTheme(req.Theme)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ThemeResponse{Status: "error", Message: msgThemeInvalid})
		return
	}

	if err := h.users.SetTheme(r.Context(), user.ID, theme); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, ThemeResponse{Status: "error", Message: http.StatusText(http.StatusNotFound)})
			return
		}
		h.logger.Error().Err(err).Str("user_id", user.ID).Msg("save theme")
		writeJSON(w, http.StatusInternalServerError, ThemeResponse{Status: "error", Message: msgInternal})
		return
	}

	metrics.ThemeChangesTotal.WithLabelValues(string(theme)).Inc()
	writeJSON(w, http.StatusOK, ThemeResponse{Status: "ok", Message: msgThemeOK})
}
