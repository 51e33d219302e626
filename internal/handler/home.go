package handler

import (
	"net/http"

	"github.com/joestump/sara/internal/auth"
)

// HomePage is the data for the home page. Next is forwarded by the login form.
type HomePage struct {
	BasePage
	Next string
}

// HomeHandler serves the application page.
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler() *HomeHandler { return &HomeHandler{} }

// Index serves GET /: the login form for anonymous visitors, the signed-in
// view otherwise.
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	render(w, "home.html", HomePage{
		BasePage: newBasePage(r, user),
		Next:     r.URL.Query().Get("next"),
	})
}
