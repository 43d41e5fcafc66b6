// internal/app/features/comments/routes.go
package comments

import (
	"github.com/dalemusser/resourcehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountResourceRoutes adds the comment form target to the resources router.
func MountResourceRoutes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.With(sm.RequireSignedIn).Post("/{id}/comments", h.HandleCreate)
}

// Routes serves /comments.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Post("/{id}/delete", h.HandleDelete)
	return r
}
