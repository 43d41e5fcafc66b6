// internal/app/features/favorites/routes.go
package favorites

import (
	"github.com/dalemusser/resourcehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountResourceRoutes adds the favorite toggle to the resources router.
func MountResourceRoutes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.With(sm.RequireSignedIn).Post("/{id}/favorite", h.HandleToggle)
}

// Routes serves /favorites.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeList)
	return r
}
