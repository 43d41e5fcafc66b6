// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/resourcehub/internal/app/system/auth"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes serves /users. Every route is admin-only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin))

		pr.Get("/", h.ServeList)
		pr.Post("/{id}/role", h.HandleSetRole)
		pr.Post("/{id}/status", h.HandleSetStatus)
		pr.Post("/{id}/delete", h.HandleDelete)
	})

	return r
}
