// internal/app/features/categories/routes.go
package categories

import (
	"github.com/dalemusser/resourcehub/internal/app/system/auth"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes serves /categories. Anyone may browse; only admins create.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.With(sm.RequireRole(models.RoleAdmin)).Post("/", h.HandleCreate)
	return r
}
