// internal/app/features/resources/routes.go
package resources

import (
	"github.com/dalemusser/resourcehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the resource pages under whatever base path the caller
// chooses (typically "/resources" from bootstrap).
//
// The list and detail pages are public; visibility is decided per resource.
// Writing requires a signed-in user, and edit/delete are further limited to
// the owner or an admin inside the handlers.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// LIST (filters + HTMX table swap)
	r.Get("/", h.ServeList)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// CREATE
		pr.Get("/new", h.ServeNew)
		pr.Post("/", h.HandleCreate)

		// EDIT
		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Post("/{id}/edit", h.HandleEdit)

		// DELETE
		pr.Post("/{id}/delete", h.HandleDelete)
	})

	// VIEW
	r.Get("/{id}", h.ServeView)

	return r
}
