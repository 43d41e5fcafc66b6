// internal/app/features/api/routes.go
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Routes serves the JSON API. Only GET is exposed, so cross-origin reads
// are allowed from anywhere without credentials.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/resources", h.ListResources)
	r.Get("/resources/{id}", h.GetResource)
	r.Get("/categories", h.ListCategories)
	return r
}
