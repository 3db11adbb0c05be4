// internal/app/features/stories/routes.go
package stories

import (
	"github.com/go-chi/chi/v5"
	"github.com/sprinthub/sprinthub/internal/app/system/auth"
)

// Routes returns the router for /stories. Deletion is deliberately
// absent; stories are removed by the project cascade.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Get("/{storyID}", h.ServeGet)
	r.Patch("/{storyID}", h.ServeUpdate)
	return r
}
