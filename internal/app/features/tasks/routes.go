// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/go-chi/chi/v5"
	"github.com/sprinthub/sprinthub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Post("/", h.ServeCreate)
	r.Get("/{taskID}", h.ServeGet)
	r.Patch("/{taskID}", h.ServeUpdate)
	r.Delete("/{taskID}", h.ServeDelete)
	return r
}
