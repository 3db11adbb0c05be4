// internal/app/features/sprints/routes.go
package sprints

import (
	"github.com/go-chi/chi/v5"
	"github.com/sprinthub/sprinthub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)

	r.Route("/{sprintID}", func(sr chi.Router) {
		sr.Get("/", h.ServeGet)
		sr.Put("/status", h.ServeUpdateStatus)
		sr.Post("/stories", h.ServeAssignStory)
		sr.Delete("/stories/{storyID}", h.ServeDetachStory)
		sr.Get("/burndown", h.ServeBurndown)
		sr.Post("/burndown/recompute", h.ServeRecomputeBurndown)
	})
	return r
}
