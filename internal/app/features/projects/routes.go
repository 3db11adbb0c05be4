// internal/app/features/projects/routes.go
package projects

import (
	"github.com/go-chi/chi/v5"
	"github.com/sprinthub/sprinthub/internal/app/features/members"
	"github.com/sprinthub/sprinthub/internal/app/system/auth"
)

// Routes returns the router for /projects. The members router is
// mounted beneath each project so membership mutations always carry the
// project id in the path.
func Routes(h *Handler, mh *members.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)

	r.Route("/{projectID}", func(pr chi.Router) {
		pr.Get("/", h.ServeGet)
		pr.Patch("/", h.ServeUpdate)
		pr.Put("/status", h.ServeUpdateStatus)
		pr.Delete("/", h.ServeDelete)
		pr.Mount("/members", members.Routes(mh))
	})
	return r
}
