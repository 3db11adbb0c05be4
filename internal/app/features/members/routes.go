// internal/app/features/members/routes.go
package members

import "github.com/go-chi/chi/v5"

// Routes is mounted under /projects/{projectID}/members; the parent
// router has already applied the sign-in requirement.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.ServeAdd)
	r.Put("/{userID}", h.ServeUpdateRole)
	r.Delete("/{userID}", h.ServeRemove)
	return r
}
