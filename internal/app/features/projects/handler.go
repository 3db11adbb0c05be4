package projects

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sprinthub/sprinthub/internal/app/features/shared/api"
	membershipstore "github.com/sprinthub/sprinthub/internal/app/store/memberships"
	projectstore "github.com/sprinthub/sprinthub/internal/app/store/projects"
	userstore "github.com/sprinthub/sprinthub/internal/app/store/users"
	"github.com/sprinthub/sprinthub/internal/app/system/auth"
	"github.com/sprinthub/sprinthub/internal/app/system/authz"
	"github.com/sprinthub/sprinthub/internal/app/system/inputval"
	"github.com/sprinthub/sprinthub/internal/app/system/lifecycle"
	"github.com/sprinthub/sprinthub/internal/app/system/paging"
	"github.com/sprinthub/sprinthub/internal/app/system/timeouts"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves the project CRUD surface. Creation, status changes and
// the cascade delete all go through the lifecycle manager; reads hit the
// stores directly.
type Handler struct {
	Lifecycle *lifecycle.Manager
	Projects  *projectstore.Store
	Members   *membershipstore.Store
	Users     *userstore.Store
	Log       *zap.Logger
}

func NewHandler(lc *lifecycle.Manager, projects *projectstore.Store, members *membershipstore.Store, users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Lifecycle: lc,
		Projects:  projects,
		Members:   members,
		Users:     users,
		Log:       logger,
	}
}

type createRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// ServeCreate handles POST /projects.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !api.Decode(w, r, &req, h.Log) {
		return
	}
	if req.Name == "" {
		api.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	u, _ := auth.CurrentUser(r)

	project, err := h.Lifecycle.Create(r.Context(), lifecycle.CreateParams{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatedBy:   u.ID,
	})
	if err != nil {
		h.Log.Error("create project", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not create project")
		return
	}
	api.Respond(w, http.StatusCreated, project)
}

type listResponse struct {
	Items []models.Project `json:"items"`
	Page  paging.Range     `json:"page"`
}

// ServeList handles GET /projects?start=…
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Projects.List(r.Context())
	if err != nil {
		h.Log.Error("list projects", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not list projects")
		return
	}
	page, rng := paging.Window(projects, paging.ParseStart(r))
	api.Respond(w, http.StatusOK, listResponse{Items: page, Page: rng})
}

// memberView is a membership joined with the user's display fields.
type memberView struct {
	MemberID string             `json:"member_id"`
	UserID   string             `json:"user_id"`
	FullName string             `json:"full_name,omitempty"`
	Email    string             `json:"email,omitempty"`
	Role     models.ProjectRole `json:"role"`
}

type projectView struct {
	models.Project
	Members []memberView `json:"members"`
}

// ServeGet handles GET /projects/{projectID}. The member list is joined
// at read time from the by_project index; it is never stored on the
// project record.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	project, err := h.Projects.Get(r.Context(), projectID)
	if errors.Is(err, projectstore.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		h.Log.Error("get project", zap.String("project_id", projectID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load project")
		return
	}

	members, err := h.Members.ListByProject(r.Context(), projectID)
	if err != nil {
		h.Log.Error("list members", zap.String("project_id", projectID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load members")
		return
	}

	view := projectView{Project: project, Members: make([]memberView, 0, len(members))}
	for _, m := range members {
		mv := memberView{MemberID: m.ID, UserID: m.UserID, Role: m.Role}
		if u, err := h.Users.Get(r.Context(), m.UserID); err == nil {
			mv.FullName = u.FullName
			mv.Email = u.Email
		}
		view.Members = append(view.Members, mv)
	}
	api.Respond(w, http.StatusOK, view)
}

type updateRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// ServeUpdate handles PATCH /projects/{projectID}. Absent fields are
// left unchanged.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	var req updateRequest
	if !api.Decode(w, r, &req, h.Log) {
		return
	}
	if req.Name != nil && *req.Name == "" {
		api.Error(w, http.StatusBadRequest, "name cannot be empty")
		return
	}

	project, err := h.Lifecycle.Update(r.Context(), projectID, lifecycle.UpdateParams{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if errors.Is(err, projectstore.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		h.Log.Error("update project", zap.String("project_id", projectID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not update project")
		return
	}
	api.Respond(w, http.StatusOK, project)
}

type statusRequest struct {
	Status string `json:"status"`
}

// ServeUpdateStatus handles PUT /projects/{projectID}/status.
func (h *Handler) ServeUpdateStatus(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	var req statusRequest
	if !api.Decode(w, r, &req, h.Log) {
		return
	}
	if !inputval.IsValidProjectStatus(req.Status) {
		api.Error(w, http.StatusBadRequest, "invalid project status")
		return
	}

	project, err := h.Lifecycle.UpdateStatus(r.Context(), projectID, models.ProjectStatus(req.Status))
	if errors.Is(err, projectstore.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		h.Log.Error("update project status", zap.String("project_id", projectID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not update status")
		return
	}
	api.Respond(w, http.StatusOK, project)
}

// ServeDelete handles DELETE /projects/{projectID}. The cascade removes
// stories, tasks, sprints, burndown snapshots and memberships before the
// project record itself. A failed cascade leaves a partial delete; the
// recovery path is to call delete again.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if !authz.IsAdmin(r) {
		api.Error(w, http.StatusForbidden, "only admins can delete projects")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	ok, err := h.Lifecycle.Delete(ctx, projectID)
	if errors.Is(err, projectstore.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil || !ok {
		h.Log.Error("delete project", zap.String("project_id", projectID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "cascade delete failed; retry to resume")
		return
	}
	api.Respond(w, http.StatusOK, map[string]bool{"deleted": true})
}
