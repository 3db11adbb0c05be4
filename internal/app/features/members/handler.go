package members

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sprinthub/sprinthub/internal/app/features/shared/api"
	membershipstore "github.com/sprinthub/sprinthub/internal/app/store/memberships"
	projectstore "github.com/sprinthub/sprinthub/internal/app/store/projects"
	userstore "github.com/sprinthub/sprinthub/internal/app/store/users"
	"github.com/sprinthub/sprinthub/internal/app/system/authz"
	"github.com/sprinthub/sprinthub/internal/app/system/inputval"
	"github.com/sprinthub/sprinthub/internal/app/system/lifecycle"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves project membership mutations. Every mutation goes
// through the lifecycle manager so the dual indices and the role
// synchronizer stay in step with the primary records.
type Handler struct {
	Lifecycle *lifecycle.Manager
	Members   *membershipstore.Store
	Users     *userstore.Store
	Log       *zap.Logger
}

func NewHandler(lc *lifecycle.Manager, ms *membershipstore.Store, users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Lifecycle: lc, Members: ms, Users: users, Log: logger}
}

// ServeList handles GET /projects/{projectID}/members.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	memberships, err := h.Members.ListByProject(r.Context(), projectID)
	if err != nil {
		h.Log.Error("list members", zap.String("project_id", projectID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not list members")
		return
	}
	api.Respond(w, http.StatusOK, memberships)
}

type addRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// canManage gates membership mutations: admins always, plus users whose
// system role came from an elevated project role.
func canManage(r *http.Request) bool {
	return authz.HasAnyRole(r, "admin", "scrum_master", "product_owner")
}

// ServeAdd handles POST /projects/{projectID}/members.
func (h *Handler) ServeAdd(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if !canManage(r) {
		api.Error(w, http.StatusForbidden, "insufficient role to manage members")
		return
	}

	var req addRequest
	if !api.Decode(w, r, &req, h.Log) {
		return
	}
	if req.UserID == "" {
		api.Error(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if !inputval.IsValidProjectRole(req.Role) {
		api.Error(w, http.StatusBadRequest, "invalid project role")
		return
	}
	if _, err := h.Users.Get(r.Context(), req.UserID); errors.Is(err, userstore.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "user not found")
		return
	} else if err != nil {
		h.Log.Error("load user", zap.String("user_id", req.UserID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load user")
		return
	}

	mem, err := h.Lifecycle.AddMember(r.Context(), projectID, req.UserID, models.ProjectRole(req.Role))
	switch {
	case errors.Is(err, projectstore.ErrNotFound):
		api.Error(w, http.StatusNotFound, "project not found")
		return
	case errors.Is(err, lifecycle.ErrAlreadyMember):
		api.Error(w, http.StatusConflict, "user is already a member")
		return
	case err != nil:
		h.Log.Error("add member", zap.String("project_id", projectID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not add member")
		return
	}
	api.Respond(w, http.StatusCreated, mem)
}

type roleRequest struct {
	Role string `json:"role"`
}

// ServeUpdateRole handles PUT /projects/{projectID}/members/{userID}.
func (h *Handler) ServeUpdateRole(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	userID := chi.URLParam(r, "userID")
	if !canManage(r) {
		api.Error(w, http.StatusForbidden, "insufficient role to manage members")
		return
	}

	var req roleRequest
	if !api.Decode(w, r, &req, h.Log) {
		return
	}
	if !inputval.IsValidProjectRole(req.Role) {
		api.Error(w, http.StatusBadRequest, "invalid project role")
		return
	}

	mem, err := h.Lifecycle.UpdateMemberRole(r.Context(), projectID, userID, models.ProjectRole(req.Role))
	if errors.Is(err, membershipstore.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "membership not found")
		return
	}
	if err != nil {
		h.Log.Error("update member role", zap.String("project_id", projectID), zap.String("user_id", userID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not update role")
		return
	}
	api.Respond(w, http.StatusOK, mem)
}

// ServeRemove handles DELETE /projects/{projectID}/members/{userID}.
func (h *Handler) ServeRemove(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	userID := chi.URLParam(r, "userID")
	if !canManage(r) {
		api.Error(w, http.StatusForbidden, "insufficient role to manage members")
		return
	}

	err := h.Lifecycle.RemoveMember(r.Context(), projectID, userID)
	if errors.Is(err, membershipstore.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "membership not found")
		return
	}
	if err != nil {
		h.Log.Error("remove member", zap.String("project_id", projectID), zap.String("user_id", userID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not remove member")
		return
	}
	api.Respond(w, http.StatusOK, map[string]bool{"removed": true})
}
