package sprints

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sprinthub/sprinthub/internal/app/features/shared/api"
	projectstore "github.com/sprinthub/sprinthub/internal/app/store/projects"
	sprintstore "github.com/sprinthub/sprinthub/internal/app/store/sprints"
	storystore "github.com/sprinthub/sprinthub/internal/app/store/stories"
	"github.com/sprinthub/sprinthub/internal/app/system/burndown"
	"github.com/sprinthub/sprinthub/internal/app/system/inputval"
	"github.com/sprinthub/sprinthub/internal/app/system/paging"
	"github.com/sprinthub/sprinthub/internal/app/system/timeouts"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves sprint CRUD, story assignment, and the burndown
// endpoints. Assignment writes both the sprint's id list and the
// story's back-reference; the two are not updated atomically and the
// burndown trusts only the back-references.
type Handler struct {
	Sprints  *sprintstore.Store
	Stories  *storystore.Store
	Projects *projectstore.Store
	Burndown *burndown.Calculator
	Log      *zap.Logger

	now func() time.Time
}

func NewHandler(sprints *sprintstore.Store, stories *storystore.Store, projects *projectstore.Store, calc *burndown.Calculator, logger *zap.Logger) *Handler {
	return &Handler{
		Sprints:  sprints,
		Stories:  stories,
		Projects: projects,
		Burndown: calc,
		Log:      logger,
		now:      time.Now,
	}
}

// SetNow overrides the clock for tests.
func (h *Handler) SetNow(now func() time.Time) {
	h.now = now
}

type createRequest struct {
	ProjectID string     `json:"project_id"`
	Name      string     `json:"name"`
	Goal      string     `json:"goal"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// ServeCreate handles POST /sprints.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !api.Decode(w, r, &req, h.Log) {
		return
	}
	if req.Name == "" {
		api.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		api.Error(w, http.StatusBadRequest, "end_date is before start_date")
		return
	}
	if _, err := h.Projects.Get(r.Context(), req.ProjectID); errors.Is(err, projectstore.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "project not found")
		return
	} else if err != nil {
		h.Log.Error("load project", zap.String("project_id", req.ProjectID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load project")
		return
	}

	sprint := models.Sprint{
		Model:     models.NewModel(h.now()),
		Name:      req.Name,
		Goal:      req.Goal,
		ProjectID: req.ProjectID,
		Status:    models.SprintPlanned,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := h.Sprints.Put(r.Context(), sprint); err != nil {
		h.Log.Error("create sprint", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not create sprint")
		return
	}
	api.Respond(w, http.StatusCreated, sprint)
}

type listResponse struct {
	Items []models.Sprint `json:"items"`
	Page  paging.Range    `json:"page"`
}

// ServeList handles GET /sprints?project_id=…&start=…
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		api.Error(w, http.StatusBadRequest, "project_id is required")
		return
	}
	sprints, err := h.Sprints.ListByProject(r.Context(), projectID)
	if err != nil {
		h.Log.Error("list sprints", zap.String("project_id", projectID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not list sprints")
		return
	}
	page, rng := paging.Window(sprints, paging.ParseStart(r))
	api.Respond(w, http.StatusOK, listResponse{Items: page, Page: rng})
}

// ServeGet handles GET /sprints/{sprintID}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	sprintID := chi.URLParam(r, "sprintID")

	sprint, err := h.Sprints.Get(r.Context(), sprintID)
	if errors.Is(err, sprintstore.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "sprint not found")
		return
	}
	if err != nil {
		h.Log.Error("get sprint", zap.String("sprint_id", sprintID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load sprint")
		return
	}
	api.Respond(w, http.StatusOK, sprint)
}

type statusRequest struct {
	Status string `json:"status"`
}

// ServeUpdateStatus handles PUT /sprints/{sprintID}/status.
func (h *Handler) ServeUpdateStatus(w http.ResponseWriter, r *http.Request) {
	sprintID := chi.URLParam(r, "sprintID")

	var req statusRequest
	if !api.Decode(w, r, &req, h.Log) {
		return
	}
	if !inputval.IsValidSprintStatus(req.Status) {
		api.Error(w, http.StatusBadRequest, "invalid sprint status")
		return
	}

	sprint, err := h.Sprints.Get(r.Context(), sprintID)
	if errors.Is(err, sprintstore.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "sprint not found")
		return
	}
	if err != nil {
		h.Log.Error("get sprint", zap.String("sprint_id", sprintID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load sprint")
		return
	}
	if sprint.Status != models.SprintStatus(req.Status) {
		sprint.Status = models.SprintStatus(req.Status)
		sprint.Touch(h.now())
		if err := h.Sprints.Put(r.Context(), sprint); err != nil {
			h.Log.Error("update sprint status", zap.String("sprint_id", sprintID), zap.Error(err))
			api.Error(w, http.StatusInternalServerError, "could not update status")
			return
		}
	}
	api.Respond(w, http.StatusOK, sprint)
}

type assignRequest struct {
	StoryID string `json:"story_id"`
}

// ServeAssignStory handles POST /sprints/{sprintID}/stories. The story's
// sprint_id back-reference is written first; it is the authoritative
// side, the sprint's id list is a convenience copy.
func (h *Handler) ServeAssignStory(w http.ResponseWriter, r *http.Request) {
	sprintID := chi.URLParam(r, "sprintID")

	var req assignRequest
	if !api.Decode(w, r, &req, h.Log) {
		return
	}

	sprint, err := h.Sprints.Get(r.Context(), sprintID)
	if errors.Is(err, sprintstore.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "sprint not found")
		return
	}
	if err != nil {
		h.Log.Error("get sprint", zap.String("sprint_id", sprintID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load sprint")
		return
	}
	story, err := h.Stories.Get(r.Context(), req.StoryID)
	if errors.Is(err, storystore.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "story not found")
		return
	}
	if err != nil {
		h.Log.Error("get story", zap.String("story_id", req.StoryID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load story")
		return
	}
	if story.ProjectID != sprint.ProjectID {
		api.Error(w, http.StatusBadRequest, "story belongs to a different project")
		return
	}

	if story.SprintID != sprintID {
		story.SprintID = sprintID
		story.Touch(h.now())
		if err := h.Stories.Put(r.Context(), story); err != nil {
			h.Log.Error("assign story", zap.String("story_id", story.ID), zap.Error(err))
			api.Error(w, http.StatusInternalServerError, "could not assign story")
			return
		}
	}
	if !contains(sprint.UserStoryIDs, story.ID) {
		sprint.UserStoryIDs = append(sprint.UserStoryIDs, story.ID)
		sprint.Touch(h.now())
		if err := h.Sprints.Put(r.Context(), sprint); err != nil {
			h.Log.Error("record assignment", zap.String("sprint_id", sprintID), zap.Error(err))
			api.Error(w, http.StatusInternalServerError, "could not record assignment")
			return
		}
	}
	api.Respond(w, http.StatusOK, sprint)
}

// ServeDetachStory handles DELETE /sprints/{sprintID}/stories/{storyID}.
func (h *Handler) ServeDetachStory(w http.ResponseWriter, r *http.Request) {
	sprintID := chi.URLParam(r, "sprintID")
	storyID := chi.URLParam(r, "storyID")

	sprint, err := h.Sprints.Get(r.Context(), sprintID)
	if errors.Is(err, sprintstore.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "sprint not found")
		return
	}
	if err != nil {
		h.Log.Error("get sprint", zap.String("sprint_id", sprintID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load sprint")
		return
	}

	story, err := h.Stories.Get(r.Context(), storyID)
	switch {
	case errors.Is(err, storystore.ErrNotFound):
		// Story already gone; still scrub the sprint's list below.
	case err != nil:
		h.Log.Error("get story", zap.String("story_id", storyID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load story")
		return
	case story.SprintID == sprintID:
		story.SprintID = ""
		story.Touch(h.now())
		if err := h.Stories.Put(r.Context(), story); err != nil {
			h.Log.Error("detach story", zap.String("story_id", storyID), zap.Error(err))
			api.Error(w, http.StatusInternalServerError, "could not detach story")
			return
		}
	}

	if contains(sprint.UserStoryIDs, storyID) {
		sprint.UserStoryIDs = remove(sprint.UserStoryIDs, storyID)
		sprint.Touch(h.now())
		if err := h.Sprints.Put(r.Context(), sprint); err != nil {
			h.Log.Error("record detachment", zap.String("sprint_id", sprintID), zap.Error(err))
			api.Error(w, http.StatusInternalServerError, "could not record detachment")
			return
		}
	}
	api.Respond(w, http.StatusOK, sprint)
}

// ServeBurndown handles GET /sprints/{sprintID}/burndown, returning the
// stored snapshot without recomputing.
func (h *Handler) ServeBurndown(w http.ResponseWriter, r *http.Request) {
	sprintID := chi.URLParam(r, "sprintID")

	if _, err := h.Sprints.Get(r.Context(), sprintID); errors.Is(err, sprintstore.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "sprint not found")
		return
	} else if err != nil {
		h.Log.Error("get sprint", zap.String("sprint_id", sprintID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load sprint")
		return
	}

	points, err := h.Burndown.Snapshot(r.Context(), sprintID)
	if err != nil {
		h.Log.Error("load burndown", zap.String("sprint_id", sprintID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load burndown")
		return
	}
	api.Respond(w, http.StatusOK, points)
}

// ServeRecomputeBurndown handles POST /sprints/{sprintID}/burndown/recompute.
// Precondition failures (no dates, no pointed stories) map to 412.
func (h *Handler) ServeRecomputeBurndown(w http.ResponseWriter, r *http.Request) {
	sprintID := chi.URLParam(r, "sprintID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	points, err := h.Burndown.Recompute(ctx, sprintID)
	switch {
	case errors.Is(err, sprintstore.ErrNotFound):
		api.Error(w, http.StatusNotFound, "sprint not found")
		return
	case errors.Is(err, burndown.ErrMissingDates), errors.Is(err, burndown.ErrNoPoints):
		api.Error(w, http.StatusPreconditionFailed, err.Error())
		return
	case err != nil:
		h.Log.Error("recompute burndown", zap.String("sprint_id", sprintID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not recompute burndown")
		return
	}
	api.Respond(w, http.StatusOK, points)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
