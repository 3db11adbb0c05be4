package stories

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sprinthub/sprinthub/internal/app/features/shared/api"
	projectstore "github.com/sprinthub/sprinthub/internal/app/store/projects"
	storystore "github.com/sprinthub/sprinthub/internal/app/store/stories"
	taskstore "github.com/sprinthub/sprinthub/internal/app/store/tasks"
	"github.com/sprinthub/sprinthub/internal/app/system/auth"
	"github.com/sprinthub/sprinthub/internal/app/system/htmlsanitize"
	"github.com/sprinthub/sprinthub/internal/app/system/inputval"
	"github.com/sprinthub/sprinthub/internal/app/system/paging"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves user story CRUD. There is no delete route: stories only
// leave the store through the project cascade, which also takes their
// tasks with them.
type Handler struct {
	Stories  *storystore.Store
	Tasks    *taskstore.Store
	Projects *projectstore.Store
	Log      *zap.Logger

	now func() time.Time
}

func NewHandler(stories *storystore.Store, tasks *taskstore.Store, projects *projectstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Stories:  stories,
		Tasks:    tasks,
		Projects: projects,
		Log:      logger,
		now:      time.Now,
	}
}

// SetNow overrides the clock for tests.
func (h *Handler) SetNow(now func() time.Time) {
	h.now = now
}

type createRequest struct {
	ProjectID          string  `json:"project_id"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	AcceptanceCriteria string  `json:"acceptance_criteria"`
	Priority           string  `json:"priority"`
	Points             float64 `json:"points"`
	AssignedTo         string  `json:"assigned_to"`
}

// ServeCreate handles POST /stories. Rich-text fields are sanitized
// before they are stored.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !api.Decode(w, r, &req, h.Log) {
		return
	}
	if req.Title == "" {
		api.Error(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Priority == "" {
		req.Priority = string(models.PriorityMedium)
	}
	if !inputval.IsValidStoryPriority(req.Priority) {
		api.Error(w, http.StatusBadRequest, "invalid priority")
		return
	}
	if req.Points < 0 {
		api.Error(w, http.StatusBadRequest, "points cannot be negative")
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

	u, _ := auth.CurrentUser(r)
	story := models.UserStory{
		Model:              models.NewModel(h.now()),
		Title:              req.Title,
		Description:        htmlsanitize.Sanitize(req.Description),
		AcceptanceCriteria: htmlsanitize.Sanitize(req.AcceptanceCriteria),
		Priority:           models.StoryPriority(req.Priority),
		Status:             models.StoryBacklog,
		Points:             req.Points,
		ProjectID:          req.ProjectID,
		CreatedBy:          u.ID,
		AssignedTo:         req.AssignedTo,
	}
	if err := h.Stories.Put(r.Context(), story); err != nil {
		h.Log.Error("create story", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not create story")
		return
	}
	api.Respond(w, http.StatusCreated, story)
}

type listResponse struct {
	Items []models.UserStory `json:"items"`
	Page  paging.Range       `json:"page"`
}

// ServeList handles GET /stories?project_id=…&start=…
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		api.Error(w, http.StatusBadRequest, "project_id is required")
		return
	}
	stories, err := h.Stories.ListByProject(r.Context(), projectID)
	if err != nil {
		h.Log.Error("list stories", zap.String("project_id", projectID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not list stories")
		return
	}
	page, rng := paging.Window(stories, paging.ParseStart(r))
	api.Respond(w, http.StatusOK, listResponse{Items: page, Page: rng})
}

type storyView struct {
	models.UserStory
	Tasks []models.Task `json:"tasks"`
}

// ServeGet handles GET /stories/{storyID}, returning the story with its
// tasks joined.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	storyID := chi.URLParam(r, "storyID")

	story, err := h.Stories.Get(r.Context(), storyID)
	if errors.Is(err, storystore.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "story not found")
		return
	}
	if err != nil {
		h.Log.Error("get story", zap.String("story_id", storyID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load story")
		return
	}
	tasks, err := h.Tasks.ListByStory(r.Context(), storyID)
	if err != nil {
		h.Log.Error("list tasks", zap.String("story_id", storyID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load tasks")
		return
	}
	api.Respond(w, http.StatusOK, storyView{UserStory: story, Tasks: tasks})
}

type updateRequest struct {
	Title              *string  `json:"title"`
	Description        *string  `json:"description"`
	AcceptanceCriteria *string  `json:"acceptance_criteria"`
	Priority           *string  `json:"priority"`
	Status             *string  `json:"status"`
	Points             *float64 `json:"points"`
	AssignedTo         *string  `json:"assigned_to"`
}

// ServeUpdate handles PATCH /stories/{storyID}. Status can be set
// directly only while the story has no tasks; once tasks exist the
// status is derived from them and a manual value would be overwritten by
// the next task mutation anyway, so the request is rejected instead.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	storyID := chi.URLParam(r, "storyID")

	var req updateRequest
	if !api.Decode(w, r, &req, h.Log) {
		return
	}

	story, err := h.Stories.Get(r.Context(), storyID)
	if errors.Is(err, storystore.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "story not found")
		return
	}
	if err != nil {
		h.Log.Error("get story", zap.String("story_id", storyID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load story")
		return
	}

	if req.Status != nil {
		if !inputval.IsValidStoryStatus(*req.Status) {
			api.Error(w, http.StatusBadRequest, "invalid story status")
			return
		}
		tasks, err := h.Tasks.ListByStory(r.Context(), storyID)
		if err != nil {
			h.Log.Error("list tasks", zap.String("story_id", storyID), zap.Error(err))
			api.Error(w, http.StatusInternalServerError, "could not load tasks")
			return
		}
		if len(tasks) > 0 {
			api.Error(w, http.StatusConflict, "status is derived from tasks; update the tasks instead")
			return
		}
		story.Status = models.StoryStatus(*req.Status)
	}
	if req.Title != nil {
		if *req.Title == "" {
			api.Error(w, http.StatusBadRequest, "title cannot be empty")
			return
		}
		story.Title = *req.Title
	}
	if req.Description != nil {
		story.Description = htmlsanitize.Sanitize(*req.Description)
	}
	if req.AcceptanceCriteria != nil {
		story.AcceptanceCriteria = htmlsanitize.Sanitize(*req.AcceptanceCriteria)
	}
	if req.Priority != nil {
		if !inputval.IsValidStoryPriority(*req.Priority) {
			api.Error(w, http.StatusBadRequest, "invalid priority")
			return
		}
		story.Priority = models.StoryPriority(*req.Priority)
	}
	if req.Points != nil {
		if *req.Points < 0 {
			api.Error(w, http.StatusBadRequest, "points cannot be negative")
			return
		}
		story.Points = *req.Points
	}
	if req.AssignedTo != nil {
		story.AssignedTo = *req.AssignedTo
	}

	story.Touch(h.now())
	if err := h.Stories.Put(r.Context(), story); err != nil {
		h.Log.Error("update story", zap.String("story_id", storyID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not update story")
		return
	}
	api.Respond(w, http.StatusOK, story)
}
