package tasks

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sprinthub/sprinthub/internal/app/features/shared/api"
	storystore "github.com/sprinthub/sprinthub/internal/app/store/stories"
	taskstore "github.com/sprinthub/sprinthub/internal/app/store/tasks"
	"github.com/sprinthub/sprinthub/internal/app/system/inputval"
	"github.com/sprinthub/sprinthub/internal/app/system/storystatus"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves task CRUD. Every mutation ends with a recalculation of
// the parent story's status so the derived state never goes stale. The
// recalculation is best-effort ordered: the task write lands first, then
// the aggregation reads it back.
type Handler struct {
	Tasks      *taskstore.Store
	Stories    *storystore.Store
	Aggregator *storystatus.Aggregator
	Log        *zap.Logger

	now func() time.Time
}

func NewHandler(tasks *taskstore.Store, stories *storystore.Store, agg *storystatus.Aggregator, logger *zap.Logger) *Handler {
	return &Handler{
		Tasks:      tasks,
		Stories:    stories,
		Aggregator: agg,
		Log:        logger,
		now:        time.Now,
	}
}

// SetNow overrides the clock for tests.
func (h *Handler) SetNow(now func() time.Time) {
	h.now = now
}

type createRequest struct {
	UserStoryID    string  `json:"user_story_id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	AssignedTo     string  `json:"assigned_to"`
	EstimatedHours float64 `json:"estimated_hours"`
}

// ServeCreate handles POST /tasks. New tasks start in todo, which can
// pull an all-done story back to in_progress via the recalculation.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !api.Decode(w, r, &req, h.Log) {
		return
	}
	if req.Title == "" {
		api.Error(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.EstimatedHours < 0 {
		api.Error(w, http.StatusBadRequest, "estimated_hours cannot be negative")
		return
	}
	if _, err := h.Stories.Get(r.Context(), req.UserStoryID); errors.Is(err, storystore.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "story not found")
		return
	} else if err != nil {
		h.Log.Error("load story", zap.String("story_id", req.UserStoryID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load story")
		return
	}

	task := models.Task{
		Model:          models.NewModel(h.now()),
		Title:          req.Title,
		Description:    req.Description,
		UserStoryID:    req.UserStoryID,
		Status:         models.TaskTodo,
		AssignedTo:     req.AssignedTo,
		EstimatedHours: req.EstimatedHours,
	}
	if err := h.Tasks.Put(r.Context(), task); err != nil {
		h.Log.Error("create task", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not create task")
		return
	}
	h.recalculate(r, task.UserStoryID)
	api.Respond(w, http.StatusCreated, task)
}

// ServeGet handles GET /tasks/{taskID}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	task, err := h.Tasks.Get(r.Context(), taskID)
	if errors.Is(err, taskstore.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		h.Log.Error("get task", zap.String("task_id", taskID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load task")
		return
	}
	api.Respond(w, http.StatusOK, task)
}

type updateRequest struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	Status         *string  `json:"status"`
	AssignedTo     *string  `json:"assigned_to"`
	EstimatedHours *float64 `json:"estimated_hours"`
	SpentHours     *float64 `json:"spent_hours"`
	SpentMode      string   `json:"spent_mode"`
}

// ServeUpdate handles PATCH /tasks/{taskID}. spent_hours honors
// spent_mode: "add" accumulates onto the current value, "set" replaces
// it; the default is add.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	var req updateRequest
	if !api.Decode(w, r, &req, h.Log) {
		return
	}
	if req.SpentMode == "" {
		req.SpentMode = "add"
	}
	if !inputval.IsValidSpentMode(req.SpentMode) {
		api.Error(w, http.StatusBadRequest, "spent_mode must be add or set")
		return
	}

	task, err := h.Tasks.Get(r.Context(), taskID)
	if errors.Is(err, taskstore.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		h.Log.Error("get task", zap.String("task_id", taskID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load task")
		return
	}

	if req.Title != nil {
		if *req.Title == "" {
			api.Error(w, http.StatusBadRequest, "title cannot be empty")
			return
		}
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		if !inputval.IsValidTaskStatus(*req.Status) {
			api.Error(w, http.StatusBadRequest, "invalid task status")
			return
		}
		task.Status = models.TaskStatus(*req.Status)
	}
	if req.AssignedTo != nil {
		task.AssignedTo = *req.AssignedTo
	}
	if req.EstimatedHours != nil {
		if *req.EstimatedHours < 0 {
			api.Error(w, http.StatusBadRequest, "estimated_hours cannot be negative")
			return
		}
		task.EstimatedHours = *req.EstimatedHours
	}
	if req.SpentHours != nil {
		if *req.SpentHours < 0 {
			api.Error(w, http.StatusBadRequest, "spent_hours cannot be negative")
			return
		}
		if req.SpentMode == "set" {
			task.SpentHours = *req.SpentHours
		} else {
			task.SpentHours += *req.SpentHours
		}
	}

	task.Touch(h.now())
	if err := h.Tasks.Put(r.Context(), task); err != nil {
		h.Log.Error("update task", zap.String("task_id", taskID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not update task")
		return
	}
	h.recalculate(r, task.UserStoryID)
	api.Respond(w, http.StatusOK, task)
}

// ServeDelete handles DELETE /tasks/{taskID}. Removing the last
// non-done task can flip the story to done on recalculation.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	task, err := h.Tasks.Get(r.Context(), taskID)
	if errors.Is(err, taskstore.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		h.Log.Error("get task", zap.String("task_id", taskID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load task")
		return
	}
	if err := h.Tasks.Delete(r.Context(), taskID); err != nil {
		h.Log.Error("delete task", zap.String("task_id", taskID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not delete task")
		return
	}
	h.recalculate(r, task.UserStoryID)
	api.Respond(w, http.StatusOK, map[string]bool{"deleted": true})
}

// recalculate refreshes the parent story's derived status. A failure
// here leaves the story stale until the next task mutation; it does not
// fail the request whose task write already landed.
func (h *Handler) recalculate(r *http.Request, storyID string) {
	if _, err := h.Aggregator.Recalculate(r.Context(), storyID, h.now()); err != nil {
		h.Log.Warn("story status recalculation failed",
			zap.String("story_id", storyID), zap.Error(err))
	}
}
