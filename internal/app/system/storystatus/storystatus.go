// internal/app/system/storystatus/storystatus.go

// Package storystatus derives a user story's workflow status from the
// statuses of its tasks. The derivation runs inline as the tail of every
// task create, update, and delete.
package storystatus

import (
	"context"
	"time"

	storystore "github.com/sprinthub/sprinthub/internal/app/store/stories"
	taskstore "github.com/sprinthub/sprinthub/internal/app/store/tasks"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.uber.org/zap"
)

// Derive computes the status implied by a story's task list.
//
// A story with zero tasks keeps its current status: a story legitimately
// sits in backlog awaiting decomposition, and a manually set status must
// not be clobbered when its last task is deleted. With tasks present the
// four outcomes are mutually exclusive: all done, any activity (or partial
// completion), all todo.
func Derive(current models.StoryStatus, tasks []models.Task) models.StoryStatus {
	if len(tasks) == 0 {
		return current
	}

	done := 0
	active := false
	for _, t := range tasks {
		switch t.Status {
		case models.TaskDone:
			done++
		case models.TaskInProgress, models.TaskReview:
			active = true
		}
	}

	switch {
	case done == len(tasks):
		return models.StoryDone
	case active || done > 0:
		return models.StoryInProgress
	default:
		return models.StoryPlanned
	}
}

// Aggregator loads a story's tasks and writes back the derived status.
type Aggregator struct {
	stories *storystore.Store
	tasks   *taskstore.Store
	log     *zap.Logger
}

func New(stories *storystore.Store, tasks *taskstore.Store, logger *zap.Logger) *Aggregator {
	return &Aggregator{stories: stories, tasks: tasks, log: logger}
}

// Recalculate re-derives the story's status after a task mutation. The
// write is skipped when the derived status matches the stored one, so an
// untouched story keeps its UpdatedAt (which doubles as the completion
// timestamp for burndown).
func (a *Aggregator) Recalculate(ctx context.Context, storyID string, now time.Time) (models.UserStory, error) {
	story, err := a.stories.Get(ctx, storyID)
	if err != nil {
		return models.UserStory{}, err
	}
	tasks, err := a.tasks.ListByStory(ctx, storyID)
	if err != nil {
		return models.UserStory{}, err
	}

	derived := Derive(story.Status, tasks)
	if derived == story.Status {
		return story, nil
	}

	story.Status = derived
	story.Touch(now)
	if err := a.stories.Put(ctx, story); err != nil {
		return models.UserStory{}, err
	}
	a.log.Info("story status derived from tasks",
		zap.String("story_id", storyID),
		zap.String("status", string(derived)))
	return story, nil
}
