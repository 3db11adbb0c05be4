// internal/app/system/burndown/burndown.go

// Package burndown computes a sprint's ideal-versus-actual point series
// from story points and task completion timestamps.
//
// The stored series is a cache behind a single invalidate-and-recompute
// entry point. Recomputation is always from scratch: completion
// timestamps can be edited retroactively (status corrections), and an
// incrementally maintained series would drift. Sprint-sized data volumes
// make the recompute cost irrelevant next to correctness.
package burndown

import (
	"context"
	"errors"
	"time"

	burndownstore "github.com/sprinthub/sprinthub/internal/app/store/burndown"
	sprintstore "github.com/sprinthub/sprinthub/internal/app/store/sprints"
	storystore "github.com/sprinthub/sprinthub/internal/app/store/stories"
	taskstore "github.com/sprinthub/sprinthub/internal/app/store/tasks"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.uber.org/zap"
)

// Precondition failures. A sprint without dates or without any story
// points cannot be normalized into an ideal line; raising beats silently
// returning an empty series, which would be indistinguishable from a
// sprint with zero scope.
var (
	ErrMissingDates = errors.New("sprint has no start or end date")
	ErrNoPoints     = errors.New("sprint stories carry no points")
)

// Calculator derives and persists burndown series.
type Calculator struct {
	sprints   *sprintstore.Store
	stories   *storystore.Store
	tasks     *taskstore.Store
	snapshots *burndownstore.Store
	log       *zap.Logger

	// now is swappable in tests; the series never extends past "today".
	now func() time.Time
}

func New(sprints *sprintstore.Store, stories *storystore.Store, tasks *taskstore.Store, snapshots *burndownstore.Store, logger *zap.Logger) *Calculator {
	return &Calculator{
		sprints:   sprints,
		stories:   stories,
		tasks:     tasks,
		snapshots: snapshots,
		log:       logger,
		now:       time.Now,
	}
}

// SetNow overrides the clock. Test hook.
func (c *Calculator) SetNow(now func() time.Time) {
	c.now = now
}

// Snapshot returns the stored series without recomputing.
func (c *Calculator) Snapshot(ctx context.Context, sprintID string) ([]models.BurndownPoint, error) {
	return c.snapshots.Series(ctx, sprintID)
}

// Recompute rebuilds the series for a sprint and replaces the stored
// snapshot wholesale. It is the only mutation path for stored points.
func (c *Calculator) Recompute(ctx context.Context, sprintID string) ([]models.BurndownPoint, error) {
	sprint, err := c.sprints.Get(ctx, sprintID)
	if err != nil {
		return nil, err
	}
	if sprint.StartDate == nil || sprint.EndDate == nil {
		return nil, ErrMissingDates
	}

	stories, err := c.stories.ListBySprint(ctx, sprintID)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, st := range stories {
		total += st.Points
	}
	if total == 0 {
		return nil, ErrNoPoints
	}

	start := dayStart(*sprint.StartDate)
	end := dayStart(*sprint.EndDate)
	// The ideal line spans the raw date difference rounded up to whole
	// days, so a sprint ending later in the day than it starts counts the
	// partial day as a full one.
	span := sprint.EndDate.Sub(*sprint.StartDate)
	durationDays := int(span / (24 * time.Hour))
	if span%(24*time.Hour) > 0 {
		durationDays++
	}
	if durationDays < 1 {
		durationDays = 1
	}
	idealPerDay := total / float64(durationDays)

	// Preload each story's tasks once; completion per day is recomputed
	// from the same snapshot.
	tasksByStory := make(map[string][]models.Task, len(stories))
	for _, st := range stories {
		ts, err := c.tasks.ListByStory(ctx, st.ID)
		if err != nil {
			return nil, err
		}
		tasksByStory[st.ID] = ts
	}

	last := dayStart(c.now())
	if end.Before(last) {
		last = end
	}

	var points []models.BurndownPoint
	for d, idx := start, 0; !d.After(last); d, idx = d.AddDate(0, 0, 1), idx+1 {
		dayEnd := d.AddDate(0, 0, 1)

		var completed float64
		for _, st := range stories {
			if storyCompleteBy(st, tasksByStory[st.ID], dayEnd) {
				completed += st.Points
			}
		}

		ideal := total - float64(idx)*idealPerDay
		if ideal < 0 {
			ideal = 0
		}
		points = append(points, models.BurndownPoint{
			SprintID:        sprintID,
			Date:            d,
			TotalPoints:     total,
			CompletedPoints: completed,
			RemainingPoints: total - completed,
			IdealRemaining:  ideal,
		})
	}

	if err := c.snapshots.Replace(ctx, sprintID, points); err != nil {
		return nil, err
	}
	c.log.Info("burndown recomputed",
		zap.String("sprint_id", sprintID),
		zap.Int("days", len(points)),
		zap.Float64("total_points", total))
	return points, nil
}

// storyCompleteBy reports whether a story counts as complete before
// dayEnd. With tasks, every task must have reached done by then (judged
// by UpdatedAt, which the aggregator only bumps on real status changes);
// without tasks, the story's own done status and timestamp decide.
func storyCompleteBy(st models.UserStory, tasks []models.Task, dayEnd time.Time) bool {
	if len(tasks) == 0 {
		return st.Status == models.StoryDone && st.UpdatedAt.Before(dayEnd)
	}
	for _, t := range tasks {
		if t.Status != models.TaskDone || !t.UpdatedAt.Before(dayEnd) {
			return false
		}
	}
	return true
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
