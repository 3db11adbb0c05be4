package storystatus_test

import (
	"context"
	"testing"
	"time"

	"github.com/sprinthub/sprinthub/internal/app/system/storystatus"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"github.com/sprinthub/sprinthub/internal/testutil"
)

func tasksWith(statuses ...models.TaskStatus) []models.Task {
	out := make([]models.Task, len(statuses))
	for i, s := range statuses {
		out[i] = models.Task{Status: s}
	}
	return out
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name    string
		current models.StoryStatus
		tasks   []models.Task
		want    models.StoryStatus
	}{
		{"no tasks keeps backlog", models.StoryBacklog, nil, models.StoryBacklog},
		{"no tasks keeps manual done", models.StoryDone, nil, models.StoryDone},
		{"all todo", models.StoryBacklog, tasksWith(models.TaskTodo, models.TaskTodo), models.StoryPlanned},
		{"one in progress", models.StoryPlanned, tasksWith(models.TaskTodo, models.TaskInProgress), models.StoryInProgress},
		{"one in review", models.StoryPlanned, tasksWith(models.TaskTodo, models.TaskReview), models.StoryInProgress},
		{"partial done counts as activity", models.StoryPlanned, tasksWith(models.TaskTodo, models.TaskDone), models.StoryInProgress},
		{"all done", models.StoryInProgress, tasksWith(models.TaskDone, models.TaskDone), models.StoryDone},
		{"single done task", models.StoryPlanned, tasksWith(models.TaskDone), models.StoryDone},
		{"done story regresses when task reopens", models.StoryDone, tasksWith(models.TaskDone, models.TaskTodo), models.StoryInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := storystatus.Derive(tt.current, tt.tasks); got != tt.want {
				t.Errorf("Derive(%s, %d tasks) = %s, want %s", tt.current, len(tt.tasks), got, tt.want)
			}
		})
	}
}

func TestRecalculate_FollowsTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewFixtures(t, testutil.SetupStore(t))
	agg := storystatus.New(f.Stories, f.Tasks, testutil.Logger())
	now := testutil.BaseTime.Add(time.Hour)

	story := f.CreateStory(ctx, "proj-1", "checkout flow", 5)
	t1 := f.CreateTask(ctx, story.ID, "design", models.TaskTodo)
	t2 := f.CreateTask(ctx, story.ID, "build", models.TaskTodo)
	t3 := f.CreateTask(ctx, story.ID, "verify", models.TaskTodo)

	got, err := agg.Recalculate(ctx, story.ID, now)
	if err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	if got.Status != models.StoryPlanned {
		t.Fatalf("status with all-todo tasks = %s, want planned", got.Status)
	}

	t1.Status = models.TaskInProgress
	if err := f.Tasks.Put(ctx, t1); err != nil {
		t.Fatalf("Put task: %v", err)
	}
	if got, err = agg.Recalculate(ctx, story.ID, now); err != nil || got.Status != models.StoryInProgress {
		t.Fatalf("after one task starts: status=%s err=%v, want in_progress", got.Status, err)
	}

	for _, task := range []models.Task{t1, t2, t3} {
		task.Status = models.TaskDone
		if err := f.Tasks.Put(ctx, task); err != nil {
			t.Fatalf("Put task: %v", err)
		}
	}
	if got, err = agg.Recalculate(ctx, story.ID, now); err != nil || got.Status != models.StoryDone {
		t.Fatalf("after all tasks done: status=%s err=%v, want done", got.Status, err)
	}
}

func TestRecalculate_SkipsWriteWhenUnchanged(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewFixtures(t, testutil.SetupStore(t))
	agg := storystatus.New(f.Stories, f.Tasks, testutil.Logger())

	story := f.CreateStory(ctx, "proj-1", "stable story", 3)
	later := testutil.BaseTime.Add(2 * time.Hour)

	// Zero tasks: the current status must survive and UpdatedAt must not
	// move, since it doubles as the completion timestamp for burndown.
	got, err := agg.Recalculate(ctx, story.ID, later)
	if err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	if got.Status != models.StoryBacklog {
		t.Errorf("status = %s, want backlog kept", got.Status)
	}
	if !got.UpdatedAt.Equal(story.UpdatedAt) {
		t.Errorf("UpdatedAt moved on a no-op recalculation: %v != %v", got.UpdatedAt, story.UpdatedAt)
	}
}
