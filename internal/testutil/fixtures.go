package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/sprinthub/sprinthub/internal/app/store/kv"
	membershipstore "github.com/sprinthub/sprinthub/internal/app/store/memberships"
	projectstore "github.com/sprinthub/sprinthub/internal/app/store/projects"
	sprintstore "github.com/sprinthub/sprinthub/internal/app/store/sprints"
	storystore "github.com/sprinthub/sprinthub/internal/app/store/stories"
	taskstore "github.com/sprinthub/sprinthub/internal/app/store/tasks"
	userstore "github.com/sprinthub/sprinthub/internal/app/store/users"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.uber.org/zap"
)

// BaseTime is the fixed reference time fixtures stamp onto created
// entities, so tests can reason about timestamps deterministically.
var BaseTime = time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)

// SetupStore returns a fresh in-memory kv store for one test.
func SetupStore(t *testing.T) *kv.Memory {
	t.Helper()
	return kv.NewMemory()
}

// Logger returns a no-op logger for wiring stores and engines in tests.
func Logger() *zap.Logger {
	return zap.NewNop()
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	t  *testing.T
	kv kv.Store

	Users    *userstore.Store
	Projects *projectstore.Store
	Stories  *storystore.Store
	Tasks    *taskstore.Store
	Sprints  *sprintstore.Store
	Members  *membershipstore.Store
}

// NewFixtures wires the entity stores over the given kv store.
func NewFixtures(t *testing.T, store kv.Store) *Fixtures {
	t.Helper()
	return &Fixtures{
		t:        t,
		kv:       store,
		Users:    userstore.New(store),
		Projects: projectstore.New(store),
		Stories:  storystore.New(store),
		Tasks:    taskstore.New(store),
		Sprints:  sprintstore.New(store),
		Members:  membershipstore.New(store, Logger()),
	}
}

// CreateUser creates a user with the given name and system role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName string, role models.SystemRole) models.User {
	f.t.Helper()
	u := models.User{
		Model:    models.NewModel(BaseTime),
		FullName: fullName,
		Email:    fullName + "@example.com",
		Role:     role,
	}
	if err := f.Users.Put(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateProject creates a project in planning status.
func (f *Fixtures) CreateProject(ctx context.Context, name, createdBy string) models.Project {
	f.t.Helper()
	p := models.Project{
		Model:     models.NewModel(BaseTime),
		Name:      name,
		Status:    models.ProjectPlanning,
		CreatedBy: createdBy,
	}
	if err := f.Projects.Put(ctx, p); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// CreateMember adds a membership through the membership store so both
// indices are written.
func (f *Fixtures) CreateMember(ctx context.Context, projectID, userID string, role models.ProjectRole) models.ProjectMember {
	f.t.Helper()
	m := models.ProjectMember{
		Model:     models.NewModel(BaseTime),
		UserID:    userID,
		ProjectID: projectID,
		Role:      role,
	}
	if err := f.Members.Add(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// CreateStory creates a story in the given project.
func (f *Fixtures) CreateStory(ctx context.Context, projectID, title string, points float64) models.UserStory {
	f.t.Helper()
	s := models.UserStory{
		Model:     models.NewModel(BaseTime),
		Title:     title,
		Priority:  models.PriorityMedium,
		Status:    models.StoryBacklog,
		Points:    points,
		ProjectID: projectID,
	}
	if err := f.Stories.Put(ctx, s); err != nil {
		f.t.Fatalf("failed to create test story: %v", err)
	}
	return s
}

// CreateTask creates a task under the given story.
func (f *Fixtures) CreateTask(ctx context.Context, storyID, title string, status models.TaskStatus) models.Task {
	f.t.Helper()
	task := models.Task{
		Model:       models.NewModel(BaseTime),
		Title:       title,
		UserStoryID: storyID,
		Status:      status,
	}
	if err := f.Tasks.Put(ctx, task); err != nil {
		f.t.Fatalf("failed to create test task: %v", err)
	}
	return task
}

// CreateSprint creates a sprint with the given day-granularity bounds.
func (f *Fixtures) CreateSprint(ctx context.Context, projectID, name string, start, end *time.Time) models.Sprint {
	f.t.Helper()
	sp := models.Sprint{
		Model:     models.NewModel(BaseTime),
		Name:      name,
		ProjectID: projectID,
		Status:    models.SprintPlanned,
		StartDate: start,
		EndDate:   end,
	}
	if err := f.Sprints.Put(ctx, sp); err != nil {
		f.t.Fatalf("failed to create test sprint: %v", err)
	}
	return sp
}

// Day returns BaseTime's day shifted by n days, at UTC midnight.
func Day(n int) time.Time {
	d := BaseTime.UTC()
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return d.AddDate(0, 0, n)
}

// DayPtr is Day for fields taking *time.Time.
func DayPtr(n int) *time.Time {
	d := Day(n)
	return &d
}
