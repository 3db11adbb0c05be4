// internal/app/system/lifecycle/lifecycle.go

// Package lifecycle owns project creation, updates, status transitions,
// and the cascading delete of a project with everything that depends on
// it. The cascade is an ordered sequence of independent writes with no
// transaction: children before parents (tasks, stories, sprints,
// memberships, then the project itself), so a crash mid-sequence leaves
// orphaned children rather than a surviving parent with dangling
// references. A failed cascade is logged and reported, never retried
// here; re-invoking the delete is idempotent because already-deleted
// children are skipped as not-found no-ops.
package lifecycle

import (
	"context"
	"time"

	burndownstore "github.com/sprinthub/sprinthub/internal/app/store/burndown"
	membershipstore "github.com/sprinthub/sprinthub/internal/app/store/memberships"
	projectstore "github.com/sprinthub/sprinthub/internal/app/store/projects"
	sprintstore "github.com/sprinthub/sprinthub/internal/app/store/sprints"
	storystore "github.com/sprinthub/sprinthub/internal/app/store/stories"
	taskstore "github.com/sprinthub/sprinthub/internal/app/store/tasks"
	"github.com/sprinthub/sprinthub/internal/app/system/rolesync"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.uber.org/zap"
)

// Manager orchestrates project lifecycle operations.
type Manager struct {
	projects  *projectstore.Store
	stories   *storystore.Store
	tasks     *taskstore.Store
	sprints   *sprintstore.Store
	members   *membershipstore.Store
	snapshots *burndownstore.Store
	roles     *rolesync.Synchronizer
	log       *zap.Logger
	now       func() time.Time
}

func New(
	projects *projectstore.Store,
	stories *storystore.Store,
	tasks *taskstore.Store,
	sprints *sprintstore.Store,
	members *membershipstore.Store,
	snapshots *burndownstore.Store,
	roles *rolesync.Synchronizer,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		projects:  projects,
		stories:   stories,
		tasks:     tasks,
		sprints:   sprints,
		members:   members,
		snapshots: snapshots,
		roles:     roles,
		log:       logger,
		now:       time.Now,
	}
}

// SetNow overrides the clock. Test hook.
func (m *Manager) SetNow(now func() time.Time) {
	m.now = now
}

// CreateParams are the caller-supplied fields for a new project. The
// route layer has already validated shapes; the manager only applies
// defaults and the envelope.
type CreateParams struct {
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedBy   string
}

// Create writes a new project in planning status with no members.
// Membership, including the creator's, is added through the membership
// store so the indices and role sync always see it.
func (m *Manager) Create(ctx context.Context, p CreateParams) (models.Project, error) {
	project := models.Project{
		Model:       models.NewModel(m.now()),
		Name:        p.Name,
		Description: p.Description,
		Status:      models.ProjectPlanning,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		CreatedBy:   p.CreatedBy,
	}
	if err := m.projects.Put(ctx, project); err != nil {
		return models.Project{}, err
	}
	m.log.Info("project created",
		zap.String("project_id", project.ID),
		zap.String("created_by", p.CreatedBy))
	return project, nil
}

// UpdateParams carries optional field updates; nil means leave unchanged.
type UpdateParams struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// Update is a read-modify-write that bumps UpdatedAt.
func (m *Manager) Update(ctx context.Context, projectID string, p UpdateParams) (models.Project, error) {
	project, err := m.projects.Get(ctx, projectID)
	if err != nil {
		return models.Project{}, err
	}
	if p.Name != nil {
		project.Name = *p.Name
	}
	if p.Description != nil {
		project.Description = *p.Description
	}
	if p.StartDate != nil {
		project.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		project.EndDate = p.EndDate
	}
	project.Touch(m.now())
	if err := m.projects.Put(ctx, project); err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// UpdateStatus transitions the project's workflow status.
func (m *Manager) UpdateStatus(ctx context.Context, projectID string, status models.ProjectStatus) (models.Project, error) {
	project, err := m.projects.Get(ctx, projectID)
	if err != nil {
		return models.Project{}, err
	}
	if project.Status == status {
		return project, nil
	}
	project.Status = status
	project.Touch(m.now())
	if err := m.projects.Put(ctx, project); err != nil {
		return models.Project{}, err
	}
	m.log.Info("project status changed",
		zap.String("project_id", projectID),
		zap.String("status", string(status)))
	return project, nil
}

// Delete cascades over everything referencing the project, children
// first, and finally removes the project record. On any error it logs,
// aborts the remaining steps, and returns false; the store is then
// partially deleted and the documented recovery is to invoke Delete
// again. A delete of an absent project returns (false,
// projectstore.ErrNotFound), which also makes the second of two
// back-to-back deletes a no-op rather than a failure.
func (m *Manager) Delete(ctx context.Context, projectID string) (bool, error) {
	if _, err := m.projects.Get(ctx, projectID); err != nil {
		return false, err
	}

	// 1–2. Collect children up front. Stories and sprints have no
	// per-project index; both are full prefix scans with a filter.
	stories, err := m.stories.ListByProject(ctx, projectID)
	if err != nil {
		return m.abort(projectID, "list stories", err)
	}
	sprints, err := m.sprints.ListByProject(ctx, projectID)
	if err != nil {
		return m.abort(projectID, "list sprints", err)
	}

	// 3. Tasks, then their story.
	for _, st := range stories {
		tasks, err := m.tasks.ListByStory(ctx, st.ID)
		if err != nil {
			return m.abort(projectID, "list tasks", err)
		}
		for _, t := range tasks {
			if err := m.tasks.Delete(ctx, t.ID); err != nil {
				return m.abort(projectID, "delete task", err)
			}
		}
		if err := m.stories.Delete(ctx, st.ID); err != nil {
			return m.abort(projectID, "delete story", err)
		}
		m.log.Info("cascade: story removed",
			zap.String("project_id", projectID),
			zap.String("story_id", st.ID),
			zap.Int("tasks", len(tasks)))
	}

	// 4. Sprints, including their cached burndown series.
	for _, sp := range sprints {
		if err := m.snapshots.Clear(ctx, sp.ID); err != nil {
			return m.abort(projectID, "clear burndown", err)
		}
		if err := m.sprints.Delete(ctx, sp.ID); err != nil {
			return m.abort(projectID, "delete sprint", err)
		}
	}
	if len(sprints) > 0 {
		m.log.Info("cascade: sprints removed",
			zap.String("project_id", projectID),
			zap.Int("count", len(sprints)))
	}

	// 5. Memberships. Walk the raw by_project index so dangling entry
	// pairs left by a crashed removal are scrubbed too; the stale-skipping
	// list path would never see them and they would outlive the project.
	removed, err := m.members.PurgeProject(ctx, projectID)
	if err != nil {
		return m.abort(projectID, "purge memberships", err)
	}

	// 6. Role resync for users who held an elevated role here. Their
	// memberships in this project are already gone, so the exclusion is
	// belt-and-braces.
	now := m.now()
	for _, rm := range removed {
		if err := m.roles.MembershipRemoved(ctx, rm.UserID, rm.Role, projectID, now); err != nil {
			return m.abort(projectID, "role resync", err)
		}
	}

	// 7. The project record last, so a crash anywhere above leaves a
	// surviving parent over missing children, which a retried delete
	// cleans up.
	if err := m.projects.Delete(ctx, projectID); err != nil {
		return m.abort(projectID, "delete project", err)
	}

	m.log.Info("project deleted",
		zap.String("project_id", projectID),
		zap.Int("stories", len(stories)),
		zap.Int("sprints", len(sprints)),
		zap.Int("members", len(removed)))
	return true, nil
}

// abort logs a failed cascade step and surfaces the partial-delete state
// to the caller. No automatic retry: the UI owns "press delete again".
func (m *Manager) abort(projectID, step string, err error) (bool, error) {
	m.log.Error("project cascade aborted",
		zap.String("project_id", projectID),
		zap.String("step", step),
		zap.Error(err))
	return false, err
}
