// internal/app/system/lifecycle/members.go
package lifecycle

import (
	"context"
	"errors"

	membershipstore "github.com/sprinthub/sprinthub/internal/app/store/memberships"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.uber.org/zap"
)

// ErrAlreadyMember is returned when adding a user who already holds a
// membership in the project.
var ErrAlreadyMember = errors.New("user is already a member of this project")

// AddMember creates a membership and runs the role synchronizer as the
// tail of the mutation. Index writes happen before the role sync so the
// synchronizer's scan of the user's memberships sees the new record.
func (m *Manager) AddMember(ctx context.Context, projectID, userID string, role models.ProjectRole) (models.ProjectMember, error) {
	if _, err := m.projects.Get(ctx, projectID); err != nil {
		return models.ProjectMember{}, err
	}

	if _, err := m.members.Get(ctx, projectID, userID); err == nil {
		return models.ProjectMember{}, ErrAlreadyMember
	} else if !errors.Is(err, membershipstore.ErrNotFound) {
		return models.ProjectMember{}, err
	}

	mem := models.ProjectMember{
		Model:     models.NewModel(m.now()),
		UserID:    userID,
		ProjectID: projectID,
		Role:      role,
	}
	if err := m.members.Add(ctx, mem); err != nil {
		return models.ProjectMember{}, err
	}
	if err := m.roles.MembershipChanged(ctx, userID, role, m.now()); err != nil {
		return models.ProjectMember{}, err
	}
	m.log.Info("member added",
		zap.String("project_id", projectID),
		zap.String("user_id", userID),
		zap.String("role", string(role)))
	return mem, nil
}

// UpdateMemberRole changes a membership's role and re-runs the role
// synchronizer for the new role.
func (m *Manager) UpdateMemberRole(ctx context.Context, projectID, userID string, role models.ProjectRole) (models.ProjectMember, error) {
	mem, err := m.members.UpdateRole(ctx, projectID, userID, role, m.now())
	if err != nil {
		return models.ProjectMember{}, err
	}
	if err := m.roles.MembershipChanged(ctx, userID, role, m.now()); err != nil {
		return models.ProjectMember{}, err
	}
	return mem, nil
}

// RemoveMember deletes a membership and runs the synchronizer's demotion
// check against the user's remaining projects. A missing membership is
// ErrNotFound, not a failure.
func (m *Manager) RemoveMember(ctx context.Context, projectID, userID string) error {
	removed, err := m.members.Remove(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if err := m.roles.MembershipRemoved(ctx, userID, removed.Role, projectID, m.now()); err != nil {
		return err
	}
	m.log.Info("member removed",
		zap.String("project_id", projectID),
		zap.String("user_id", userID))
	return nil
}
