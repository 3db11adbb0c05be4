// internal/app/system/rolesync/rolesync.go

// Package rolesync recomputes a user's single system-wide role from their
// per-project membership roles. All membership mutation paths (add, role
// update, removal, cascade delete) funnel through the Synchronizer so the
// promotion and demotion rules live in one place.
//
// The system role is most-recent-wins: assigning scrum_master in one
// project and then product_owner in another leaves the system role at
// product_owner, and it is not reconciled against older-but-still-active
// project roles until the next membership event fires a recompute. That is
// an accepted eventual-consistency property of the single-valued role, not
// a bug.
package rolesync

import (
	"context"
	"errors"
	"time"

	membershipstore "github.com/sprinthub/sprinthub/internal/app/store/memberships"
	userstore "github.com/sprinthub/sprinthub/internal/app/store/users"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.uber.org/zap"
)

// Synchronizer applies membership events to the user directory.
type Synchronizer struct {
	users   *userstore.Store
	members *membershipstore.Store
	log     *zap.Logger
}

func New(users *userstore.Store, members *membershipstore.Store, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{users: users, members: members, log: logger}
}

// systemRoleFor maps a project role to the system role it justifies.
// team_member justifies nothing and maps to "".
func systemRoleFor(role models.ProjectRole) models.SystemRole {
	switch role {
	case models.RoleScrumMaster:
		return models.SystemRoleScrumMaster
	case models.RoleProductOwner:
		return models.SystemRoleProductOwner
	default:
		return ""
	}
}

// MembershipChanged runs after a membership is added or its role updated.
// Admins are never touched by project activity. The write is skipped when
// the system role already matches, avoiding timestamp churn.
func (s *Synchronizer) MembershipChanged(ctx context.Context, userID string, role models.ProjectRole, now time.Time) error {
	target := systemRoleFor(role)
	if target == "" {
		return nil
	}

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			s.log.Warn("role sync: membership references missing user",
				zap.String("user_id", userID))
			return nil
		}
		return err
	}
	if u.Role == models.SystemRoleAdmin || u.Role == target {
		return nil
	}

	u.Role = target
	u.Touch(now)
	if err := s.users.Put(ctx, u); err != nil {
		return err
	}
	s.log.Info("system role updated from membership",
		zap.String("user_id", userID),
		zap.String("role", string(target)))
	return nil
}

// MembershipRemoved runs after a membership with the given role is removed
// from excludeProjectID (directly or by a project cascade; during a
// cascade the project's memberships are already gone, so the exclusion is
// a no-op there).
//
// Removing a team_member membership never affects the system role. For
// scrum_master or product_owner, the user keeps their system role only if
// another membership with the *same* project role remains; otherwise they
// are demoted to team_developer, even if they still hold the other
// elevated role somewhere else. That asymmetry is the documented
// most-recent-wins approximation.
func (s *Synchronizer) MembershipRemoved(ctx context.Context, userID string, removed models.ProjectRole, excludeProjectID string, now time.Time) error {
	if systemRoleFor(removed) == "" {
		return nil
	}

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			return nil
		}
		return err
	}
	if u.Role == models.SystemRoleAdmin {
		return nil
	}

	remaining, err := s.members.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, m := range remaining {
		if m.ProjectID == excludeProjectID {
			continue
		}
		if m.Role == removed {
			// Another project still justifies the role.
			return nil
		}
	}

	if u.Role == models.SystemRoleTeamDeveloper {
		return nil
	}
	u.Role = models.SystemRoleTeamDeveloper
	u.Touch(now)
	if err := s.users.Put(ctx, u); err != nil {
		return err
	}
	s.log.Info("system role demoted after membership removal",
		zap.String("user_id", userID),
		zap.String("removed_role", string(removed)))
	return nil
}
