// internal/app/store/memberships/membershipstore.go
package membershipstore

// Key layout owned by this package:
//   project_members/{memberID}                       -> ProjectMember record
//   project_members/by_user/{userID}/{projectID}     -> memberID
//   project_members/by_project/{projectID}/{userID}  -> memberID
//
// The two indices are pure lookup accelerators and are written after the
// primary record with no atomicity across the three keys. Between writes a
// reader can observe the primary without the indices (or, after a failed
// removal, an index entry without the primary); scans therefore treat a
// dangling index entry as already-deleted and skip it.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sprinthub/sprinthub/internal/app/store/kv"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no membership exists for the given
// (project, user) pair.
var ErrNotFound = errors.New("membership not found")

const keyspace = "project_members"

// Store maintains the primary ProjectMember records and their two indices
// in lock-step.
type Store struct {
	kv  kv.Store
	log *zap.Logger
}

func New(s kv.Store, logger *zap.Logger) *Store {
	return &Store{kv: s, log: logger}
}

func primaryKey(memberID string) kv.Key {
	return kv.Key{keyspace, memberID}
}

func byUserKey(userID, projectID string) kv.Key {
	return kv.Key{keyspace, "by_user", userID, projectID}
}

func byProjectKey(projectID, userID string) kv.Key {
	return kv.Key{keyspace, "by_project", projectID, userID}
}

// Add writes the primary record, then the by_user entry, then the
// by_project entry. Three independent writes; the ordering guarantees a
// crash leaves at worst a primary without indices, never an index pointing
// at a record that was never written.
func (s *Store) Add(ctx context.Context, m models.ProjectMember) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode membership %s: %w", m.ID, err)
	}
	if err := s.kv.Set(ctx, primaryKey(m.ID), raw); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, byUserKey(m.UserID, m.ProjectID), []byte(m.ID)); err != nil {
		return err
	}
	return s.kv.Set(ctx, byProjectKey(m.ProjectID, m.UserID), []byte(m.ID))
}

// Get resolves (projectID, userID) through the by_project index.
func (s *Store) Get(ctx context.Context, projectID, userID string) (models.ProjectMember, error) {
	idRaw, found, err := s.kv.Get(ctx, byProjectKey(projectID, userID))
	if err != nil {
		return models.ProjectMember{}, err
	}
	if !found {
		return models.ProjectMember{}, ErrNotFound
	}
	m, ok, err := s.deref(ctx, string(idRaw))
	if err != nil {
		return models.ProjectMember{}, err
	}
	if !ok {
		// Stale index entry; the primary is gone.
		return models.ProjectMember{}, ErrNotFound
	}
	return m, nil
}

// UpdateRole rewrites the primary record with the new role and bumped
// UpdatedAt. The indices hold only the member id and need no touch-up.
// Writing is skipped when the role is unchanged to avoid timestamp churn.
func (s *Store) UpdateRole(ctx context.Context, projectID, userID string, role models.ProjectRole, now time.Time) (models.ProjectMember, error) {
	m, err := s.Get(ctx, projectID, userID)
	if err != nil {
		return models.ProjectMember{}, err
	}
	if m.Role == role {
		return m, nil
	}
	m.Role = role
	m.Touch(now)

	raw, err := json.Marshal(m)
	if err != nil {
		return models.ProjectMember{}, fmt.Errorf("encode membership %s: %w", m.ID, err)
	}
	if err := s.kv.Set(ctx, primaryKey(m.ID), raw); err != nil {
		return models.ProjectMember{}, err
	}
	return m, nil
}

// Remove deletes the primary record and both index entries for
// (projectID, userID). If the by_project lookup misses, Remove is a no-op
// returning ErrNotFound rather than an error; re-running a removal (or a
// cascade) over already-deleted memberships is expected.
//
// The removed record is returned so the caller can feed its role into the
// role synchronizer's demotion check.
func (s *Store) Remove(ctx context.Context, projectID, userID string) (models.ProjectMember, error) {
	idRaw, found, err := s.kv.Get(ctx, byProjectKey(projectID, userID))
	if err != nil {
		return models.ProjectMember{}, err
	}
	if !found {
		return models.ProjectMember{}, ErrNotFound
	}
	memberID := string(idRaw)

	m, ok, err := s.deref(ctx, memberID)
	if err != nil {
		return models.ProjectMember{}, err
	}

	// Primary first, indices after: a crash mid-removal leaves dangling
	// index entries, which scans already skip, rather than an indexless
	// primary that no lookup can reach.
	if err := s.kv.Delete(ctx, primaryKey(memberID)); err != nil {
		return models.ProjectMember{}, err
	}
	if err := s.kv.Delete(ctx, byUserKey(userID, projectID)); err != nil {
		return models.ProjectMember{}, err
	}
	if err := s.kv.Delete(ctx, byProjectKey(projectID, userID)); err != nil {
		return models.ProjectMember{}, err
	}

	if !ok {
		// The index was stale; nothing was actually removed beyond cleanup.
		s.log.Debug("removed stale membership index entries",
			zap.String("project_id", projectID),
			zap.String("user_id", userID))
		return models.ProjectMember{}, ErrNotFound
	}
	return m, nil
}

// Removal is what PurgeProject deleted for one user, carried out so the
// caller can run the role synchronizer after the records are gone.
type Removal struct {
	UserID string
	Role   models.ProjectRole
}

// PurgeProject deletes every membership of a project by walking the raw
// by_project index rather than the stale-skipping list path. A dangling
// entry pair left behind by a crashed Remove is scrubbed along with the
// live entries; it yields no Removal, since there is no role left to
// resync.
func (s *Store) PurgeProject(ctx context.Context, projectID string) ([]Removal, error) {
	entries, err := s.kv.Scan(ctx, kv.Key{keyspace, "by_project", projectID})
	if err != nil {
		return nil, err
	}
	removed := make([]Removal, 0, len(entries))
	for _, e := range entries {
		userID := e.Key[e.Key.Len()-1]
		memberID := string(e.Value)

		m, ok, err := s.deref(ctx, memberID)
		if err != nil {
			return nil, err
		}
		// Same ordering as Remove: primary first, indices after.
		if err := s.kv.Delete(ctx, primaryKey(memberID)); err != nil {
			return nil, err
		}
		if err := s.kv.Delete(ctx, byUserKey(userID, projectID)); err != nil {
			return nil, err
		}
		if err := s.kv.Delete(ctx, e.Key); err != nil {
			return nil, err
		}
		if !ok {
			s.log.Debug("purged stale membership index entries",
				zap.String("project_id", projectID),
				zap.String("user_id", userID))
			continue
		}
		removed = append(removed, Removal{UserID: userID, Role: m.Role})
	}
	return removed, nil
}

// ListByUser prefix-scans the by_user index and dereferences each entry,
// skipping stale ones.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]models.ProjectMember, error) {
	return s.listIndex(ctx, kv.Key{keyspace, "by_user", userID})
}

// ListByProject prefix-scans the by_project index and dereferences each
// entry, skipping stale ones.
func (s *Store) ListByProject(ctx context.Context, projectID string) ([]models.ProjectMember, error) {
	return s.listIndex(ctx, kv.Key{keyspace, "by_project", projectID})
}

func (s *Store) listIndex(ctx context.Context, prefix kv.Key) ([]models.ProjectMember, error) {
	entries, err := s.kv.Scan(ctx, prefix)
	if err != nil {
		return nil, err
	}
	members := make([]models.ProjectMember, 0, len(entries))
	for _, e := range entries {
		m, ok, err := s.deref(ctx, string(e.Value))
		if err != nil {
			return nil, err
		}
		if !ok {
			// Index entry outlived its primary record; the index is
			// allowed to lag between non-atomic writes.
			s.log.Debug("skipping stale membership index entry",
				zap.String("key", e.Key.Encode()))
			continue
		}
		members = append(members, m)
	}
	return members, nil
}

// deref resolves a member id to its primary record. ok=false means the
// record is gone (stale index entry), which is not an error.
func (s *Store) deref(ctx context.Context, memberID string) (models.ProjectMember, bool, error) {
	raw, found, err := s.kv.Get(ctx, primaryKey(memberID))
	if err != nil {
		return models.ProjectMember{}, false, err
	}
	if !found {
		return models.ProjectMember{}, false, nil
	}
	var m models.ProjectMember
	if err := json.Unmarshal(raw, &m); err != nil {
		return models.ProjectMember{}, false, fmt.Errorf("decode membership %s: %w", memberID, err)
	}
	return m, true, nil
}
