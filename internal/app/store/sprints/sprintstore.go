// internal/app/store/sprints/sprintstore.go
package sprintstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sprinthub/sprinthub/internal/app/store/kv"
	"github.com/sprinthub/sprinthub/internal/domain/models"
)

// ErrNotFound is returned when no sprint record exists for the given id.
var ErrNotFound = errors.New("sprint not found")

const keyspace = "sprints"

// Store owns the sprints/{id} keyspace.
type Store struct {
	kv kv.Store
}

func New(s kv.Store) *Store {
	return &Store{kv: s}
}

func key(id string) kv.Key {
	return kv.Key{keyspace, id}
}

func (s *Store) Get(ctx context.Context, id string) (models.Sprint, error) {
	raw, found, err := s.kv.Get(ctx, key(id))
	if err != nil {
		return models.Sprint{}, err
	}
	if !found {
		return models.Sprint{}, ErrNotFound
	}
	var sp models.Sprint
	if err := json.Unmarshal(raw, &sp); err != nil {
		return models.Sprint{}, fmt.Errorf("decode sprint %s: %w", id, err)
	}
	return sp, nil
}

func (s *Store) Put(ctx context.Context, sp models.Sprint) error {
	raw, err := json.Marshal(sp)
	if err != nil {
		return fmt.Errorf("encode sprint %s: %w", sp.ID, err)
	}
	return s.kv.Set(ctx, key(sp.ID), raw)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.kv.Delete(ctx, key(id))
}

// ListByProject returns every sprint whose project_id matches.
func (s *Store) ListByProject(ctx context.Context, projectID string) ([]models.Sprint, error) {
	entries, err := s.kv.Scan(ctx, kv.Key{keyspace})
	if err != nil {
		return nil, err
	}
	sprints := make([]models.Sprint, 0, len(entries))
	for _, e := range entries {
		var sp models.Sprint
		if err := json.Unmarshal(e.Value, &sp); err != nil {
			return nil, fmt.Errorf("decode sprint %s: %w", e.Key.Encode(), err)
		}
		if sp.ProjectID == projectID {
			sprints = append(sprints, sp)
		}
	}
	return sprints, nil
}
