// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sprinthub/sprinthub/internal/app/store/kv"
	"github.com/sprinthub/sprinthub/internal/domain/models"
)

// ErrNotFound is returned when no project record exists for the given id.
var ErrNotFound = errors.New("project not found")

const keyspace = "projects"

// Store owns the projects/{id} keyspace. Creation, status transitions, and
// the cascade delete all go through the lifecycle manager; this store is
// plain persistence.
type Store struct {
	kv kv.Store
}

func New(s kv.Store) *Store {
	return &Store{kv: s}
}

func key(id string) kv.Key {
	return kv.Key{keyspace, id}
}

func (s *Store) Get(ctx context.Context, id string) (models.Project, error) {
	raw, found, err := s.kv.Get(ctx, key(id))
	if err != nil {
		return models.Project{}, err
	}
	if !found {
		return models.Project{}, ErrNotFound
	}
	var p models.Project
	if err := json.Unmarshal(raw, &p); err != nil {
		return models.Project{}, fmt.Errorf("decode project %s: %w", id, err)
	}
	return p, nil
}

func (s *Store) Put(ctx context.Context, p models.Project) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode project %s: %w", p.ID, err)
	}
	return s.kv.Set(ctx, key(p.ID), raw)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.kv.Delete(ctx, key(id))
}

// List returns every project in key order.
func (s *Store) List(ctx context.Context) ([]models.Project, error) {
	entries, err := s.kv.Scan(ctx, kv.Key{keyspace})
	if err != nil {
		return nil, err
	}
	projects := make([]models.Project, 0, len(entries))
	for _, e := range entries {
		var p models.Project
		if err := json.Unmarshal(e.Value, &p); err != nil {
			return nil, fmt.Errorf("decode project %s: %w", e.Key.Encode(), err)
		}
		projects = append(projects, p)
	}
	return projects, nil
}
