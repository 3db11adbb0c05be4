// internal/app/store/tasks/taskstore.go
package taskstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sprinthub/sprinthub/internal/app/store/kv"
	"github.com/sprinthub/sprinthub/internal/domain/models"
)

// ErrNotFound is returned when no task record exists for the given id.
var ErrNotFound = errors.New("task not found")

const keyspace = "tasks"

// Store owns the tasks/{id} keyspace.
type Store struct {
	kv kv.Store
}

func New(s kv.Store) *Store {
	return &Store{kv: s}
}

func key(id string) kv.Key {
	return kv.Key{keyspace, id}
}

func (s *Store) Get(ctx context.Context, id string) (models.Task, error) {
	raw, found, err := s.kv.Get(ctx, key(id))
	if err != nil {
		return models.Task{}, err
	}
	if !found {
		return models.Task{}, ErrNotFound
	}
	var t models.Task
	if err := json.Unmarshal(raw, &t); err != nil {
		return models.Task{}, fmt.Errorf("decode task %s: %w", id, err)
	}
	return t, nil
}

func (s *Store) Put(ctx context.Context, t models.Task) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode task %s: %w", t.ID, err)
	}
	return s.kv.Set(ctx, key(t.ID), raw)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.kv.Delete(ctx, key(id))
}

// ListByStory returns every task whose user_story_id matches, via a full
// prefix scan. Tasks carry no secondary index; per-story task counts are
// sprint-sized, so the scan is acceptable.
func (s *Store) ListByStory(ctx context.Context, storyID string) ([]models.Task, error) {
	entries, err := s.kv.Scan(ctx, kv.Key{keyspace})
	if err != nil {
		return nil, err
	}
	tasks := make([]models.Task, 0, len(entries))
	for _, e := range entries {
		var t models.Task
		if err := json.Unmarshal(e.Value, &t); err != nil {
			return nil, fmt.Errorf("decode task %s: %w", e.Key.Encode(), err)
		}
		if t.UserStoryID == storyID {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}
