// internal/app/store/stories/storystore.go
package storystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sprinthub/sprinthub/internal/app/store/kv"
	"github.com/sprinthub/sprinthub/internal/domain/models"
)

// ErrNotFound is returned when no story record exists for the given id.
var ErrNotFound = errors.New("user story not found")

const keyspace = "userStories"

// Store owns the userStories/{id} keyspace. There is no secondary index
// for stories; per-project and per-sprint lookups are full prefix scans
// with a filter.
type Store struct {
	kv kv.Store
}

func New(s kv.Store) *Store {
	return &Store{kv: s}
}

func key(id string) kv.Key {
	return kv.Key{keyspace, id}
}

func (s *Store) Get(ctx context.Context, id string) (models.UserStory, error) {
	raw, found, err := s.kv.Get(ctx, key(id))
	if err != nil {
		return models.UserStory{}, err
	}
	if !found {
		return models.UserStory{}, ErrNotFound
	}
	var story models.UserStory
	if err := json.Unmarshal(raw, &story); err != nil {
		return models.UserStory{}, fmt.Errorf("decode story %s: %w", id, err)
	}
	return story, nil
}

func (s *Store) Put(ctx context.Context, story models.UserStory) error {
	raw, err := json.Marshal(story)
	if err != nil {
		return fmt.Errorf("encode story %s: %w", story.ID, err)
	}
	return s.kv.Set(ctx, key(story.ID), raw)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.kv.Delete(ctx, key(id))
}

func (s *Store) list(ctx context.Context, keep func(models.UserStory) bool) ([]models.UserStory, error) {
	entries, err := s.kv.Scan(ctx, kv.Key{keyspace})
	if err != nil {
		return nil, err
	}
	stories := make([]models.UserStory, 0, len(entries))
	for _, e := range entries {
		var story models.UserStory
		if err := json.Unmarshal(e.Value, &story); err != nil {
			return nil, fmt.Errorf("decode story %s: %w", e.Key.Encode(), err)
		}
		if keep == nil || keep(story) {
			stories = append(stories, story)
		}
	}
	return stories, nil
}

// ListByProject returns every story whose project_id matches.
func (s *Store) ListByProject(ctx context.Context, projectID string) ([]models.UserStory, error) {
	return s.list(ctx, func(st models.UserStory) bool { return st.ProjectID == projectID })
}

// ListBySprint returns every story whose sprint_id back-reference matches.
// The sprint's own user_story_ids list is never consulted; it can drift.
func (s *Store) ListBySprint(ctx context.Context, sprintID string) ([]models.UserStory, error) {
	return s.list(ctx, func(st models.UserStory) bool { return st.SprintID == sprintID })
}
