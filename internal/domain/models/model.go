// internal/domain/models/model.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Model is the envelope shared by every persisted entity.
//
// ID is opaque and immutable once assigned. UpdatedAt is bumped on every
// mutation; derived-state engines use it as the completion timestamp for
// tasks and stories, so writers must only touch it when state actually
// changes.
type Model struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewModel returns an envelope with a fresh id and both timestamps set to now.
func NewModel(now time.Time) Model {
	return Model{
		ID:        uuid.NewString(),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

// Touch bumps UpdatedAt.
func (m *Model) Touch(now time.Time) {
	m.UpdatedAt = now.UTC()
}
