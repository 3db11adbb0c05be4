// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sprinthub/sprinthub/internal/app/store/kv"
	"github.com/sprinthub/sprinthub/internal/app/system/normalize"
	"github.com/sprinthub/sprinthub/internal/domain/models"
)

// ErrNotFound is returned when no user record exists for the given id.
var ErrNotFound = errors.New("user not found")

const keyspace = "users"

// Store is the user directory over the kv substrate. It owns the
// users/{id} keyspace; the system-wide role field is mutated only through
// the role synchronizer.
type Store struct {
	kv kv.Store
}

func New(s kv.Store) *Store {
	return &Store{kv: s}
}

func key(id string) kv.Key {
	return kv.Key{keyspace, id}
}

// Get loads one user by id.
func (s *Store) Get(ctx context.Context, id string) (models.User, error) {
	raw, found, err := s.kv.Get(ctx, key(id))
	if err != nil {
		return models.User{}, err
	}
	if !found {
		return models.User{}, ErrNotFound
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return models.User{}, fmt.Errorf("decode user %s: %w", id, err)
	}
	return u, nil
}

// Put writes the user record as-is.
func (s *Store) Put(ctx context.Context, u models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user %s: %w", u.ID, err)
	}
	return s.kv.Set(ctx, key(u.ID), raw)
}

// FindByEmail scans the directory for a user with the given email. Used
// only by the startup superadmin bootstrap; the directory has no email
// index.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	email = normalize.Email(email)
	entries, err := s.kv.Scan(ctx, kv.Key{keyspace})
	if err != nil {
		return models.User{}, err
	}
	for _, e := range entries {
		var u models.User
		if err := json.Unmarshal(e.Value, &u); err != nil {
			return models.User{}, fmt.Errorf("decode user %s: %w", e.Key.Encode(), err)
		}
		if normalize.Email(u.Email) == email {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}
