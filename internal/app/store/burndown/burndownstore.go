// internal/app/store/burndown/burndownstore.go
package burndownstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sprinthub/sprinthub/internal/app/store/kv"
	"github.com/sprinthub/sprinthub/internal/domain/models"
)

const keyspace = "burndown_data"

// dateFormat is day granularity and sorts chronologically as a string, so
// a prefix scan returns the series in date order.
const dateFormat = "2006-01-02"

// Store owns the burndown_data/{sprintId}/{date} keyspace. The contents
// are a cache: fully recomputable, rewritten wholesale by the calculator,
// never mutated point-by-point from anywhere else.
type Store struct {
	kv kv.Store
}

func New(s kv.Store) *Store {
	return &Store{kv: s}
}

func pointKey(sprintID string, date time.Time) kv.Key {
	return kv.Key{keyspace, sprintID, date.UTC().Format(dateFormat)}
}

// Series returns the stored points for a sprint in date order. An empty
// slice means no snapshot has been computed yet.
func (s *Store) Series(ctx context.Context, sprintID string) ([]models.BurndownPoint, error) {
	entries, err := s.kv.Scan(ctx, kv.Key{keyspace, sprintID})
	if err != nil {
		return nil, err
	}
	points := make([]models.BurndownPoint, 0, len(entries))
	for _, e := range entries {
		var p models.BurndownPoint
		if err := json.Unmarshal(e.Value, &p); err != nil {
			return nil, fmt.Errorf("decode burndown point %s: %w", e.Key.Encode(), err)
		}
		points = append(points, p)
	}
	return points, nil
}

// Replace clears any prior snapshot for the sprint and writes the new
// series. Clearing first keeps days that fell out of the recomputed range
// (say, after a sprint's end date was pulled in) from surviving as stale
// points.
func (s *Store) Replace(ctx context.Context, sprintID string, points []models.BurndownPoint) error {
	if err := s.Clear(ctx, sprintID); err != nil {
		return err
	}
	for _, p := range points {
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode burndown point: %w", err)
		}
		if err := s.kv.Set(ctx, pointKey(sprintID, p.Date), raw); err != nil {
			return err
		}
	}
	return nil
}

// Clear deletes every stored point for the sprint.
func (s *Store) Clear(ctx context.Context, sprintID string) error {
	entries, err := s.kv.Scan(ctx, kv.Key{keyspace, sprintID})
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := s.kv.Delete(ctx, e.Key); err != nil {
			return err
		}
	}
	return nil
}
