// internal/domain/models/burndown.go
package models

import "time"

// BurndownPoint is one day of a sprint's burndown series. It is derived
// state: fully recomputable from story and task records, persisted only as
// a cache and rewritten wholesale on every recompute.
type BurndownPoint struct {
	SprintID        string    `json:"sprint_id"`
	Date            time.Time `json:"date"`
	TotalPoints     float64   `json:"total_points"`
	CompletedPoints float64   `json:"completed_points"`
	RemainingPoints float64   `json:"remaining_points"`
	IdealRemaining  float64   `json:"ideal_remaining"`
}
