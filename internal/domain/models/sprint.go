// internal/domain/models/sprint.go
package models

import "time"

// SprintStatus is the lifecycle state of a sprint.
type SprintStatus string

const (
	SprintPlanned   SprintStatus = "planned"
	SprintActive    SprintStatus = "active"
	SprintCompleted SprintStatus = "completed"
)

// Sprint is a time-boxed iteration within a project.
//
// UserStoryIDs and the stories' SprintID back-references can drift when a
// story's sprint is set through the story update path; derived data (the
// burndown) reads only the back-references, so the drift never corrupts it.
type Sprint struct {
	Model
	Name         string       `json:"name"`
	Goal         string       `json:"goal,omitempty"`
	ProjectID    string       `json:"project_id"`
	Status       SprintStatus `json:"status"`
	StartDate    *time.Time   `json:"start_date,omitempty"`
	EndDate      *time.Time   `json:"end_date,omitempty"`
	UserStoryIDs []string     `json:"user_story_ids,omitempty"`
}
