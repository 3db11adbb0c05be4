// internal/domain/models/userstory.go
package models

// StoryStatus is the workflow state of a user story. Except for stories with
// zero tasks, it is derived from the story's task statuses and must not be
// set directly.
type StoryStatus string

const (
	StoryBacklog    StoryStatus = "backlog"
	StoryPlanned    StoryStatus = "planned"
	StoryInProgress StoryStatus = "in_progress"
	StoryTesting    StoryStatus = "testing"
	StoryDone       StoryStatus = "done"
)

// StoryPriority orders the backlog.
type StoryPriority string

const (
	PriorityLow      StoryPriority = "low"
	PriorityMedium   StoryPriority = "medium"
	PriorityHigh     StoryPriority = "high"
	PriorityCritical StoryPriority = "critical"
)

// UserStory belongs to a project and optionally to one sprint.
type UserStory struct {
	Model
	Title              string        `json:"title"`
	Description        string        `json:"description"`
	AcceptanceCriteria string        `json:"acceptance_criteria"`
	Priority           StoryPriority `json:"priority"`
	Status             StoryStatus   `json:"status"`
	Points             float64       `json:"points,omitempty"`
	ProjectID          string        `json:"project_id"`
	CreatedBy          string        `json:"created_by"`
	AssignedTo         string        `json:"assigned_to,omitempty"`
	SprintID           string        `json:"sprint_id,omitempty"`
}
