// internal/domain/models/task.go
package models

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskReview     TaskStatus = "review"
	TaskDone       TaskStatus = "done"
)

// Task is the unit of work under a user story. Tasks never outlive their
// story; they are removed only by the project cascade (or with the story).
type Task struct {
	Model
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	UserStoryID    string     `json:"user_story_id"`
	Status         TaskStatus `json:"status"`
	AssignedTo     string     `json:"assigned_to,omitempty"`
	EstimatedHours float64    `json:"estimated_hours,omitempty"`
	SpentHours     float64    `json:"spent_hours,omitempty"`
}
