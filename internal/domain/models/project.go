// internal/domain/models/project.go
package models

import "time"

// ProjectStatus is the workflow state of a project.
type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectOnHold     ProjectStatus = "on_hold"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectCancelled  ProjectStatus = "cancelled"
)

// Project is the root entity of the cascade hierarchy.
//
// NOTE:
//   - The member list is not embedded here. Membership lives in the
//     project_members records plus their two indices; views join it at
//     read time. This keeps a single authoritative copy.
type Project struct {
	Model
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	StartDate   *time.Time    `json:"start_date,omitempty"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	CreatedBy   string        `json:"created_by"`
}
