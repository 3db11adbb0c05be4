// internal/domain/models/projectmember.go
package models

// ProjectRole is the role a user holds inside one project. A user can hold
// different project roles in different projects at the same time; the
// system-wide role on the User record is derived from these by the role
// synchronizer.
type ProjectRole string

const (
	RoleProductOwner ProjectRole = "product_owner"
	RoleScrumMaster  ProjectRole = "scrum_master"
	RoleTeamMember   ProjectRole = "team_member"
)

// ProjectMember is the authoritative join between users and projects.
// Exactly one record per (user_id, project_id); role is a scalar.
type ProjectMember struct {
	Model
	UserID    string      `json:"user_id"`
	ProjectID string      `json:"project_id"`
	Role      ProjectRole `json:"role"`
}
