// internal/domain/models/user.go
package models

// SystemRole is the single system-wide role on a User record, as opposed to
// the per-project role on a ProjectMember record.
type SystemRole string

const (
	SystemRoleAdmin         SystemRole = "admin"
	SystemRoleScrumMaster   SystemRole = "scrum_master"
	SystemRoleProductOwner  SystemRole = "product_owner"
	SystemRoleTeamDeveloper SystemRole = "team_developer"
)

// User represents an account in the user directory.
//
// NOTE:
//   - Project membership is not embedded on User. Use the project_members
//     records (and their by_user index) to discover a user's projects.
//   - Role is mutated only by the role synchronizer, and never for admins.
type User struct {
	Model
	FullName string     `json:"full_name"`
	Email    string     `json:"email"`
	Role     SystemRole `json:"role"`
}
