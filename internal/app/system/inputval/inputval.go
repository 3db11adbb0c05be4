// internal/app/system/inputval/inputval.go
package inputval

import (
	"strings"

	"github.com/sprinthub/sprinthub/internal/domain/models"
)

// IsValidEmail checks the practical shape of an address: one @, a
// non-empty local part without leading/trailing/consecutive dots, and a
// domain with the same dot rules. Single-label domains pass so dev and
// test environments can use addresses like admin@mailserver.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	local, domain := email[:at], email[at+1:]
	return validDotAtom(local) && validDotAtom(domain)
}

func validDotAtom(s string) bool {
	if s == "" || strings.HasPrefix(s, ".") || strings.HasSuffix(s, ".") {
		return false
	}
	if strings.Contains(s, "..") {
		return false
	}
	return !strings.ContainsAny(s, " <>")
}

// IsValidSystemRole reports whether s is one of the global user roles.
func IsValidSystemRole(s string) bool {
	switch models.SystemRole(s) {
	case models.SystemRoleAdmin, models.SystemRoleScrumMaster,
		models.SystemRoleProductOwner, models.SystemRoleTeamDeveloper:
		return true
	}
	return false
}

// IsValidProjectRole reports whether s is a per-project membership role.
func IsValidProjectRole(s string) bool {
	switch models.ProjectRole(s) {
	case models.RoleProductOwner, models.RoleScrumMaster, models.RoleTeamMember:
		return true
	}
	return false
}

// IsValidProjectStatus reports whether s is a project workflow status.
func IsValidProjectStatus(s string) bool {
	switch models.ProjectStatus(s) {
	case models.ProjectPlanning, models.ProjectInProgress, models.ProjectOnHold,
		models.ProjectCompleted, models.ProjectCancelled:
		return true
	}
	return false
}

// IsValidStoryStatus reports whether s is a user story status.
func IsValidStoryStatus(s string) bool {
	switch models.StoryStatus(s) {
	case models.StoryBacklog, models.StoryPlanned, models.StoryInProgress,
		models.StoryTesting, models.StoryDone:
		return true
	}
	return false
}

// IsValidStoryPriority reports whether s is a story priority.
func IsValidStoryPriority(s string) bool {
	switch models.StoryPriority(s) {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityCritical:
		return true
	}
	return false
}

// IsValidTaskStatus reports whether s is a task status.
func IsValidTaskStatus(s string) bool {
	switch models.TaskStatus(s) {
	case models.TaskTodo, models.TaskInProgress, models.TaskReview, models.TaskDone:
		return true
	}
	return false
}

// IsValidSprintStatus reports whether s is a sprint status.
func IsValidSprintStatus(s string) bool {
	switch models.SprintStatus(s) {
	case models.SprintPlanned, models.SprintActive, models.SprintCompleted:
		return true
	}
	return false
}

// IsValidSpentMode reports whether s is a spent-hours update mode.
func IsValidSpentMode(s string) bool {
	return s == "add" || s == "set"
}
