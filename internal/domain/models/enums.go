// internal/domain/models/enums.go
package models

// Progress status values shared by projects, sprints, and tasks.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// ProgressStatuses lists every valid progress status.
var ProgressStatuses = []string{StatusNotStarted, StatusInProgress, StatusDone}

// IsValidProgressStatus reports whether s is a known progress status.
func IsValidProgressStatus(s string) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// CompanyStatuses lists the legal forms a user account can declare.
var CompanyStatuses = []string{"SAS", "SASU", "freelance", "EURL", "SARL", "other"}

// IsValidCompanyStatus reports whether s is a known company status.
func IsValidCompanyStatus(s string) bool {
	for _, v := range CompanyStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ProfessionalStatuses lists the professional specialities a user can declare.
var ProfessionalStatuses = []string{
	"data_analyst",
	"data_engineering",
	"data_science",
	"dev_backend",
	"dev_fullstack",
	"dev_mobile",
	"devops_infra",
	"electronics",
	"hardware",
	"on_board_system",
	"other",
	"project_product_management",
	"qa",
	"research_rd",
	"security",
	"telecom_network",
}

// IsValidProfessionalStatus reports whether s is a known professional status.
func IsValidProfessionalStatus(s string) bool {
	for _, v := range ProfessionalStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// StackCategories lists the technology stack categories a project may reference.
var StackCategories = []string{"backend", "frontend", "database", "devops"}

// IsValidStackCategory reports whether s is a known stack category.
func IsValidStackCategory(s string) bool {
	for _, v := range StackCategories {
		if s == v {
			return true
		}
	}
	return false
}
