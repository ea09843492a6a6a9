package cohorts

import "time"

const (
	// DefaultTotalHours applies when a cohort is created without totalHours.
	DefaultTotalHours = 360
	// MaxTotalHours bounds totalHours; keep in step with the lte tag on the requests.
	MaxTotalHours = 10000
)

// Cohort is a bootcamp class group.
type Cohort struct {
	ID             string     `json:"_id"`
	Slug           string     `json:"cohortSlug"`
	Name           string     `json:"cohortName"`
	Program        string     `json:"program"`
	Format         string     `json:"format"`
	Campus         string     `json:"campus"`
	StartDate      time.Time  `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
	InProgress     bool       `json:"inProgress"`
	ProgramManager string     `json:"programManager"`
	LeadTeacher    string     `json:"leadTeacher"`
	TotalHours     int        `json:"totalHours"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
