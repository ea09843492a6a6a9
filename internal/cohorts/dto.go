package cohorts

import (
	"encoding/json"
	"time"
)

type CreateCohortRequest struct {
	Slug           string     `json:"cohortSlug" validate:"required,max=100"`
	Name           string     `json:"cohortName" validate:"required,max=200"`
	Program        string     `json:"program" validate:"required,program"`
	Format         string     `json:"format" validate:"required,format"`
	Campus         string     `json:"campus" validate:"required,campus"`
	StartDate      *time.Time `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
	InProgress     *bool      `json:"inProgress"`
	ProgramManager string     `json:"programManager" validate:"required,max=200"`
	LeadTeacher    string     `json:"leadTeacher" validate:"required,max=200"`
	TotalHours     *int       `json:"totalHours" validate:"omitempty,gte=0,lte=10000"`
}

// UpdateCohortRequest merges non-nil fields. A fetched cohort can be sent back
// as is: its _id and timestamps are accepted and ignored.
type UpdateCohortRequest struct {
	Slug           *string    `json:"cohortSlug,omitempty" validate:"omitempty,min=1,max=100"`
	Name           *string    `json:"cohortName,omitempty" validate:"omitempty,min=1,max=200"`
	Program        *string    `json:"program,omitempty" validate:"omitempty,program"`
	Format         *string    `json:"format,omitempty" validate:"omitempty,format"`
	Campus         *string    `json:"campus,omitempty" validate:"omitempty,campus"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	InProgress     *bool      `json:"inProgress,omitempty"`
	ProgramManager *string    `json:"programManager,omitempty" validate:"omitempty,min=1,max=200"`
	LeadTeacher    *string    `json:"leadTeacher,omitempty" validate:"omitempty,min=1,max=200"`
	TotalHours     *int       `json:"totalHours,omitempty" validate:"omitempty,gte=0,lte=10000"`

	ID        json.RawMessage `json:"_id,omitempty"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty"`
	UpdatedAt json.RawMessage `json:"updatedAt,omitempty"`
}
