package students

import (
	"bytes"
	"encoding/json"
)

// CohortRef is a cohort reference in a request body: either the cohort id or
// a populated cohort object, from which only "_id" is read.
type CohortRef string

func (r *CohortRef) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		var populated struct {
			ID string `json:"_id"`
		}
		if err := json.Unmarshal(data, &populated); err != nil {
			return err
		}
		*r = CohortRef(populated.ID)
		return nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	*r = CohortRef(id)
	return nil
}

type CreateStudentRequest struct {
	FirstName   string    `json:"firstName" validate:"required,max=100"`
	LastName    string    `json:"lastName" validate:"required,max=100"`
	Email       string    `json:"email" validate:"required,email,max=254"`
	Phone       string    `json:"phone" validate:"required,max=50"`
	LinkedinURL string    `json:"linkedinUrl" validate:"omitempty,url,max=500"`
	Languages   []string  `json:"languages" validate:"omitempty,dive,language"`
	Program     string    `json:"program" validate:"required,program"`
	Background  string    `json:"background" validate:"max=1000"`
	Image       string    `json:"image" validate:"omitempty,url,max=500"`
	Cohort      CohortRef `json:"cohort" validate:"omitempty,uuid"`
	Projects    []string  `json:"projects" validate:"omitempty,dive,max=500"`
}

// UpdateStudentRequest merges non-nil fields. An empty cohort clears the reference.
// A fetched student can be sent back as is: its _id and timestamps are ignored.
type UpdateStudentRequest struct {
	FirstName   *string    `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName    *string    `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Email       *string    `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone       *string    `json:"phone,omitempty" validate:"omitempty,min=1,max=50"`
	LinkedinURL *string    `json:"linkedinUrl,omitempty" validate:"omitempty,url,max=500"`
	Languages   *[]string  `json:"languages,omitempty" validate:"omitempty,dive,language"`
	Program     *string    `json:"program,omitempty" validate:"omitempty,program"`
	Background  *string    `json:"background,omitempty" validate:"omitempty,max=1000"`
	Image       *string    `json:"image,omitempty" validate:"omitempty,url,max=500"`
	Cohort      *CohortRef `json:"cohort,omitempty" validate:"omitempty,uuid"`
	Projects    *[]string  `json:"projects,omitempty" validate:"omitempty,dive,max=500"`

	ID        json.RawMessage `json:"_id,omitempty"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty"`
	UpdatedAt json.RawMessage `json:"updatedAt,omitempty"`
}
