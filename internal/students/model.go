package students

import (
	"time"

	"github.com/cohort-tools/cohort-tools/internal/cohorts"
)

// DefaultImage is the avatar assigned when a student is created without one.
const DefaultImage = "https://i.imgur.com/r8bo8u7.png"

// Student is a bootcamp participant. CohortID is a loose reference: it may
// name a cohort that does not exist.
type Student struct {
	ID          string    `json:"_id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	LinkedinURL string    `json:"linkedinUrl"`
	Languages   []string  `json:"languages"`
	Program     string    `json:"program"`
	Background  string    `json:"background"`
	Image       string    `json:"image"`
	CohortID    *string   `json:"cohort"`
	Projects    []string  `json:"projects"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PopulatedStudent is a student with its cohort reference resolved.
// Cohort is nil when the reference is empty or dangling.
type PopulatedStudent struct {
	Student
	Cohort *cohorts.Cohort `json:"cohort"`
}
