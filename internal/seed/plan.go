package seed

import (
	"time"

	"github.com/google/uuid"

	"github.com/cohort-tools/cohort-tools/internal/cohorts"
	"github.com/cohort-tools/cohort-tools/internal/students"
)

// Plan is the remapped data ready to be written.
type Plan struct {
	Cohorts  []cohorts.Cohort
	Students []students.Student
	// Remapped maps legacy cohort ids to the ids assigned on import.
	Remapped map[string]string
	// Dangling counts student cohort references that matched no imported cohort.
	Dangling int
}

// idSpace namespaces the name-based UUIDs derived from legacy ids.
var idSpace = uuid.MustParse("5b0f3c1e-7a5d-4c55-9f43-2d7c1f9e8a60")

// Build assigns ids to the legacy records. UUID ids are kept and other legacy
// ids map to the same UUID on every run, so a re-run collides with what the
// previous one wrote. Records without an id get a fresh UUID. Student cohort
// references follow the new ids; references to cohorts missing from the
// fixture become nil.
func Build(legacyCohorts []LegacyCohort, legacyStudents []LegacyStudent, now time.Time) Plan {
	plan := Plan{Remapped: make(map[string]string, len(legacyCohorts))}

	for _, lc := range legacyCohorts {
		id := assignID("cohort", lc.ID)
		if lc.ID != "" {
			plan.Remapped[string(lc.ID)] = id
		}
		c := cohorts.Cohort{
			ID:             id,
			Slug:           lc.Slug,
			Name:           lc.Name,
			Program:        lc.Program,
			Format:         lc.Format,
			Campus:         lc.Campus,
			StartDate:      now.UTC(),
			EndDate:        lc.EndDate,
			InProgress:     lc.InProgress,
			ProgramManager: lc.ProgramManager,
			LeadTeacher:    lc.LeadTeacher,
			TotalHours:     cohorts.DefaultTotalHours,
		}
		if lc.StartDate != nil {
			c.StartDate = *lc.StartDate
		}
		if lc.TotalHours != nil {
			c.TotalHours = *lc.TotalHours
		}
		plan.Cohorts = append(plan.Cohorts, c)
	}

	for _, ls := range legacyStudents {
		s := students.Student{
			ID:          assignID("student", ls.ID),
			FirstName:   ls.FirstName,
			LastName:    ls.LastName,
			Email:       ls.Email,
			Phone:       ls.Phone,
			LinkedinURL: ls.LinkedinURL,
			Languages:   orEmpty(ls.Languages),
			Program:     ls.Program,
			Background:  ls.Background,
			Image:       ls.Image,
			Projects:    orEmpty(ls.Projects),
		}
		if s.Image == "" {
			s.Image = students.DefaultImage
		}
		if ls.Cohort != "" {
			if id, ok := plan.Remapped[string(ls.Cohort)]; ok {
				s.CohortID = &id
			} else {
				plan.Dangling++
			}
		}
		plan.Students = append(plan.Students, s)
	}
	return plan
}

func assignID(kind string, legacy LegacyID) string {
	if legacy == "" {
		return uuid.NewString()
	}
	if id, err := uuid.Parse(string(legacy)); err == nil {
		return id.String()
	}
	return uuid.NewSHA1(idSpace, []byte(kind+":"+string(legacy))).String()
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
