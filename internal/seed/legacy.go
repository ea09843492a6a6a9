// Package seed imports the cohort and student fixture files exported from
// the original document store.
package seed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LegacyID accepts either a plain string id or an extended-JSON {"$oid": "..."} object.
type LegacyID string

func (id *LegacyID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var oid struct {
			OID string `json:"$oid"`
		}
		if err := json.Unmarshal(data, &oid); err != nil {
			return err
		}
		*id = LegacyID(oid.OID)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("seed: id must be a string or {\"$oid\"}: %w", err)
	}
	*id = LegacyID(s)
	return nil
}

type LegacyCohort struct {
	ID             LegacyID   `json:"_id"`
	Slug           string     `json:"cohortSlug"`
	Name           string     `json:"cohortName"`
	Program        string     `json:"program"`
	Format         string     `json:"format"`
	Campus         string     `json:"campus"`
	StartDate      *time.Time `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
	InProgress     bool       `json:"inProgress"`
	ProgramManager string     `json:"programManager"`
	LeadTeacher    string     `json:"leadTeacher"`
	TotalHours     *int       `json:"totalHours"`
}

type LegacyStudent struct {
	ID          LegacyID `json:"_id"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	LinkedinURL string   `json:"linkedinUrl"`
	Languages   []string `json:"languages"`
	Program     string   `json:"program"`
	Background  string   `json:"background"`
	Image       string   `json:"image"`
	Cohort      LegacyID `json:"cohort"`
	Projects    []string `json:"projects"`
}

// LoadDir reads cohorts.json and students.json from dir.
func LoadDir(dir string) ([]LegacyCohort, []LegacyStudent, error) {
	var (
		cohorts  []LegacyCohort
		students []LegacyStudent
	)
	if err := readJSON(filepath.Join(dir, "cohorts.json"), &cohorts); err != nil {
		return nil, nil, err
	}
	if err := readJSON(filepath.Join(dir, "students.json"), &students); err != nil {
		return nil, nil, err
	}
	return cohorts, students, nil
}

func readJSON(path string, dest any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("seed: read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("seed: decode %s: %w", path, err)
	}
	return nil
}
