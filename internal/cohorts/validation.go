package cohorts

import (
	"fmt"
	"strings"

	"github.com/cohort-tools/cohort-tools/internal/shared"
)

// validate checks a fully merged cohort before it is written.
func validate(c Cohort) error {
	fields := map[string]string{}
	if strings.TrimSpace(c.Slug) == "" {
		fields["cohortSlug"] = "is required"
	}
	if strings.TrimSpace(c.Name) == "" {
		fields["cohortName"] = "is required"
	}
	if strings.TrimSpace(c.ProgramManager) == "" {
		fields["programManager"] = "is required"
	}
	if strings.TrimSpace(c.LeadTeacher) == "" {
		fields["leadTeacher"] = "is required"
	}
	if c.EndDate != nil && c.EndDate.Before(c.StartDate) {
		fields["endDate"] = "must not be before startDate"
	}
	if c.TotalHours < 0 || c.TotalHours > MaxTotalHours {
		fields["totalHours"] = fmt.Sprintf("must be between 0 and %d", MaxTotalHours)
	}
	if len(fields) > 0 {
		return &shared.ValidationError{Fields: fields}
	}
	return nil
}
