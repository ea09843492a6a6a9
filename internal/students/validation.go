package students

import (
	"strings"

	"github.com/cohort-tools/cohort-tools/internal/shared"
)

func validate(s Student) error {
	fields := map[string]string{}
	if strings.TrimSpace(s.FirstName) == "" {
		fields["firstName"] = "is required"
	}
	if strings.TrimSpace(s.LastName) == "" {
		fields["lastName"] = "is required"
	}
	if strings.TrimSpace(s.Email) == "" {
		fields["email"] = "is required"
	}
	if strings.TrimSpace(s.Phone) == "" {
		fields["phone"] = "is required"
	}
	if !shared.Contains(shared.Programs, s.Program) {
		fields["program"] = "must be one of: " + strings.Join(shared.Programs, ", ")
	}
	for _, lang := range s.Languages {
		if !shared.Contains(shared.Languages, lang) {
			fields["languages"] = "must be one of: " + strings.Join(shared.Languages, ", ")
			break
		}
	}
	if len(fields) > 0 {
		return &shared.ValidationError{Fields: fields}
	}
	return nil
}
