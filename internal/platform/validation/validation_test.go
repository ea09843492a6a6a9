package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohort-tools/cohort-tools/internal/shared"
)

type sample struct {
	Program   string   `json:"program" validate:"required,program"`
	Campus    *string  `json:"campus,omitempty" validate:"omitempty,campus"`
	Languages []string `json:"languages" validate:"omitempty,dive,language"`
	Email     string   `json:"email" validate:"required,email"`
}

func TestStructValid(t *testing.T) {
	v := New()
	campus := "Lisbon"
	err := Struct(v, sample{Program: "UX/UI", Campus: &campus, Languages: []string{"Portuguese"}, Email: "a@x.com"})
	assert.NoError(t, err)
}

func TestStructReportsJSONFieldPaths(t *testing.T) {
	v := New()
	campus := "Atlantis"
	err := Struct(v, sample{Program: "Cooking", Campus: &campus, Languages: []string{"English", "Elvish"}})
	require.ErrorIs(t, err, shared.ErrValidation)

	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be one of: Web Dev, UX/UI, Data Analytics, Cybersecurity", verr.Fields["program"])
	assert.Contains(t, verr.Fields, "campus")
	assert.Contains(t, verr.Fields, "languages[1]")
	assert.Equal(t, "is required", verr.Fields["email"])
	assert.NotContains(t, verr.Fields, "languages[0]")
}
