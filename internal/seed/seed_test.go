package seed

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohort-tools/cohort-tools/internal/cohorts"
	"github.com/cohort-tools/cohort-tools/internal/shared"
	"github.com/cohort-tools/cohort-tools/internal/students"
)

func TestLegacyIDForms(t *testing.T) {
	var doc struct {
		A LegacyID `json:"a"`
		B LegacyID `json:"b"`
		C LegacyID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"abc","b":{"$oid":"def"},"c":null}`), &doc))
	assert.Equal(t, LegacyID("abc"), doc.A)
	assert.Equal(t, LegacyID("def"), doc.B)
	assert.Equal(t, LegacyID(""), doc.C)

	var bad LegacyID
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestBuildFromFixtures(t *testing.T) {
	legacyCohorts, legacyStudents, err := LoadDir(filepath.Join("..", "..", "scripts", "seed", "data"))
	require.NoError(t, err)
	require.Len(t, legacyCohorts, 3)
	require.Len(t, legacyStudents, 3)

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	plan := Build(legacyCohorts, legacyStudents, now)

	require.Len(t, plan.Cohorts, 3)
	for _, c := range plan.Cohorts {
		_, err := uuid.Parse(c.ID)
		assert.NoError(t, err, c.Slug)
	}
	assert.Equal(t, 480, plan.Cohorts[1].TotalHours)
	assert.Equal(t, cohorts.DefaultTotalHours, plan.Cohorts[2].TotalHours)
	assert.Nil(t, plan.Cohorts[1].EndDate)

	require.Len(t, plan.Students, 3)
	require.NotNil(t, plan.Students[0].CohortID)
	assert.Equal(t, plan.Cohorts[0].ID, *plan.Students[0].CohortID)
	require.NotNil(t, plan.Students[1].CohortID)
	assert.Equal(t, plan.Cohorts[1].ID, *plan.Students[1].CohortID)
	assert.Nil(t, plan.Students[2].CohortID)
	assert.Equal(t, 1, plan.Dangling)
	assert.Equal(t, students.DefaultImage, plan.Students[1].Image)
	assert.Equal(t, []string{}, plan.Students[2].Projects)
}

func TestBuildKeepsUUIDsAndDefaultsStart(t *testing.T) {
	id := uuid.NewString()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	plan := Build([]LegacyCohort{{ID: LegacyID(id), Slug: "x"}}, []LegacyStudent{{Cohort: LegacyID(id)}}, now)

	assert.Equal(t, id, plan.Cohorts[0].ID)
	assert.True(t, plan.Cohorts[0].StartDate.Equal(now))
	require.NotNil(t, plan.Students[0].CohortID)
	assert.Equal(t, id, *plan.Students[0].CohortID)
}

type recordingWriter struct {
	cohorts  []cohorts.Cohort
	students []students.Student
	conflict map[string]bool
	fail     error
}

func (w *recordingWriter) createCohort(c cohorts.Cohort) (*cohorts.Cohort, error) {
	if w.conflict[c.ID] {
		return nil, shared.ErrConflict
	}
	w.cohorts = append(w.cohorts, c)
	return &c, nil
}

type cohortWriter struct{ *recordingWriter }

func (w cohortWriter) Create(_ context.Context, c cohorts.Cohort) (*cohorts.Cohort, error) {
	return w.createCohort(c)
}

type studentWriter struct{ *recordingWriter }

func (w studentWriter) Create(_ context.Context, s students.Student) (*students.Student, error) {
	if w.fail != nil {
		return nil, w.fail
	}
	if w.conflict[s.ID] {
		return nil, shared.ErrConflict
	}
	w.students = append(w.students, s)
	return &s, nil
}

func TestImporterWritesPlan(t *testing.T) {
	rec := &recordingWriter{conflict: map[string]bool{}}
	plan := Build(
		[]LegacyCohort{{ID: "a", Slug: "one"}, {ID: "b", Slug: "two"}},
		[]LegacyStudent{{ID: "s1", Email: "s1@x.com", Cohort: "a"}},
		time.Now(),
	)
	rec.conflict[plan.Cohorts[1].ID] = true

	res, err := Importer{Cohorts: cohortWriter{rec}, Students: studentWriter{rec}}.Import(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, Result{Cohorts: 1, Students: 1, Skipped: 1}, res)
	require.Len(t, rec.students, 1)
	assert.Equal(t, plan.Cohorts[0].ID, *rec.students[0].CohortID)
}

func TestImporterStopsOnStoreError(t *testing.T) {
	rec := &recordingWriter{fail: shared.ErrStore}
	plan := Build(nil, []LegacyStudent{{ID: "s1", Email: "s1@x.com"}}, time.Now())

	_, err := Importer{Cohorts: cohortWriter{rec}, Students: studentWriter{rec}}.Import(context.Background(), plan)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrStore))
	assert.Contains(t, err.Error(), "s1@x.com")
}

func TestImportIsRepeatable(t *testing.T) {
	legacyCohorts, legacyStudents, err := LoadDir(filepath.Join("..", "..", "scripts", "seed", "data"))
	require.NoError(t, err)

	first := Build(legacyCohorts, legacyStudents, time.Now())
	second := Build(legacyCohorts, legacyStudents, time.Now())
	require.Equal(t, len(first.Cohorts), len(second.Cohorts))
	for i := range first.Cohorts {
		assert.Equal(t, first.Cohorts[i].ID, second.Cohorts[i].ID)
	}
	for i := range first.Students {
		assert.Equal(t, first.Students[i].ID, second.Students[i].ID)
	}

	rec := &recordingWriter{conflict: map[string]bool{}}
	im := Importer{Cohorts: cohortWriter{rec}, Students: studentWriter{rec}}
	res, err := im.Import(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, Result{Cohorts: 3, Students: 3}, res)

	for _, c := range rec.cohorts {
		rec.conflict[c.ID] = true
	}
	for _, s := range rec.students {
		rec.conflict[s.ID] = true
	}
	res, err = im.Import(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 6}, res)
}

func TestLegacyIDsDoNotCollideAcrossKinds(t *testing.T) {
	plan := Build([]LegacyCohort{{ID: "same"}}, []LegacyStudent{{ID: "same"}}, time.Now())
	assert.NotEqual(t, plan.Cohorts[0].ID, plan.Students[0].ID)
}
