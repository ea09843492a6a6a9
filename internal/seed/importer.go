package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cohort-tools/cohort-tools/internal/cohorts"
	"github.com/cohort-tools/cohort-tools/internal/shared"
	"github.com/cohort-tools/cohort-tools/internal/students"
)

// CohortWriter is the subset of the cohort repository used by the importer.
type CohortWriter interface {
	Create(ctx context.Context, cohort cohorts.Cohort) (*cohorts.Cohort, error)
}

// StudentWriter is the subset of the student repository used by the importer.
type StudentWriter interface {
	Create(ctx context.Context, student students.Student) (*students.Student, error)
}

// Importer writes a Plan through the repositories.
type Importer struct {
	Cohorts  CohortWriter
	Students StudentWriter
	Logger   *slog.Logger
}

// Result summarises an import run.
type Result struct {
	Cohorts  int
	Students int
	Skipped  int
}

// Import creates every record in plan. Records whose id already exists are
// skipped, so re-running a fixture only writes what is new.
func (im Importer) Import(ctx context.Context, plan Plan) (Result, error) {
	logger := im.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var res Result
	for _, c := range plan.Cohorts {
		if _, err := im.Cohorts.Create(ctx, c); err != nil {
			if errors.Is(err, shared.ErrConflict) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("seed cohort %s: %w", c.Slug, err)
		}
		res.Cohorts++
	}
	for _, s := range plan.Students {
		if _, err := im.Students.Create(ctx, s); err != nil {
			if errors.Is(err, shared.ErrConflict) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("seed student %s: %w", s.Email, err)
		}
		res.Students++
	}
	logger.Info("seed import finished",
		slog.Int("cohorts", res.Cohorts),
		slog.Int("students", res.Students),
		slog.Int("skipped", res.Skipped),
		slog.Int("dangling_refs", plan.Dangling),
	)
	return res, nil
}
