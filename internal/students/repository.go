package students

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cohort-tools/cohort-tools/internal/cohorts"
	"github.com/cohort-tools/cohort-tools/internal/platform/db"
	"github.com/cohort-tools/cohort-tools/internal/shared"
)

// Repository defines persistence operations for students. Read methods
// resolve the cohort reference.
type Repository interface {
	List(ctx context.Context) ([]PopulatedStudent, error)
	ListByCohort(ctx context.Context, cohortID string) ([]PopulatedStudent, error)
	Get(ctx context.Context, id string) (*PopulatedStudent, error)
	Create(ctx context.Context, student Student) (*Student, error)
	Update(ctx context.Context, id string, mutate func(*Student) error) (*Student, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewRepository constructs a PostgreSQL repository. Each call is bounded by timeout.
func NewRepository(pool *pgxpool.Pool, timeout time.Duration) Repository {
	return &repository{pool: pool, timeout: timeout}
}

const studentColumns = `s.id, s.first_name, s.last_name, s.email, s.phone, s.linkedin_url,
	s.languages, s.program, s.background, s.image, s.cohort_id, s.projects, s.created_at, s.updated_at`

const cohortColumns = `c.id, c.slug, c.name, c.program, c.format, c.campus, c.start_date, c.end_date,
	c.in_progress, c.program_manager, c.lead_teacher, c.total_hours, c.created_at, c.updated_at`

const populatedSelect = `SELECT ` + studentColumns + `, ` + cohortColumns + `
	FROM students s
	LEFT JOIN cohorts c ON c.id = s.cohort_id`

func (r *repository) List(ctx context.Context) ([]PopulatedStudent, error) {
	ctx, cancel := db.Bound(ctx, r.timeout)
	defer cancel()
	return r.queryPopulated(ctx, "students: list", populatedSelect+` ORDER BY s.last_name, s.first_name, s.id`)
}

func (r *repository) ListByCohort(ctx context.Context, cohortID string) ([]PopulatedStudent, error) {
	uid, err := uuid.Parse(cohortID)
	if err != nil {
		return []PopulatedStudent{}, nil
	}
	ctx, cancel := db.Bound(ctx, r.timeout)
	defer cancel()
	return r.queryPopulated(ctx, "students: list by cohort",
		populatedSelect+` WHERE s.cohort_id = $1 ORDER BY s.last_name, s.first_name, s.id`, uid)
}

func (r *repository) Get(ctx context.Context, id string) (*PopulatedStudent, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	ctx, cancel := db.Bound(ctx, r.timeout)
	defer cancel()

	p, err := scanPopulated(r.pool.QueryRow(ctx, populatedSelect+` WHERE s.id = $1`, uid))
	if err != nil {
		return nil, db.MapError("students: get", err)
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, student Student) (*Student, error) {
	uid, err := uuid.Parse(student.ID)
	if err != nil {
		uid = uuid.New()
	}
	ctx, cancel := db.Bound(ctx, r.timeout)
	defer cancel()

	now := pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true}
	created, err := scanStudent(r.pool.QueryRow(ctx, `
		INSERT INTO students AS s (id, first_name, last_name, email, phone, linkedin_url, languages,
			program, background, image, cohort_id, projects, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
		RETURNING `+studentColumns,
		uid, student.FirstName, student.LastName, student.Email, student.Phone, student.LinkedinURL,
		orEmpty(student.Languages), student.Program, student.Background, student.Image,
		cohortRef(student.CohortID), orEmpty(student.Projects), now,
	))
	if err != nil {
		return nil, db.MapError("students: create", err)
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, id string, mutate func(*Student) error) (*Student, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	ctx, cancel := db.Bound(ctx, r.timeout)
	defer cancel()

	var updated *Student
	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := scanStudent(tx.QueryRow(ctx,
			`SELECT `+studentColumns+` FROM students s WHERE s.id = $1 FOR UPDATE`, uid))
		if err != nil {
			return db.MapError("students: lock", err)
		}
		if err := mutate(current); err != nil {
			return err
		}
		updated, err = scanStudent(tx.QueryRow(ctx, `
			UPDATE students AS s SET first_name = $2, last_name = $3, email = $4, phone = $5,
				linkedin_url = $6, languages = $7, program = $8, background = $9, image = $10,
				cohort_id = $11, projects = $12, updated_at = $13
			WHERE s.id = $1
			RETURNING `+studentColumns,
			uid, current.FirstName, current.LastName, current.Email, current.Phone, current.LinkedinURL,
			orEmpty(current.Languages), current.Program, current.Background, current.Image,
			cohortRef(current.CohortID), orEmpty(current.Projects),
			pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true},
		))
		if err != nil {
			return db.MapError("students: update", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return shared.ErrNotFound
	}
	ctx, cancel := db.Bound(ctx, r.timeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, uid)
	if err != nil {
		return db.MapError("students: delete", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) queryPopulated(ctx context.Context, op, sql string, args ...any) ([]PopulatedStudent, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.MapError(op, err)
	}
	defer rows.Close()

	out := []PopulatedStudent{}
	for rows.Next() {
		p, err := scanPopulated(rows)
		if err != nil {
			return nil, db.MapError(op, err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, db.MapError(op, err)
	}
	return out, nil
}

type studentRow struct {
	id                   uuid.UUID
	cohortID             pgtype.UUID
	createdAt, updatedAt pgtype.Timestamptz
}

func (sr studentRow) into(s *Student) {
	s.ID = sr.id.String()
	if sr.cohortID.Valid {
		ref := uuid.UUID(sr.cohortID.Bytes).String()
		s.CohortID = &ref
	}
	s.CreatedAt = sr.createdAt.Time
	s.UpdatedAt = sr.updatedAt.Time
}

func (sr *studentRow) targets(s *Student) []any {
	return []any{&sr.id, &s.FirstName, &s.LastName, &s.Email, &s.Phone, &s.LinkedinURL,
		&s.Languages, &s.Program, &s.Background, &s.Image, &sr.cohortID, &s.Projects,
		&sr.createdAt, &sr.updatedAt}
}

func scanStudent(row pgx.Row) (*Student, error) {
	var (
		s  Student
		sr studentRow
	)
	if err := row.Scan(sr.targets(&s)...); err != nil {
		return nil, err
	}
	sr.into(&s)
	return &s, nil
}

// joinedCohort holds the nullable cohort half of a LEFT JOIN row.
type joinedCohort struct {
	id                                                   pgtype.UUID
	slug, name, program, format, campus, manager, leader pgtype.Text
	start, end, createdAt, updatedAt                     pgtype.Timestamptz
	inProgress                                           pgtype.Bool
	totalHours                                           pgtype.Int4
}

func (jc *joinedCohort) targets() []any {
	return []any{&jc.id, &jc.slug, &jc.name, &jc.program, &jc.format, &jc.campus, &jc.start, &jc.end,
		&jc.inProgress, &jc.manager, &jc.leader, &jc.totalHours, &jc.createdAt, &jc.updatedAt}
}

func (jc joinedCohort) cohort() *cohorts.Cohort {
	if !jc.id.Valid {
		return nil
	}
	c := &cohorts.Cohort{
		ID:             uuid.UUID(jc.id.Bytes).String(),
		Slug:           jc.slug.String,
		Name:           jc.name.String,
		Program:        jc.program.String,
		Format:         jc.format.String,
		Campus:         jc.campus.String,
		StartDate:      jc.start.Time,
		InProgress:     jc.inProgress.Bool,
		ProgramManager: jc.manager.String,
		LeadTeacher:    jc.leader.String,
		TotalHours:     int(jc.totalHours.Int32),
		CreatedAt:      jc.createdAt.Time,
		UpdatedAt:      jc.updatedAt.Time,
	}
	if jc.end.Valid {
		t := jc.end.Time
		c.EndDate = &t
	}
	return c
}

func scanPopulated(row pgx.Row) (*PopulatedStudent, error) {
	var (
		p  PopulatedStudent
		sr studentRow
		jc joinedCohort
	)
	if err := row.Scan(append(sr.targets(&p.Student), jc.targets()...)...); err != nil {
		return nil, err
	}
	sr.into(&p.Student)
	p.Cohort = jc.cohort()
	return &p, nil
}

func cohortRef(id *string) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	uid, err := uuid.Parse(*id)
	if err != nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: uid, Valid: true}
}
