package cohorts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cohort-tools/cohort-tools/internal/platform/db"
	"github.com/cohort-tools/cohort-tools/internal/shared"
)

// Repository defines persistence operations for cohorts.
type Repository interface {
	List(ctx context.Context) ([]Cohort, error)
	Get(ctx context.Context, id string) (*Cohort, error)
	Create(ctx context.Context, cohort Cohort) (*Cohort, error)
	// Update loads the cohort under a row lock, applies mutate and writes the result.
	Update(ctx context.Context, id string, mutate func(*Cohort) error) (*Cohort, error)
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

// columns lists the cohort columns in scan order.
const columns = `id, slug, name, program, format, campus, start_date, end_date,
	in_progress, program_manager, lead_teacher, total_hours, created_at, updated_at`

func (r *repository) List(ctx context.Context) ([]Cohort, error) {
	ctx, cancel := db.Bound(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM cohorts ORDER BY start_date, name`)
	if err != nil {
		return nil, db.MapError("cohorts: list", err)
	}
	defer rows.Close()

	cohorts := []Cohort{}
	for rows.Next() {
		c, err := scanCohort(rows)
		if err != nil {
			return nil, db.MapError("cohorts: scan", err)
		}
		cohorts = append(cohorts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, db.MapError("cohorts: list", err)
	}
	return cohorts, nil
}

func (r *repository) Get(ctx context.Context, id string) (*Cohort, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	ctx, cancel := db.Bound(ctx, r.timeout)
	defer cancel()

	c, err := scanCohort(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM cohorts WHERE id = $1`, uid))
	if err != nil {
		return nil, db.MapError("cohorts: get", err)
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, cohort Cohort) (*Cohort, error) {
	uid, err := uuid.Parse(cohort.ID)
	if err != nil {
		uid = uuid.New()
	}
	ctx, cancel := db.Bound(ctx, r.timeout)
	defer cancel()

	now := time.Now().UTC()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO cohorts (id, slug, name, program, format, campus, start_date, end_date,
			in_progress, program_manager, lead_teacher, total_hours, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
		RETURNING `+columns,
		uid, cohort.Slug, cohort.Name, cohort.Program, cohort.Format, cohort.Campus,
		timestamptz(&cohort.StartDate), timestamptz(cohort.EndDate),
		cohort.InProgress, cohort.ProgramManager, cohort.LeadTeacher, cohort.TotalHours,
		pgtype.Timestamptz{Time: now, Valid: true},
	)
	created, err := scanCohort(row)
	if err != nil {
		return nil, db.MapError("cohorts: create", err)
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, id string, mutate func(*Cohort) error) (*Cohort, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	ctx, cancel := db.Bound(ctx, r.timeout)
	defer cancel()

	var updated *Cohort
	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := scanCohort(tx.QueryRow(ctx, `SELECT `+columns+` FROM cohorts WHERE id = $1 FOR UPDATE`, uid))
		if err != nil {
			return db.MapError("cohorts: lock", err)
		}
		if err := mutate(current); err != nil {
			return err
		}
		updated, err = scanCohort(tx.QueryRow(ctx, `
			UPDATE cohorts SET slug = $2, name = $3, program = $4, format = $5, campus = $6,
				start_date = $7, end_date = $8, in_progress = $9, program_manager = $10,
				lead_teacher = $11, total_hours = $12, updated_at = $13
			WHERE id = $1
			RETURNING `+columns,
			uid, current.Slug, current.Name, current.Program, current.Format, current.Campus,
			timestamptz(&current.StartDate), timestamptz(current.EndDate),
			current.InProgress, current.ProgramManager, current.LeadTeacher, current.TotalHours,
			pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true},
		))
		if err != nil {
			return db.MapError("cohorts: update", err)
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

	tag, err := r.pool.Exec(ctx, `DELETE FROM cohorts WHERE id = $1`, uid)
	if err != nil {
		return db.MapError("cohorts: delete", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// scanCohort reads a cohort row selected with columns.
func scanCohort(row pgx.Row) (*Cohort, error) {
	var (
		c                    Cohort
		id                   uuid.UUID
		start, end           pgtype.Timestamptz
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &c.Slug, &c.Name, &c.Program, &c.Format, &c.Campus, &start, &end,
		&c.InProgress, &c.ProgramManager, &c.LeadTeacher, &c.TotalHours, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.ID = id.String()
	c.StartDate = start.Time
	if end.Valid {
		t := end.Time
		c.EndDate = &t
	}
	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time
	return &c, nil
}

func timestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil || t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t.UTC(), Valid: true}
}
