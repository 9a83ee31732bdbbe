package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proactivefit/proactive-server/internal/domain/entity"
	"github.com/proactivefit/proactive-server/internal/domain/repository"
)

type ClassRepository struct {
	pool *pgxpool.Pool
}

func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

const classColumns = `id, name, instructor_email, status, feedback, price, seats, enrolled_count, image_url, created_at, updated_at`

func scanClass(row pgx.Row) (*entity.Class, error) {
	c := &entity.Class{}
	if err := row.Scan(&c.ID, &c.Name, &c.InstructorEmail, &c.Status, &c.Feedback,
		&c.Price, &c.Seats, &c.EnrolledCount, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *ClassRepository) Create(ctx context.Context, c *entity.Class) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO classes (name, instructor_email, status, feedback, price, seats, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, enrolled_count, created_at, updated_at
	`, c.Name, c.InstructorEmail, c.Status, c.Feedback, c.Price, c.Seats, c.ImageURL)

	return row.Scan(&c.ID, &c.EnrolledCount, &c.CreatedAt, &c.UpdatedAt)
}

func (r *ClassRepository) GetByID(ctx context.Context, id string) (*entity.Class, error) {
	return scanClass(r.pool.QueryRow(ctx, `
		SELECT `+classColumns+`
		FROM classes
		WHERE id = $1
	`, id))
}

func (r *ClassRepository) List(ctx context.Context, f repository.ClassFilter) ([]*entity.Class, error) {
	q := `SELECT ` + classColumns + ` FROM classes`
	args := []any{}
	switch {
	case f.Status != "":
		args = append(args, f.Status)
		q += ` WHERE status = $1`
	case f.InstructorEmail != "":
		args = append(args, f.InstructorEmail)
		q += ` WHERE instructor_email = $1`
	}
	if f.ByEnrollment {
		q += ` ORDER BY enrolled_count DESC`
	} else {
		q += ` ORDER BY status DESC, created_at DESC`
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectClasses(rows)
}

func (r *ClassRepository) ListByIDs(ctx context.Context, ids []string) ([]*entity.Class, error) {
	if len(ids) == 0 {
		return []*entity.Class{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+classColumns+`
		FROM classes
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectClasses(rows)
}

func (r *ClassRepository) UpdateModeration(ctx context.Context, id, status, feedback string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE classes
		SET status = $1, feedback = $2, updated_at = $3
		WHERE id = $4
	`, status, feedback, time.Now(), id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// IncrementEnrolledCount applies one UPDATE per class id. Each row update is
// atomic on its own; a failure on one id does not stop the rest, and failed
// ids are reported back for targeted reconciliation.
func (r *ClassRepository) IncrementEnrolledCount(ctx context.Context, ids []string) ([]string, []string, error) {
	succeeded := []string{}
	failed := []string{}
	var errs error
	for _, id := range ids {
		res, err := r.pool.Exec(ctx, `
			UPDATE classes
			SET enrolled_count = enrolled_count + 1, updated_at = $1
			WHERE id = $2
		`, time.Now(), id)
		if err != nil {
			failed = append(failed, id)
			errs = errors.Join(errs, fmt.Errorf("class %s: %w", id, err))
			continue
		}
		if res.RowsAffected() == 0 {
			failed = append(failed, id)
			errs = errors.Join(errs, fmt.Errorf("class %s: %w", id, repository.ErrNotFound))
			continue
		}
		succeeded = append(succeeded, id)
	}
	return succeeded, failed, errs
}

func collectClasses(rows pgx.Rows) ([]*entity.Class, error) {
	out := []*entity.Class{}
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ repository.ClassRepository = (*ClassRepository)(nil)
