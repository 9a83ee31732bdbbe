package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proactivefit/proactive-server/internal/domain/entity"
	"github.com/proactivefit/proactive-server/internal/domain/repository"
)

// uniqueViolation is the Postgres error code raised when the idempotency
// key collides with an existing ledger row.
const uniqueViolation = "23505"

// PaymentRepository is the append-only ledger. Append is the only write;
// there is intentionally no Update or Delete.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) Append(ctx context.Context, p *entity.Payment) error {
	if p.ClassIDs == nil {
		p.ClassIDs = []string{}
	}
	key := sql.NullString{String: p.IdempotencyKey, Valid: p.IdempotencyKey != ""}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO payments (email, amount_cents, class_ids, idempotency_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, p.Email, p.AmountCents, p.ClassIDs, key)

	if err := row.Scan(&p.ID, &p.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicatePayment
		}
		return err
	}
	return nil
}

func (r *PaymentRepository) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Payment, error) {
	return scanPayment(r.pool.QueryRow(ctx, `
		SELECT id, email, amount_cents, class_ids, COALESCE(idempotency_key, ''), created_at
		FROM payments
		WHERE idempotency_key = $1
	`, key))
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	return scanPayment(r.pool.QueryRow(ctx, `
		SELECT id, email, amount_cents, class_ids, COALESCE(idempotency_key, ''), created_at
		FROM payments
		WHERE id = $1
	`, id))
}

func (r *PaymentRepository) ListByEmail(ctx context.Context, email string) ([]*entity.Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, amount_cents, class_ids, COALESCE(idempotency_key, ''), created_at
		FROM payments
		WHERE email = $1
		ORDER BY created_at DESC
	`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*entity.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	p := &entity.Payment{}
	if err := row.Scan(&p.ID, &p.Email, &p.AmountCents, &p.ClassIDs, &p.IdempotencyKey, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

var _ repository.PaymentRepository = (*PaymentRepository)(nil)
