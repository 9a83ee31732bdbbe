package repository

import (
	"context"
	"errors"

	"github.com/proactivefit/proactive-server/internal/domain/entity"
)

// ErrDuplicatePayment is returned by Append when the idempotency key has
// already been used. The caller resolves the prior record via
// GetByIdempotencyKey instead of appending twice.
var ErrDuplicatePayment = errors.New("payment already recorded for idempotency key")

// PaymentRepository is the append-only ledger of completed charges.
// Append is the only write: no update, no delete. Corrections are made by
// downstream reconciliation, never by editing a row.
type PaymentRepository interface {
	// Append stores a new payment and fills in its id and creation time.
	Append(ctx context.Context, p *entity.Payment) error
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.Payment, error)
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	// ListByEmail returns a payer's history, newest first.
	ListByEmail(ctx context.Context, email string) ([]*entity.Payment, error)
}
