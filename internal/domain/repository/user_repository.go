package repository

import (
	"context"

	"github.com/proactivefit/proactive-server/internal/domain/entity"
)

// UserRepository defines the interface for identity-store operations.
// Email is the external key and is unique.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	ListByRole(ctx context.Context, role string) ([]*entity.User, error)
	ListByEmails(ctx context.Context, emails []string) ([]*entity.User, error)

	// UpdateModeration changes role and ban state (admin only).
	UpdateModeration(ctx context.Context, id, role string, banned bool) error

	// SetBookedAndEnrolled replaces both class-id sets in a single
	// single-row write. The store guarantees atomicity per record, not
	// across records.
	SetBookedAndEnrolled(ctx context.Context, email string, booked, enrolled []string) error
}
