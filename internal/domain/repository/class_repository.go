package repository

import (
	"context"

	"github.com/proactivefit/proactive-server/internal/domain/entity"
)

// ClassFilter narrows a catalog listing. Zero value lists everything.
type ClassFilter struct {
	Status          string
	InstructorEmail string
	// ByEnrollment sorts by enrolled_count descending when true.
	ByEnrollment bool
}

// ClassRepository defines the interface for class-catalog operations.
type ClassRepository interface {
	Create(ctx context.Context, c *entity.Class) error
	GetByID(ctx context.Context, id string) (*entity.Class, error)
	List(ctx context.Context, f ClassFilter) ([]*entity.Class, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Class, error)

	// UpdateModeration changes status and feedback (admin only).
	UpdateModeration(ctx context.Context, id, status, feedback string) error

	// IncrementEnrolledCount adds exactly one to each listed class and
	// reports which ids landed and which did not, so reconciliation can
	// target the residue. Each row update is atomic on its own; there is
	// no cross-row transaction.
	IncrementEnrolledCount(ctx context.Context, ids []string) (succeeded, failed []string, err error)
}
