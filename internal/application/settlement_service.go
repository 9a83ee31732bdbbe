package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/proactivefit/proactive-server/internal/domain/entity"
	"github.com/proactivefit/proactive-server/internal/domain/repository"
	"github.com/proactivefit/proactive-server/pkg/mailer"
)

// StepOutcome is the status of one settlement step. The result carries one
// per step; settlement never collapses them into a single boolean.
type StepOutcome string

const (
	StepCompleted StepOutcome = "completed"
	StepFailed    StepOutcome = "failed"
	StepSkipped   StepOutcome = "skipped"
)

// SettlementInput describes one completed charge to be recorded.
// IdempotencyKey is optional; when present, a replay maps back to the
// original ledger row instead of appending a duplicate.
type SettlementInput struct {
	Email          string
	AmountCents    int64
	ClassIDs       []string
	IdempotencyKey string
}

// SettlementResult reports the outcome of each step. UnappliedClassIDs
// lists the classes whose enrolled_count increment did not land, so
// reconciliation can target exactly the residue. Replayed is set when the
// idempotency key matched a prior ledger row.
type SettlementResult struct {
	PaymentID         string      `json:"payment_id"`
	Ledger            StepOutcome `json:"ledger"`
	Membership        StepOutcome `json:"membership"`
	Capacity          StepOutcome `json:"capacity"`
	Replayed          bool        `json:"replayed,omitempty"`
	UnappliedClassIDs []string    `json:"unapplied_class_ids,omitempty"`
}

// Complete reports whether the settlement converged. On a replay the
// capacity step is skipped rather than re-run, so a skipped capacity
// counts as converged there.
func (r *SettlementResult) Complete() bool {
	if r.Ledger != StepCompleted || r.Membership != StepCompleted {
		return false
	}
	return r.Capacity == StepCompleted || (r.Replayed && r.Capacity == StepSkipped)
}

// EventPublisher is the port to the reconciliation / receipt queues.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// ReconcileEvent is published when a downstream settlement step fails. The
// reconcile worker replays the idempotent steps for the listed payment.
type ReconcileEvent struct {
	PaymentID         string    `json:"payment_id"`
	Email             string    `json:"email"`
	Membership        string    `json:"membership"`
	Capacity          string    `json:"capacity"`
	UnappliedClassIDs []string  `json:"unapplied_class_ids,omitempty"`
	At                time.Time `json:"at"`
}

// SettlementService is the cross-entity write choreographer for a completed
// charge. It owns no entity and has no rollback authority: the three writes
// run strictly in order ledger → membership → capacity, each atomic only at
// the single-record level, and the result exposes the partial outcome.
type SettlementService struct {
	Users    repository.UserRepository
	Classes  repository.ClassRepository
	Payments repository.PaymentRepository
	// Reconcile and Receipts are optional queues; settlement works without
	// them and only logs when a publish fails.
	Reconcile EventPublisher
	Receipts  EventPublisher
	Logger    *logrus.Logger
}

func NewSettlementService(
	users repository.UserRepository,
	classes repository.ClassRepository,
	payments repository.PaymentRepository,
	reconcile EventPublisher,
	receipts EventPublisher,
	logger *logrus.Logger,
) *SettlementService {
	return &SettlementService{
		Users:     users,
		Classes:   classes,
		Payments:  payments,
		Reconcile: reconcile,
		Receipts:  receipts,
		Logger:    logger,
	}
}

// Settle records a completed charge across the three stores.
//
// Ordering is deliberate: the ledger append is first so the irrecoverable
// external charge always has at least a ledger trace, even when membership
// or capacity lag behind. A ledger failure aborts before any other store is
// touched. Membership and capacity failures are reported in the result and
// raised to the reconciliation queue; they never roll back step 1 and never
// masquerade as success.
//
// Duplicate ids in the input count once. Replaying the same input with the
// same idempotency key converges: the prior ledger row is reused, step 2
// is a set union over the original class ids, and step 3 is skipped so the
// counters never advance twice for one charge.
func (s *SettlementService) Settle(ctx context.Context, in SettlementInput) (*SettlementResult, error) {
	ids := dedupe(in.ClassIDs)
	if in.Email == "" || len(ids) == 0 {
		return nil, ErrInvalidInput
	}

	u, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, in.Email)
		}
		return nil, fmt.Errorf("load user %s: %w", in.Email, err)
	}

	res := &SettlementResult{Ledger: StepSkipped, Membership: StepSkipped, Capacity: StepSkipped}

	// Step 1: ledger append anchors intent. Nothing else runs if it fails.
	p := &entity.Payment{
		Email:          in.Email,
		AmountCents:    in.AmountCents,
		ClassIDs:       ids,
		IdempotencyKey: in.IdempotencyKey,
	}
	replay := false
	if err := s.Payments.Append(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicatePayment) && in.IdempotencyKey != "" {
			prior, gerr := s.Payments.GetByIdempotencyKey(ctx, in.IdempotencyKey)
			if gerr != nil {
				res.Ledger = StepFailed
				return res, fmt.Errorf("%w: %v", ErrLedgerWriteFailed, gerr)
			}
			p = prior
			ids = prior.ClassIDs
			replay = true
			res.Replayed = true
		} else {
			res.Ledger = StepFailed
			return res, fmt.Errorf("%w: %v", ErrLedgerWriteFailed, err)
		}
	}
	res.Ledger = StepCompleted
	res.PaymentID = p.ID

	// Step 2: empty the booked set and union the purchase into enrolled.
	// Existing unrelated enrollments are preserved; no duplicates appear.
	enrolled := union(u.Enrolled, ids)
	if err := s.Users.SetBookedAndEnrolled(ctx, in.Email, []string{}, enrolled); err != nil {
		res.Membership = StepFailed
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"payment_id": p.ID, "email": in.Email,
		}).Error("settlement membership update failed")
	} else {
		res.Membership = StepCompleted
	}

	// Step 3: one increment per distinct class. Runs even when step 2
	// failed; the two outcomes are reported independently. A replay leaves
	// the counters alone: the original settlement already advanced them,
	// and any residue it left belongs to the reconcile worker.
	if replay {
		res.Capacity = StepSkipped
	} else if _, failedIDs, capErr := s.Classes.IncrementEnrolledCount(ctx, ids); capErr != nil || len(failedIDs) > 0 {
		res.Capacity = StepFailed
		res.UnappliedClassIDs = failedIDs
		s.Logger.WithError(capErr).WithFields(logrus.Fields{
			"payment_id": p.ID, "unapplied": failedIDs,
		}).Error("settlement capacity update failed")
	} else {
		res.Capacity = StepCompleted
	}

	if !res.Complete() {
		s.publishReconcile(ctx, in.Email, res)
	} else if !replay {
		s.publishReceipt(ctx, p)
	}
	return res, nil
}

func (s *SettlementService) publishReconcile(ctx context.Context, email string, res *SettlementResult) {
	if s.Reconcile == nil {
		return
	}
	ev := ReconcileEvent{
		PaymentID:         res.PaymentID,
		Email:             email,
		Membership:        string(res.Membership),
		Capacity:          string(res.Capacity),
		UnappliedClassIDs: res.UnappliedClassIDs,
		At:                time.Now().UTC(),
	}
	if err := s.Reconcile.PublishJSON(ctx, ev); err != nil {
		s.Logger.WithError(err).WithField("payment_id", res.PaymentID).Warn("reconcile publish failed")
	}
}

func (s *SettlementService) publishReceipt(ctx context.Context, p *entity.Payment) {
	if s.Receipts == nil {
		return
	}
	job := mailer.ReceiptJob{
		To:        p.Email,
		PaymentID: p.ID,
		Amount:    p.Amount(),
		ClassIDs:  p.ClassIDs,
	}
	if err := s.Receipts.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("payment_id", p.ID).Warn("receipt publish failed")
	}
}

// History returns the payer's settled charges, newest first.
func (s *SettlementService) History(ctx context.Context, email string) ([]*entity.Payment, error) {
	if email == "" {
		return nil, ErrInvalidInput
	}
	return s.Payments.ListByEmail(ctx, email)
}
