package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/proactivefit/proactive-server/internal/domain/repository"
)

// BookingService flips membership of a class id in a member's booked set:
// inserts when absent, removes when present. It runs before any payment and
// touches only the identity store.
type BookingService struct {
	Users  repository.UserRepository
	Logger *logrus.Logger
}

func NewBookingService(users repository.UserRepository, logger *logrus.Logger) *BookingService {
	return &BookingService{Users: users, Logger: logger}
}

// Toggle returns whether the class is booked after the flip. Toggling twice
// with no settlement in between restores the prior set.
//
// Concurrent toggles on the same member race: the whole booked set is
// written back, last write wins. Known consistency gap, accepted for this
// surface.
func (s *BookingService) Toggle(ctx context.Context, email, classID string) (bool, error) {
	if email == "" || classID == "" {
		return false, ErrInvalidInput
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, fmt.Errorf("%w: %s", ErrUserNotFound, email)
		}
		return false, fmt.Errorf("load user %s: %w", email, err)
	}

	booked, nowBooked := toggle(u.Booked, classID)
	if err := s.Users.SetBookedAndEnrolled(ctx, email, booked, u.Enrolled); err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"email": email, "class_id": classID,
		}).Error("booking toggle write failed")
		return false, err
	}
	return nowBooked, nil
}
