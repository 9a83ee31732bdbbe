package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/proactivefit/proactive-server/internal/domain/entity"
	"github.com/proactivefit/proactive-server/internal/domain/repository"
	"github.com/proactivefit/proactive-server/pkg/helpers"
)

// UserService covers the identity surface: first-sign-in upsert + token
// issue, self lookup, and admin moderation.
type UserService struct {
	Users  repository.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewUserService(users repository.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *UserService {
	return &UserService{Users: users, JWT: jwt, Logger: logger}
}

// IssuedToken is a signed bearer token plus its expiry.
type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      string    `json:"role"`
}

// IssueToken creates the user record on first sign-in (role student) and
// signs a bearer token carrying the {email, role} claim. Banned users are
// refused a token; outstanding tokens age out with the TTL.
func (s *UserService) IssueToken(ctx context.Context, email, name string) (*IssuedToken, error) {
	if email == "" {
		return nil, ErrInvalidInput
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		u = &entity.User{
			Email:    email,
			Name:     name,
			Role:     entity.RoleStudent,
			Booked:   []string{},
			Enrolled: []string{},
		}
		if cerr := s.Users.Create(ctx, u); cerr != nil {
			s.Logger.WithError(cerr).WithField("email", email).Error("first sign-in create failed")
			return nil, cerr
		}
		s.Logger.WithField("email", email).Info("user created on first sign-in")
	} else if err != nil {
		return nil, fmt.Errorf("load user %s: %w", email, err)
	}
	if u.Banned {
		return nil, ErrBanned
	}

	token, exp, err := s.JWT.Generate(u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{Token: token, ExpiresAt: exp, Role: u.Role}, nil
}

// Me returns the caller's own record.
func (s *UserService) Me(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, email)
		}
		return nil, fmt.Errorf("load user %s: %w", email, err)
	}
	return u, nil
}

// ListUsers returns every user, sorted by role (admin view).
func (s *UserService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	return s.Users.List(ctx)
}

// Moderate changes a user's role and ban state (admin only).
func (s *UserService) Moderate(ctx context.Context, id, role string, banned bool) error {
	if !entity.ValidRole(role) {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	if err := s.Users.UpdateModeration(ctx, id, role, banned); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUserNotFound, id)
		}
		return fmt.Errorf("moderate user %s: %w", id, err)
	}
	s.Logger.WithFields(logrus.Fields{"user_id": id, "role": role, "banned": banned}).Info("user moderated")
	return nil
}
