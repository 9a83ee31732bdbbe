package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/proactivefit/proactive-server/internal/domain/entity"
	"github.com/proactivefit/proactive-server/internal/domain/repository"
	"github.com/proactivefit/proactive-server/pkg/helpers"
)

const popularInstructorsKey = "cache:popular_instructors"

// ClassService covers the catalog surface: instructor submission, admin
// moderation, listings, member set resolution, and search.
type ClassService struct {
	Classes repository.ClassRepository
	Users   repository.UserRepository
	Logger  *logrus.Logger
	Redis   *redis.Client
	ES      *elasticsearch.Client
	ESIndex string
}

func NewClassService(classes repository.ClassRepository, users repository.UserRepository, logger *logrus.Logger, rdb *redis.Client, es *elasticsearch.Client, esIndex string) *ClassService {
	return &ClassService{Classes: classes, Users: users, Logger: logger, Redis: rdb, ES: es, ESIndex: esIndex}
}

// SubmitInput is an instructor's new class submission.
type SubmitInput struct {
	Name     string
	Price    float64
	Seats    int
	ImageURL string
}

// Submit stores a new class in pending state, attributed to the calling
// instructor.
func (s *ClassService) Submit(ctx context.Context, instructorEmail string, in SubmitInput) (*entity.Class, error) {
	if instructorEmail == "" || in.Name == "" {
		return nil, ErrInvalidInput
	}
	c := &entity.Class{
		Name:            in.Name,
		InstructorEmail: instructorEmail,
		Status:          entity.ClassPending,
		Price:           in.Price,
		Seats:           in.Seats,
		ImageURL:        in.ImageURL,
	}
	if err := s.Classes.Create(ctx, c); err != nil {
		return nil, err
	}
	_ = s.indexClass(ctx, c)
	return c, nil
}

// Moderate changes a class's approval status and feedback (admin only).
func (s *ClassService) Moderate(ctx context.Context, id, status, feedback string) error {
	if !entity.ValidClassStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	if err := s.Classes.UpdateModeration(ctx, id, status, feedback); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrClassNotFound, id)
		}
		return fmt.Errorf("moderate class %s: %w", id, err)
	}
	if c, err := s.Classes.GetByID(ctx, id); err == nil {
		_ = s.indexClass(ctx, c)
	}
	s.Logger.WithFields(logrus.Fields{"class_id": id, "status": status}).Info("class moderated")
	return nil
}

// List returns catalog entries matching the filter. Approved listings are
// sorted by popularity.
func (s *ClassService) List(ctx context.Context, f repository.ClassFilter) ([]*entity.Class, error) {
	if f.Status == entity.ClassApproved {
		f.ByEnrollment = true
	}
	return s.Classes.List(ctx, f)
}

// ListMine resolves a member's booked or enrolled set into class records.
func (s *ClassService) ListMine(ctx context.Context, email, kind string) ([]*entity.Class, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, email)
		}
		return nil, fmt.Errorf("load user %s: %w", email, err)
	}
	switch kind {
	case "booked":
		return s.Classes.ListByIDs(ctx, u.Booked)
	case "enrolled":
		return s.Classes.ListByIDs(ctx, u.Enrolled)
	default:
		return nil, fmt.Errorf("%w: kind must be booked or enrolled", ErrInvalidInput)
	}
}

// ListTaught returns the classes submitted by one instructor.
func (s *ClassService) ListTaught(ctx context.Context, instructorEmail string) ([]*entity.Class, error) {
	return s.Classes.List(ctx, repository.ClassFilter{InstructorEmail: instructorEmail})
}

// Instructors lists every instructor account.
func (s *ClassService) Instructors(ctx context.Context) ([]*entity.User, error) {
	return s.Users.ListByRole(ctx, entity.RoleInstructor)
}

// PopularInstructors returns up to six instructors ranked by the enrollment
// of their classes. The ranking is cached briefly; settlement moves it
// slowly enough that staleness is harmless.
func (s *ClassService) PopularInstructors(ctx context.Context) ([]*entity.User, error) {
	if s.Redis != nil {
		var cached []*entity.User
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, popularInstructorsKey, &cached); err == nil && ok {
			return cached, nil
		}
	}

	classes, err := s.Classes.List(ctx, repository.ClassFilter{ByEnrollment: true})
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	emails := []string{}
	for _, c := range classes {
		if _, ok := seen[c.InstructorEmail]; ok {
			continue
		}
		seen[c.InstructorEmail] = struct{}{}
		emails = append(emails, c.InstructorEmail)
		if len(emails) == 6 {
			break
		}
	}
	users, err := s.Users.ListByEmails(ctx, emails)
	if err != nil {
		return nil, err
	}
	// Preserve popularity order; ListByEmails gives no ordering guarantee.
	byEmail := make(map[string]*entity.User, len(users))
	for _, u := range users {
		byEmail[u.Email] = u
	}
	out := make([]*entity.User, 0, len(emails))
	for _, e := range emails {
		if u, ok := byEmail[e]; ok {
			out = append(out, u)
		}
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, popularInstructorsKey, out, 5*time.Minute); err != nil {
			s.Logger.WithError(err).Warn("popular instructors cache write failed")
		}
	}
	return out, nil
}

func (s *ClassService) indexClass(ctx context.Context, c *entity.Class) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":               c.ID,
		"name":             c.Name,
		"instructor_email": c.InstructorEmail,
		"status":           c.Status,
		"price":            c.Price,
		"enrolled_count":   c.EnrolledCount,
		"updated_at":       c.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: c.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(cctx, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("class_id", c.ID).Warn("es index failed")
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("class_id", c.ID).Warn("es index response error")
	}
	return nil
}

// Search performs a multi_match query over class names and instructors.
func (s *ClassService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "instructor_email"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
