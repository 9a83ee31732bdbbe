package application

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/proactivefit/proactive-server/internal/domain/entity"
	"github.com/proactivefit/proactive-server/internal/domain/repository"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var errStore = errors.New("store down")

type fakeUserRepo struct {
	users map[string]*entity.User

	setBookedErr  error
	setBookedLog  []setBookedCall
	getByEmailErr error
}

type setBookedCall struct {
	email    string
	booked   []string
	enrolled []string
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		r.users[u.Email] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if _, ok := r.users[u.Email]; ok {
		return errors.New("duplicate email")
	}
	u.ID = "u-" + u.Email
	r.users[u.Email] = u
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if r.getByEmailErr != nil {
		return nil, r.getByEmailErr
	}
	u, ok := r.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	cp.Booked = append([]string{}, u.Booked...)
	cp.Enrolled = append([]string{}, u.Enrolled...)
	return &cp, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) ListByRole(_ context.Context, role string) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ListByEmails(_ context.Context, emails []string) ([]*entity.User, error) {
	var out []*entity.User
	for _, e := range emails {
		if u, ok := r.users[e]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateModeration(_ context.Context, id, role string, banned bool) error {
	for _, u := range r.users {
		if u.ID == id {
			u.Role = role
			u.Banned = banned
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeUserRepo) SetBookedAndEnrolled(_ context.Context, email string, booked, enrolled []string) error {
	r.setBookedLog = append(r.setBookedLog, setBookedCall{email: email, booked: booked, enrolled: enrolled})
	if r.setBookedErr != nil {
		return r.setBookedErr
	}
	u, ok := r.users[email]
	if !ok {
		return repository.ErrNotFound
	}
	u.Booked = append([]string{}, booked...)
	u.Enrolled = append([]string{}, enrolled...)
	return nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

type fakeClassRepo struct {
	classes map[string]*entity.Class

	// failIncrement lists class ids whose increment must fail.
	failIncrement map[string]bool
	incrementLog  [][]string
}

func newFakeClassRepo(classes ...*entity.Class) *fakeClassRepo {
	r := &fakeClassRepo{
		classes:       make(map[string]*entity.Class),
		failIncrement: make(map[string]bool),
	}
	for _, c := range classes {
		r.classes[c.ID] = c
	}
	return r
}

func (r *fakeClassRepo) Create(_ context.Context, c *entity.Class) error {
	if c.ID == "" {
		c.ID = fmt.Sprintf("cls-%d", len(r.classes)+1)
	}
	r.classes[c.ID] = c
	return nil
}

func (r *fakeClassRepo) GetByID(_ context.Context, id string) (*entity.Class, error) {
	c, ok := r.classes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (r *fakeClassRepo) List(_ context.Context, f repository.ClassFilter) ([]*entity.Class, error) {
	var out []*entity.Class
	for _, c := range r.classes {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.InstructorEmail != "" && c.InstructorEmail != f.InstructorEmail {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeClassRepo) ListByIDs(_ context.Context, ids []string) ([]*entity.Class, error) {
	var out []*entity.Class
	for _, id := range ids {
		if c, ok := r.classes[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeClassRepo) UpdateModeration(_ context.Context, id, status, feedback string) error {
	c, ok := r.classes[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Status = status
	c.Feedback = feedback
	return nil
}

func (r *fakeClassRepo) IncrementEnrolledCount(_ context.Context, ids []string) (succeeded, failed []string, err error) {
	r.incrementLog = append(r.incrementLog, append([]string{}, ids...))
	for _, id := range ids {
		if r.failIncrement[id] {
			failed = append(failed, id)
			continue
		}
		if c, ok := r.classes[id]; ok {
			c.EnrolledCount++
		}
		succeeded = append(succeeded, id)
	}
	if len(failed) > 0 {
		err = errStore
	}
	return succeeded, failed, err
}

var _ repository.ClassRepository = (*fakeClassRepo)(nil)

type fakePaymentRepo struct {
	payments []*entity.Payment

	appendErr error
	nextID    int
}

func (r *fakePaymentRepo) Append(_ context.Context, p *entity.Payment) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	if p.IdempotencyKey != "" {
		for _, prior := range r.payments {
			if prior.IdempotencyKey == p.IdempotencyKey {
				return repository.ErrDuplicatePayment
			}
		}
	}
	r.nextID++
	p.ID = fmt.Sprintf("pay-%d", r.nextID)
	cp := *p
	r.payments = append(r.payments, &cp)
	return nil
}

func (r *fakePaymentRepo) GetByIdempotencyKey(_ context.Context, key string) (*entity.Payment, error) {
	for _, p := range r.payments {
		if p.IdempotencyKey == key {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	for _, p := range r.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePaymentRepo) ListByEmail(_ context.Context, email string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for i := len(r.payments) - 1; i >= 0; i-- {
		if r.payments[i].Email == email {
			out = append(out, r.payments[i])
		}
	}
	return out, nil
}

var _ repository.PaymentRepository = (*fakePaymentRepo)(nil)

type fakeGateway struct {
	secret string
	err    error

	gotCents    int64
	gotCurrency string
}

func (g *fakeGateway) Authorize(_ context.Context, amountCents int64, currency string) (string, error) {
	g.gotCents = amountCents
	g.gotCurrency = currency
	if g.err != nil {
		return "", g.err
	}
	return g.secret, nil
}

type fakePublisher struct {
	published []any
	err       error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, body)
	return nil
}
