package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proactivefit/proactive-server/internal/application"
	"github.com/proactivefit/proactive-server/internal/domain/entity"
	"github.com/proactivefit/proactive-server/internal/domain/repository"
	"github.com/proactivefit/proactive-server/internal/interface/middleware"
)

type stubUserRepo struct {
	user       *entity.User
	setBooked  error
	getByEmail error
}

func (r *stubUserRepo) Create(context.Context, *entity.User) error { return nil }
func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if r.getByEmail != nil {
		return nil, r.getByEmail
	}
	if r.user == nil || r.user.Email != email {
		return nil, repository.ErrNotFound
	}
	return r.user, nil
}
func (r *stubUserRepo) GetByID(context.Context, string) (*entity.User, error) {
	return nil, repository.ErrNotFound
}
func (r *stubUserRepo) List(context.Context) ([]*entity.User, error)                { return nil, nil }
func (r *stubUserRepo) ListByRole(context.Context, string) ([]*entity.User, error)  { return nil, nil }
func (r *stubUserRepo) ListByEmails(context.Context, []string) ([]*entity.User, error) {
	return nil, nil
}
func (r *stubUserRepo) UpdateModeration(context.Context, string, string, bool) error { return nil }
func (r *stubUserRepo) SetBookedAndEnrolled(context.Context, string, []string, []string) error {
	return r.setBooked
}

type stubClassRepo struct {
	incrementFail []string
}

func (r *stubClassRepo) Create(context.Context, *entity.Class) error { return nil }
func (r *stubClassRepo) GetByID(context.Context, string) (*entity.Class, error) {
	return nil, repository.ErrNotFound
}
func (r *stubClassRepo) List(context.Context, repository.ClassFilter) ([]*entity.Class, error) {
	return nil, nil
}
func (r *stubClassRepo) ListByIDs(context.Context, []string) ([]*entity.Class, error) {
	return nil, nil
}
func (r *stubClassRepo) UpdateModeration(context.Context, string, string, string) error { return nil }
func (r *stubClassRepo) IncrementEnrolledCount(_ context.Context, ids []string) ([]string, []string, error) {
	if len(r.incrementFail) > 0 {
		var ok []string
		for _, id := range ids {
			fail := false
			for _, f := range r.incrementFail {
				if id == f {
					fail = true
					break
				}
			}
			if !fail {
				ok = append(ok, id)
			}
		}
		return ok, r.incrementFail, errors.New("store down")
	}
	return ids, nil, nil
}

type stubPaymentRepo struct {
	appendErr error
}

func (r *stubPaymentRepo) Append(_ context.Context, p *entity.Payment) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	p.ID = "pay-1"
	return nil
}
func (r *stubPaymentRepo) GetByIdempotencyKey(context.Context, string) (*entity.Payment, error) {
	return nil, repository.ErrNotFound
}
func (r *stubPaymentRepo) GetByID(context.Context, string) (*entity.Payment, error) {
	return nil, repository.ErrNotFound
}
func (r *stubPaymentRepo) ListByEmail(context.Context, string) ([]*entity.Payment, error) {
	return nil, nil
}

func settleRouter(users repository.UserRepository, classes repository.ClassRepository, payments repository.PaymentRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := application.NewSettlementService(users, classes, payments, nil, nil, logger)
	h := NewPaymentHandler(nil, svc, logger)

	r := gin.New()
	r.POST("/api/payments", func(c *gin.Context) {
		c.Set(middleware.CtxEmailKey, "a@x.com")
		h.Settle(c)
	})
	return r
}

func doSettle(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSettleEndpointComplete(t *testing.T) {
	users := &stubUserRepo{user: &entity.User{Email: "a@x.com", Booked: []string{"c1"}}}
	r := settleRouter(users, &stubClassRepo{}, &stubPaymentRepo{})

	w := doSettle(t, r, `{"amount_cents":1250,"class_ids":["c1"]}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                          `json:"success"`
		Data    application.SettlementResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "pay-1", resp.Data.PaymentID)
	assert.Equal(t, application.StepCompleted, resp.Data.Ledger)
	assert.Equal(t, application.StepCompleted, resp.Data.Membership)
	assert.Equal(t, application.StepCompleted, resp.Data.Capacity)
}

func TestSettleEndpointPartialIsMultiStatus(t *testing.T) {
	users := &stubUserRepo{user: &entity.User{Email: "a@x.com", Booked: []string{"c1"}}}
	classes := &stubClassRepo{incrementFail: []string{"c1"}}
	r := settleRouter(users, classes, &stubPaymentRepo{})

	w := doSettle(t, r, `{"amount_cents":1250,"class_ids":["c1"]}`)
	assert.Equal(t, http.StatusMultiStatus, w.Code)

	var resp struct {
		Data application.SettlementResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, application.StepFailed, resp.Data.Capacity)
	assert.Equal(t, []string{"c1"}, resp.Data.UnappliedClassIDs)
}

func TestSettleEndpointLedgerFailure(t *testing.T) {
	users := &stubUserRepo{user: &entity.User{Email: "a@x.com"}}
	payments := &stubPaymentRepo{appendErr: errors.New("store down")}
	r := settleRouter(users, &stubClassRepo{}, payments)

	w := doSettle(t, r, `{"amount_cents":1250,"class_ids":["c1"]}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSettleEndpointValidation(t *testing.T) {
	users := &stubUserRepo{user: &entity.User{Email: "a@x.com"}}
	r := settleRouter(users, &stubClassRepo{}, &stubPaymentRepo{})

	// Missing class ids.
	w := doSettle(t, r, `{"amount_cents":1250}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Non-positive amount.
	w = doSettle(t, r, `{"amount_cents":0,"class_ids":["c1"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown user.
	users.user = nil
	w = doSettle(t, r, `{"amount_cents":1250,"class_ids":["c1"]}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSettleEndpointUserStoreOutageIsServerError(t *testing.T) {
	// A failing identity store must not read as a missing user.
	users := &stubUserRepo{getByEmail: errors.New("store down")}
	r := settleRouter(users, &stubClassRepo{}, &stubPaymentRepo{})

	w := doSettle(t, r, `{"amount_cents":1250,"class_ids":["c1"]}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
