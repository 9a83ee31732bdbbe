package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/proactivefit/proactive-server/internal/container"
	handlers "github.com/proactivefit/proactive-server/internal/interface/http"
	"github.com/proactivefit/proactive-server/internal/interface/middleware"
)

// PaymentModule wires charge quoting, settlement, and history.
// Protected: POST /api/payments/quote, POST /api/payments,
// GET /api/payments/history

type PaymentModule struct {
	Handler *handlers.PaymentHandler
}

func NewPayments(h *handlers.PaymentHandler) *PaymentModule {
	return &PaymentModule{Handler: h}
}

func (m *PaymentModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/payments")
	auth.Use(middleware.Auth(container.GetJWT()))
	// Settlement is not safe to hammer: the ledger append is the only
	// naturally non-idempotent write in the system.
	auth.Use(middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByEmail()))
	{
		auth.POST("/quote", m.Handler.Quote)
		auth.POST("", m.Handler.Settle)
		auth.GET("/history", m.Handler.History)
	}
}
