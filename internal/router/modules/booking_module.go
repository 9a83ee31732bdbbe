package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/proactivefit/proactive-server/internal/container"
	handlers "github.com/proactivefit/proactive-server/internal/interface/http"
	"github.com/proactivefit/proactive-server/internal/interface/middleware"
)

// BookingModule wires the booking toggle.
// Protected: PATCH /api/bookings

type BookingModule struct {
	Handler *handlers.BookingHandler
}

func NewBookings(h *handlers.BookingHandler) *BookingModule {
	return &BookingModule{Handler: h}
}

func (m *BookingModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/bookings")
	auth.Use(middleware.Auth(container.GetJWT()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByEmail()))
	{
		auth.PATCH("", m.Handler.Toggle)
	}
}
