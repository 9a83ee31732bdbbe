package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/proactivefit/proactive-server/internal/container"
	handlers "github.com/proactivefit/proactive-server/internal/interface/http"
	"github.com/proactivefit/proactive-server/internal/interface/middleware"
)

// AuthModule wires the public token endpoint.
// Public: POST /api/auth/token

type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuth(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	tokenLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByIP())
	rg.POST("/auth/token", tokenLimiter, m.Handler.Token)
}
