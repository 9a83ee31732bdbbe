package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/proactivefit/proactive-server/internal/container"
	"github.com/proactivefit/proactive-server/internal/domain/entity"
	handlers "github.com/proactivefit/proactive-server/internal/interface/http"
	"github.com/proactivefit/proactive-server/internal/interface/middleware"
)

// UserModule wires identity routes.
// Protected: GET /api/users/me
// Admin: GET /api/users, PATCH /api/users/:id

type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUsers(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/users")
	auth.Use(middleware.Auth(container.GetJWT()))
	{
		auth.GET("/me", m.Handler.Me)

		admin := auth.Group("")
		admin.Use(middleware.RequireRole(entity.RoleAdmin))
		{
			admin.GET("", m.Handler.List)
			admin.PATCH("/:id", m.Handler.Moderate)
		}
	}
}
