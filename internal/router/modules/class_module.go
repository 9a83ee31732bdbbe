package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/proactivefit/proactive-server/internal/container"
	"github.com/proactivefit/proactive-server/internal/domain/entity"
	handlers "github.com/proactivefit/proactive-server/internal/interface/http"
	"github.com/proactivefit/proactive-server/internal/interface/middleware"
)

// ClassModule wires catalog routes.
// Public: GET /api/classes, GET /api/classes/search, GET /api/instructors,
// GET /api/instructors/popular
// Protected: GET /api/classes/mine
// Instructor: POST /api/classes, GET /api/classes/taught
// Admin: PATCH /api/classes/:id

type ClassModule struct {
	Handler *handlers.ClassHandler
}

func NewClasses(h *handlers.ClassHandler) *ClassModule {
	return &ClassModule{Handler: h}
}

func (m *ClassModule) Register(rg *gin.RouterGroup) {
	rg.GET("/classes", m.Handler.List)
	rg.GET("/classes/search", m.Handler.Search)
	rg.GET("/instructors", m.Handler.Instructors)
	rg.GET("/instructors/popular", m.Handler.PopularInstructors)

	auth := rg.Group("/classes")
	auth.Use(middleware.Auth(container.GetJWT()))
	{
		auth.GET("/mine", m.Handler.Mine)

		instructor := auth.Group("")
		instructor.Use(middleware.RequireRole(entity.RoleInstructor))
		{
			instructor.POST("", m.Handler.Submit)
			instructor.GET("/taught", m.Handler.Taught)
		}

		admin := auth.Group("")
		admin.Use(middleware.RequireRole(entity.RoleAdmin))
		{
			admin.PATCH("/:id", m.Handler.Moderate)
		}
	}
}
