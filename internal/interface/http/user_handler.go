package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/proactivefit/proactive-server/internal/application"
	"github.com/proactivefit/proactive-server/internal/domain/entity"
	"github.com/proactivefit/proactive-server/internal/interface/middleware"
	"github.com/proactivefit/proactive-server/pkg/response"
	"github.com/proactivefit/proactive-server/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

func userView(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"role":       u.Role,
		"banned":     u.Banned,
		"booked":     u.Booked,
		"enrolled":   u.Enrolled,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

// Me returns the caller's own record, keyed by the verified claim email.
func (h *UserHandler) Me(c *gin.Context) {
	email := c.GetString(middleware.CtxEmailKey)
	u, err := h.Svc.Me(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("email", email).Error("profile lookup failed")
		response.Error(c, http.StatusInternalServerError, "could not load profile", nil)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "profile")
}

// List returns all users sorted by role (admin only).
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("user listing failed")
		response.Error(c, http.StatusInternalServerError, "could not list users", nil)
		return
	}
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, userView(u))
	}
	response.Success(c, http.StatusOK, out, "users")
}

type moderateUserRequest struct {
	Role   string `json:"role" binding:"required,oneof=student instructor admin"`
	Banned bool   `json:"banned"`
}

// Moderate changes a user's role and ban state (admin only).
func (h *UserHandler) Moderate(c *gin.Context) {
	id := c.Param("id")
	var req moderateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.Moderate(c.Request.Context(), id, req.Role, req.Banned); err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "user not found", nil)
		case errors.Is(err, application.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "could not update user", err.Error())
		default:
			h.Logger.WithError(err).WithField("user_id", id).Error("user moderation failed")
			response.Error(c, http.StatusInternalServerError, "could not update user", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "role": req.Role, "banned": req.Banned}, "user updated")
}
