package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/proactivefit/proactive-server/internal/application"
	"github.com/proactivefit/proactive-server/pkg/response"
	"github.com/proactivefit/proactive-server/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.UserService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type tokenRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

// Token upserts the user on first sign-in and returns a signed bearer
// token carrying the {email, role} claim.
func (h *AuthHandler) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	issued, err := h.Svc.IssueToken(c.Request.Context(), req.Email, req.Name)
	if err != nil {
		if errors.Is(err, application.ErrBanned) {
			response.Error(c, http.StatusForbidden, "account banned", nil)
			return
		}
		h.Logger.WithError(err).WithField("email", req.Email).Error("token issue failed")
		response.Error(c, http.StatusInternalServerError, "could not issue token", nil)
		return
	}
	response.Success(c, http.StatusOK, issued, "token issued")
}
