package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/proactivefit/proactive-server/internal/application"
	"github.com/proactivefit/proactive-server/internal/interface/middleware"
	"github.com/proactivefit/proactive-server/pkg/response"
)

type BookingHandler struct {
	Svc    *application.BookingService
	Logger *logrus.Logger
}

func NewBookingHandler(svc *application.BookingService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, Logger: logger}
}

// Toggle flips membership of classId in the caller's booked set.
func (h *BookingHandler) Toggle(c *gin.Context) {
	email := c.GetString(middleware.CtxEmailKey)
	classID := c.Query("classId")

	booked, err := h.Svc.Toggle(c.Request.Context(), email, classID)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid query syntax", nil)
		case errors.Is(err, application.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "user not found", nil)
		default:
			h.Logger.WithError(err).WithField("email", email).Error("booking toggle failed")
			response.Error(c, http.StatusInternalServerError, "could not toggle booking", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class_id": classID, "booked": booked}, "booking toggled")
}
