package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/proactivefit/proactive-server/internal/application"
	"github.com/proactivefit/proactive-server/internal/domain/repository"
	"github.com/proactivefit/proactive-server/internal/interface/middleware"
	"github.com/proactivefit/proactive-server/pkg/response"
	"github.com/proactivefit/proactive-server/pkg/validation"
)

type ClassHandler struct {
	Svc    *application.ClassService
	Logger *logrus.Logger
}

func NewClassHandler(svc *application.ClassService, logger *logrus.Logger) *ClassHandler {
	return &ClassHandler{Svc: svc, Logger: logger}
}

// List returns catalog entries, optionally filtered by status or
// instructor email.
func (h *ClassHandler) List(c *gin.Context) {
	f := repository.ClassFilter{
		Status:          c.Query("status"),
		InstructorEmail: c.Query("email"),
	}
	classes, err := h.Svc.List(c.Request.Context(), f)
	if err != nil {
		h.Logger.WithError(err).Error("class listing failed")
		response.Error(c, http.StatusInternalServerError, "could not list classes", nil)
		return
	}
	response.Success(c, http.StatusOK, classes, "classes")
}

// Mine resolves the caller's booked or enrolled set into class records.
func (h *ClassHandler) Mine(c *gin.Context) {
	email := c.GetString(middleware.CtxEmailKey)
	kind := c.Query("kind")
	classes, err := h.Svc.ListMine(c.Request.Context(), email, kind)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid query syntax", nil)
		case errors.Is(err, application.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "user not found", nil)
		default:
			h.Logger.WithError(err).WithField("email", email).Error("member class lookup failed")
			response.Error(c, http.StatusInternalServerError, "could not list classes", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, classes, kind+" classes")
}

// Taught returns the calling instructor's submissions.
func (h *ClassHandler) Taught(c *gin.Context) {
	email := c.GetString(middleware.CtxEmailKey)
	classes, err := h.Svc.ListTaught(c.Request.Context(), email)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "could not list classes", nil)
		return
	}
	response.Success(c, http.StatusOK, classes, "taught classes")
}

type submitClassRequest struct {
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	Seats    int     `json:"seats" binding:"gte=0"`
	ImageURL string  `json:"image_url"`
}

// Submit stores a new pending class for the calling instructor.
func (h *ClassHandler) Submit(c *gin.Context) {
	var req submitClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	email := c.GetString(middleware.CtxEmailKey)
	class, err := h.Svc.Submit(c.Request.Context(), email, application.SubmitInput{
		Name:     req.Name,
		Price:    req.Price,
		Seats:    req.Seats,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		h.Logger.WithError(err).WithField("email", email).Error("class submission failed")
		response.Error(c, http.StatusInternalServerError, "could not submit class", nil)
		return
	}
	response.Success(c, http.StatusCreated, class, "class submitted")
}

type moderateClassRequest struct {
	Status   string `json:"status" binding:"required,oneof=pending approved denied"`
	Feedback string `json:"feedback"`
}

// Moderate changes a class's approval status (admin only).
func (h *ClassHandler) Moderate(c *gin.Context) {
	id := c.Param("id")
	var req moderateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.Moderate(c.Request.Context(), id, req.Status, req.Feedback); err != nil {
		switch {
		case errors.Is(err, application.ErrClassNotFound):
			response.Error(c, http.StatusNotFound, "class not found", nil)
		case errors.Is(err, application.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "could not update class", err.Error())
		default:
			h.Logger.WithError(err).WithField("class_id", id).Error("class moderation failed")
			response.Error(c, http.StatusInternalServerError, "could not update class", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "status": req.Status}, "class updated")
}

// Instructors lists every instructor account.
func (h *ClassHandler) Instructors(c *gin.Context) {
	users, err := h.Svc.Instructors(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "could not list instructors", nil)
		return
	}
	response.Success(c, http.StatusOK, users, "instructors")
}

// PopularInstructors returns up to six instructors ranked by enrollment.
func (h *ClassHandler) PopularInstructors(c *gin.Context) {
	users, err := h.Svc.PopularInstructors(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "could not list instructors", nil)
		return
	}
	response.Success(c, http.StatusOK, users, "popular instructors")
}

// Search queries the class index.
func (h *ClassHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error(c, http.StatusBadRequest, "missing query", nil)
		return
	}
	hits, err := h.Svc.Search(c.Request.Context(), q, 10)
	if err != nil {
		h.Logger.WithError(err).Error("class search failed")
		response.Error(c, http.StatusInternalServerError, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results")
}
