package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"github.com/bytservice/repair-service-api/internal/dto"
	apierrors "github.com/bytservice/repair-service-api/internal/errors"
	"github.com/bytservice/repair-service-api/internal/services"
)

// QualityHandler exposes the quality/feedback collaborator.
type QualityHandler struct {
	qualityService *services.QualityService
}

// NewQualityHandler creates a new QualityHandler.
func NewQualityHandler(qualityService *services.QualityService) *QualityHandler {
	return &QualityHandler{
		qualityService: qualityService,
	}
}

// Dashboard returns the overdue backlog and feedback aggregates.
func (h *QualityHandler) Dashboard(c *gin.Context) {
	overdue, err := h.qualityService.ListOverdue()
	if err != nil {
		logrus.WithError(err).Error("failed to load overdue requests")
		apierrors.InternalError(c, "Failed to load quality dashboard")
		return
	}

	stats, err := h.qualityService.GetStats()
	if err != nil {
		logrus.WithError(err).Error("failed to load quality stats")
		apierrors.InternalError(c, "Failed to load quality dashboard")
		return
	}

	overdueDTOs := make([]dto.RequestDTO, len(overdue))
	for i, req := range overdue {
		overdueDTOs[i] = dto.ToRequestDTO(req)
	}

	c.JSON(http.StatusOK, gin.H{
		"overdue_requests": overdueDTOs,
		"quality_stats":    stats,
	})
}

// Overdue returns unfinished requests older than the threshold.
func (h *QualityHandler) Overdue(c *gin.Context) {
	overdue, err := h.qualityService.ListOverdue()
	if err != nil {
		logrus.WithError(err).Error("failed to load overdue requests")
		apierrors.InternalError(c, "Failed to load overdue requests")
		return
	}

	dtos := make([]dto.RequestDTO, len(overdue))
	for i, req := range overdue {
		dtos[i] = dto.ToRequestDTO(req)
	}

	c.JSON(http.StatusOK, gin.H{"requests": dtos})
}

// QRCode generates a feedback QR code for a completed request.
func (h *QualityHandler) QRCode(c *gin.Context) {
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	baseURL := fmt.Sprintf("%s://%s", scheme, c.Request.Host)

	qr, err := h.qualityService.GenerateQRCode(requestID, baseURL)
	if err != nil {
		if errors.Is(err, services.ErrRequestNotCompleted) {
			apierrors.NotFound(c, err.Error())
			return
		}
		logrus.WithError(err).Error("failed to generate QR code")
		apierrors.InternalError(c, "Failed to generate QR code")
		return
	}

	c.JSON(http.StatusOK, qr)
}

// FeedbackForm returns the completed request shown on the public feedback
// page.
func (h *QualityHandler) FeedbackForm(c *gin.Context) {
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	request, err := h.qualityService.GetFeedbackRequest(requestID)
	if err != nil {
		if errors.Is(err, services.ErrRequestNotCompleted) {
			apierrors.NotFound(c, err.Error())
			return
		}
		logrus.WithError(err).Error("failed to load feedback request")
		apierrors.InternalError(c, "Failed to load request")
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": dto.ToRequestDTO(*request)})
}

// SubmitFeedback captures a rating for a completed request.
func (h *QualityHandler) SubmitFeedback(c *gin.Context) {
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	type FeedbackRequest struct {
		Rating  int    `json:"rating"`
		Message string `json:"message"`
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	feedback, err := h.qualityService.SubmitFeedback(requestID, req.Rating, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRating):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrRequestNotCompleted):
			apierrors.NotFound(c, err.Error())
		default:
			logrus.WithError(err).Error("failed to store feedback")
			apierrors.InternalError(c, "Failed to store feedback")
		}
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

// Statistics returns aggregate feedback statistics.
func (h *QualityHandler) Statistics(c *gin.Context) {
	stats, err := h.qualityService.GetStats()
	if err != nil {
		logrus.WithError(err).Error("failed to load quality stats")
		apierrors.InternalError(c, "Failed to load quality statistics")
		return
	}

	c.JSON(http.StatusOK, stats)
}
