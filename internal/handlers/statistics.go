package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	apierrors "github.com/bytservice/repair-service-api/internal/errors"
	"github.com/bytservice/repair-service-api/internal/models"
	"github.com/bytservice/repair-service-api/internal/services"
)

// StatisticsHandler exposes the reporting collaborator.
type StatisticsHandler struct {
	statisticsService *services.StatisticsService
}

// NewStatisticsHandler creates a new StatisticsHandler.
func NewStatisticsHandler(statisticsService *services.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{
		statisticsService: statisticsService,
	}
}

// Dashboard returns the aggregate statistics view.
func (h *StatisticsHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.statisticsService.GetDashboard()
	if err != nil {
		logrus.WithError(err).Error("failed to build statistics dashboard")
		apierrors.InternalError(c, "Failed to load statistics")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// Requests returns annotated request rows for a period.
func (h *StatisticsHandler) Requests(c *gin.Context) {
	input := services.DetailedRequestsInput{}

	if period := c.DefaultQuery("period", "30"); period != "" {
		days, err := strconv.Atoi(period)
		if err != nil {
			apierrors.BadRequest(c, "Invalid period")
			return
		}
		input.PeriodDays = days
	}
	if technician := c.Query("technician"); technician != "" {
		id, err := strconv.ParseUint(technician, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid technician id")
			return
		}
		input.TechnicianID = &id
	}
	if status := c.Query("status"); status != "" {
		s := models.RequestStatus(status)
		input.Status = &s
	}

	requests, err := h.statisticsService.GetDetailedRequests(input)
	if err != nil {
		logrus.WithError(err).Error("failed to load detailed statistics")
		apierrors.InternalError(c, "Failed to load statistics")
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// Summary returns the flat JSON summary.
func (h *StatisticsHandler) Summary(c *gin.Context) {
	summary, err := h.statisticsService.GetSummary()
	if err != nil {
		logrus.WithError(err).Error("failed to build statistics summary")
		apierrors.InternalError(c, "Failed to load statistics")
		return
	}

	c.JSON(http.StatusOK, summary)
}
