package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"github.com/bytservice/repair-service-api/internal/dto"
	apierrors "github.com/bytservice/repair-service-api/internal/errors"
	"github.com/bytservice/repair-service-api/internal/middleware"
	"github.com/bytservice/repair-service-api/internal/models"
	"github.com/bytservice/repair-service-api/internal/services"
	"github.com/bytservice/repair-service-api/internal/utils"
)

// RequestHandler exposes the work-order lifecycle over HTTP.
type RequestHandler struct {
	requestService *services.RequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(requestService *services.RequestService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
	}
}

// List returns the requests visible to the caller, filtered and paginated.
func (h *RequestHandler) List(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	input := services.ListRequestsInput{
		Search:   c.Query("search"),
		Page:     params.Page,
		PageSize: params.Limit,
	}
	if status := c.Query("status"); status != "" {
		s := models.RequestStatus(status)
		input.Status = &s
	}
	if technician := c.Query("technician"); technician != "" {
		id, err := strconv.ParseUint(technician, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid technician id")
			return
		}
		input.TechnicianID = &id
	}

	requests, total, err := h.requestService.List(identity, input)
	if err != nil {
		logrus.WithError(err).Error("failed to list requests")
		apierrors.InternalError(c, "Failed to load requests")
		return
	}

	c.JSON(http.StatusOK, dto.ToRequestListResponse(requests, params.Page, params.Limit, total))
}

// Create files a new work order.
func (h *RequestHandler) Create(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateRequest struct {
		ApplianceType      string  `json:"appliance_type"`
		ApplianceModel     string  `json:"appliance_model"`
		ProblemDescription string  `json:"problem_description"`
		CustomerID         *uint64 `json:"customer_id"`
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	request, err := h.requestService.Create(identity, services.CreateRequestInput{
		ApplianceType:      req.ApplianceType,
		ApplianceModel:     req.ApplianceModel,
		ProblemDescription: req.ProblemDescription,
		CustomerID:         req.CustomerID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrCustomerNotFound):
			apierrors.BadRequest(c, err.Error())
		default:
			logrus.WithError(err).Error("failed to create request")
			apierrors.InternalError(c, "Failed to create request")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToRequestDTO(*request))
}

// Get returns a request with its comments and the technician directory.
func (h *RequestHandler) Get(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	detail, err := h.requestService.Get(identity, requestID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			apierrors.NotFound(c, "Request not found")
		case errors.Is(err, services.ErrNotRequestOwner):
			apierrors.Forbidden(c, err.Error())
		default:
			logrus.WithError(err).Error("failed to load request")
			apierrors.InternalError(c, "Failed to load request")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRequestDetailDTO(*detail.Request, detail.Comments, detail.Technicians))
}

// Update applies a partial field update. The raw body is inspected so that
// an absent field, a null field, and an empty field keep their distinct
// meanings.
func (h *RequestHandler) Update(c *gin.Context) {
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateRequestInput

	if value, present := raw["status"]; present {
		if str, ok := value.(string); ok && str != "" {
			status := models.RequestStatus(str)
			input.Status = &status
		}
	}

	if value, present := raw["technician_id"]; present {
		input.SetTechnician = true
		// null and "" both clear the assignment
		if num, ok := value.(float64); ok && num > 0 {
			id := uint64(num)
			input.TechnicianID = &id
		}
	}

	if value, present := raw["repair_parts"]; present {
		input.SetRepairParts = true
		if str, ok := value.(string); ok && str != "" {
			input.RepairParts = &str
		}
	}

	if value, present := raw["problem_description"]; present {
		if str, ok := value.(string); ok {
			input.ProblemDescription = &str
		}
	}

	request, err := h.requestService.Update(requestID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			apierrors.NotFound(c, "Request not found")
		case errors.Is(err, services.ErrInvalidStatus), errors.Is(err, services.ErrNotTechnician):
			apierrors.BadRequest(c, err.Error())
		default:
			logrus.WithError(err).Error("failed to update request")
			apierrors.InternalError(c, "Failed to update request")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRequestDTO(*request))
}

// AddComment appends a comment to a request.
func (h *RequestHandler) AddComment(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	type CommentRequest struct {
		Message string `json:"message"`
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.requestService.AddComment(identity, requestID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyComment):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrRequestNotFound):
			apierrors.NotFound(c, "Request not found")
		default:
			logrus.WithError(err).Error("failed to add comment")
			apierrors.InternalError(c, "Failed to add comment")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// MyRequestsCount returns the number of requests visible to the caller.
func (h *RequestHandler) MyRequestsCount(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	count, err := h.requestService.CountVisible(identity)
	if err != nil {
		logrus.WithError(err).Error("failed to count requests")
		apierrors.InternalError(c, "Failed to count requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func requestIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid request id")
		return 0, false
	}
	return id, true
}
