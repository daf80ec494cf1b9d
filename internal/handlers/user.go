package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"github.com/bytservice/repair-service-api/internal/dto"
	apierrors "github.com/bytservice/repair-service-api/internal/errors"
	"github.com/bytservice/repair-service-api/internal/middleware"
	"github.com/bytservice/repair-service-api/internal/models"
	"github.com/bytservice/repair-service-api/internal/services"
)

// UserHandler exposes the user directory and profile routes.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// List returns the user directory with search and role filters.
func (h *UserHandler) List(c *gin.Context) {
	input := services.ListUsersInput{
		Search: c.Query("search"),
	}
	if role := c.Query("type"); role != "" {
		r := models.Role(role)
		input.Role = &r
	}

	users, err := h.userService.List(input)
	if err != nil {
		logrus.WithError(err).Error("failed to list users")
		apierrors.InternalError(c, "Failed to load users")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(users))
}

// GetProfile returns the caller's own profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*identity))
}

// UpdateProfile changes the caller's own name and phone.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type ProfileRequest struct {
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(identity.ID, req.FullName, req.Phone)
	if err != nil {
		if errors.Is(err, services.ErrProfileFieldsRequired) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		logrus.WithError(err).Error("failed to update profile")
		apierrors.InternalError(c, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
