package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"github.com/bytservice/repair-service-api/internal/constants"
	"github.com/bytservice/repair-service-api/internal/dto"
	apierrors "github.com/bytservice/repair-service-api/internal/errors"
	"github.com/bytservice/repair-service-api/internal/middleware"
	"github.com/bytservice/repair-service-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Login    string `json:"login" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Login and password are required")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Login:    req.Login,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			apierrors.Unauthorized(c, err.Error())
			return
		}
		logrus.WithError(err).Error("login failed")
		apierrors.InternalError(c, "")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	logrus.WithFields(logrus.Fields{"login": user.Login, "role": user.Role}).Info("user logged in")
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Logout removes the authentication session. Idempotent.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*identity))
}
