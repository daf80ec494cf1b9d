package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/bytservice/repair-service-api/internal/constants"
	"github.com/bytservice/repair-service-api/internal/database"
	apierrors "github.com/bytservice/repair-service-api/internal/errors"
	"github.com/bytservice/repair-service-api/internal/models"
)

// RequireAuth checks the session and re-resolves the caller's identity from
// the user table, so role and profile changes take effect on the next
// request rather than living in the session until logout.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)

		id, ok := toUserID(userID)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, id).Error; err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyIdentity, user)
		c.Next()
	}
}

// RequireRole checks that the authenticated caller's role is in the allowed
// set. Must run after RequireAuth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, exists := GetIdentity(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		role := models.Role(strings.TrimSpace(string(identity.Role)))
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		apierrors.Forbidden(c, fmt.Sprintf("Users with role %q do not have access to this section", role))
		c.Abort()
	}
}

// GetIdentity retrieves the authenticated user from context
func GetIdentity(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return nil, false
	}

	user, ok := value.(models.User)
	if !ok {
		return nil, false
	}
	return &user, true
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUserID(userID)
}

func toUserID(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
