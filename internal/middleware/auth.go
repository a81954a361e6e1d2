package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"insurevis/internal/domain"
	"insurevis/internal/service"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "role"
)

func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": msg},
	})
}

// AuthMiddleware validates the Bearer access token and stores the caller's
// user ID and role on the context. Roles without a portal are refused even
// with a valid token.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found || token == "" {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid authorization header")
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		}
		if claims.Role.PortalRoute() == "" {
			abortJSON(c, http.StatusForbidden, "PORTAL_ACCESS_DENIED", "this account has no portal access")
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyRole, string(claims.Role))
		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			abortJSON(c, http.StatusForbidden, "FORBIDDEN", "role not found in context")
			return
		}
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		abortJSON(c, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
	}
}

// RequireReviewer allows the two reviewer roles.
func RequireReviewer() gin.HandlerFunc {
	return RequireRole(domain.ReviewerRoles...)
}

// GetUserID extracts the user ID from the Gin context.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil, domain.ErrUnauthorized
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return id, nil
}

// GetRole extracts the caller's role from the Gin context.
func GetRole(c *gin.Context) domain.UserRole {
	return domain.UserRole(c.GetString(ContextKeyRole))
}

// GetActor returns the authenticated caller's ID and role.
func GetActor(c *gin.Context) (uuid.UUID, domain.UserRole, error) {
	id, err := GetUserID(c)
	if err != nil {
		return uuid.Nil, "", err
	}
	return id, GetRole(c), nil
}
