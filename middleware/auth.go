package middleware

import (
	"net/http"
	"strings"

	"hotel-booking-backend/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middlewares.
const (
	ContextUserID = "userId"
	ContextRole   = "userRole"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status": "error",
		"error":  gin.H{"code": "error.unauthorized", "message": message},
	})
}

// Authenticate requires a valid bearer token and stores the user id and
// role on the context.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c, "authorization header is required")
			return
		}

		claims, err := utils.ValidateToken(secret, token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// AuthenticateOptional attaches user identity when a valid token is
// present and lets the request through either way. Guest bookings rely on
// this.
func AuthenticateOptional(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token != "" {
			if claims, err := utils.ValidateToken(secret, token); err == nil {
				c.Set(ContextUserID, claims.UserID)
				c.Set(ContextRole, claims.Role)
			}
		}
		c.Next()
	}
}

// AuthorizeRoles allows only the named roles past. Must run after
// Authenticate.
func AuthorizeRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"status": "error",
			"error":  gin.H{"code": "error.forbidden", "message": "insufficient permissions"},
		})
	}
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
