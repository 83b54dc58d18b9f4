package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/qmenu/selforder-api/internal/presentation/http/dto/response"
	"github.com/qmenu/selforder-api/pkg/utils"
)

// SessionMiddleware validates the kiosk session token and puts the session
// identity into the request context.
func SessionMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateSessionToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired session token")
			c.Abort()
			return
		}

		c.Set("session_id", claims.Subject)
		c.Set("device_id", claims.DeviceID)
		c.Set("participant_id", claims.ParticipantID)
		c.Set("branch_id", claims.BranchID)

		c.Next()
	}
}

// AdminKeyMiddleware guards the provisioning and sync endpoints with a static
// key. These are called by back-office tooling, never by the kiosks.
func AdminKeyMiddleware(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKey == "" || c.GetHeader("X-Admin-Key") != adminKey {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}
		c.Next()
	}
}
