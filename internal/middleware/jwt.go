package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hafalan-progress-api/internal/service"
	appErrors "github.com/noah-isme/hafalan-progress-api/pkg/errors"
	"github.com/noah-isme/hafalan-progress-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// Auth attaches an identity to every request. With authentication disabled a
// stub teacher identity is attached; otherwise a valid bearer token is required.
func Auth(authService *service.AuthService) gin.HandlerFunc {
	if !authService.Enabled() {
		stub := authService.StubClaims()
		return func(c *gin.Context) {
			c.Set(ContextUserKey, stub)
			c.Next()
		}
	}
	return JWT(authService)
}

// JWT protects routes by requiring a valid access token.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing or invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
