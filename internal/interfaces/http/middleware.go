package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/siteflow/siteflow/internal/auth"
	"github.com/siteflow/siteflow/internal/domain/entity"
)

const callerKey = "caller"

// Authenticate verifies the bearer token and stores the caller identity in
// the request context.
func Authenticate(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "authorization header is required",
			})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "invalid token format",
			})
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "invalid or expired token",
			})
			return
		}

		c.Set(callerKey, entity.Caller{
			ID:   claims.UserID,
			Role: entity.Role(claims.Role),
		})
		c.Next()
	}
}

// Authorize allows only the named roles past. Runs after Authenticate.
func Authorize(allowed ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "authentication required",
			})
			return
		}

		for _, role := range allowed {
			if caller.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, Response{
			Success: false,
			Error:   "insufficient role",
		})
	}
}

// callerFrom retrieves the authenticated caller set by Authenticate.
func callerFrom(c *gin.Context) (entity.Caller, bool) {
	value, exists := c.Get(callerKey)
	if !exists {
		return entity.Caller{}, false
	}
	caller, ok := value.(entity.Caller)
	return caller, ok
}
