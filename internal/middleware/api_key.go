package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "famledger/internal/errors"
)

// APIKeyMiddleware guards operational endpoints such as /metrics with the
// X-API-Key header. An empty apiKey leaves the endpoint open.
func APIKeyMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			err := apperrors.ErrInvalidAPIKey
			c.AbortWithStatusJSON(err.StatusCode, gin.H{
				"error": gin.H{"code": err.Code, "message": err.Message},
			})
			return
		}
		c.Next()
	}
}
