package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/agentdesk-io/agentdesk/internal/config"
	"github.com/agentdesk-io/agentdesk/internal/modules/serializer"
)

// ServiceAuth authenticates every request against the single service
// credential configured at startup.
func ServiceAuth(cfg *config.Config) gin.HandlerFunc {
	token := []byte(cfg.Auth.ServiceToken)
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}
		raw := strings.TrimPrefix(auth, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(raw), token) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}
		c.Next()
	}
}
