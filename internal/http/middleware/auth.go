// README: Firebase bearer-token auth middleware and caller lookup.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"itinera/internal/infra"
)

const callerKey = "itinera.caller"

// Auth rejects requests without a valid "Authorization: Bearer <id token>".
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		caller, err := verifier.VerifyIDToken(c.Request.Context(), token)
		if err != nil || caller == nil || caller.UID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}

// CallerUID is the verified uid, or "" when the route is not authenticated.
func CallerUID(c *gin.Context) string {
	v, ok := c.Get(callerKey)
	if !ok {
		return ""
	}
	caller, _ := v.(*infra.Caller)
	if caller == nil {
		return ""
	}
	return caller.UID
}
