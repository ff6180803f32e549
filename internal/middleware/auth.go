package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docbench/internal/auth"
)

// ContextKeySubject holds the authenticated token subject.
const ContextKeySubject = "subject"

// BearerAuth rejects requests without a valid bearer token. A nil issuer
// lets every request through.
func BearerAuth(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if issuer == nil {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid authorization header"})
			return
		}

		claims, err := issuer.Validate(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextKeySubject, claims.Subject)
		c.Next()
	}
}
