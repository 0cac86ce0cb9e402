package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Keys set on the gin context by the auth middleware.
const (
	ContextClaims = "claims"
)

// Bearer enforces bearer JWT tokens signed with HS256. All responses carry a
// "detail" field so web and CLI clients share one error shape.
func Bearer(signingKey, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid or expired token"})
			return
		}
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// AdminOnly rejects non-admin tokens. It must run after Bearer.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsAny, _ := c.Get(ContextClaims)
		claims, ok := claimsAny.(Claims)
		if !ok || claims.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Not authorized."})
			return
		}
		c.Next()
	}
}

// ClaimsFrom pulls parsed claims off the context.
func ClaimsFrom(c *gin.Context) Claims {
	claimsAny, _ := c.Get(ContextClaims)
	claims, _ := claimsAny.(Claims)
	return claims
}
