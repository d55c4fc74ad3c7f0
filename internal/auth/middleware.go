package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxClaimsKey is where the middleware stores the verified claims on the
// gin context.
const CtxClaimsKey = "auth_claims"

// bearerToken pulls the raw token out of the Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return "", false
	}
	return strings.TrimSpace(header[len("Bearer "):]), true
}

// AuthMiddleware rejects requests without a valid token. When a repo is
// given, the token's version is checked against the stored one, so a
// logout or password change invalidates every previously issued token.
func AuthMiddleware(tokens TokenService, repo *Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			c.Abort()
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		if repo != nil {
			current, err := repo.GetTokenVersion(c.Request.Context(), claims.UserID)
			if err != nil || current != claims.TokenVersion {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				c.Abort()
				return
			}
		}

		c.Set(CtxClaimsKey, claims)
		c.Next()
	}
}

// MustGetClaims returns the claims put there by AuthMiddleware, or nil on
// an unprotected route.
func MustGetClaims(c *gin.Context) *Claims {
	v, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}
