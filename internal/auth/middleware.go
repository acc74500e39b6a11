package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const passwordHeader = "x-admin-password"

// AdminRequired gates the admin surface. It accepts either the shared admin
// password in the x-admin-password header or a Bearer session token obtained
// from the login endpoint. With no credential configured at all the admin
// surface is switched off and answers 503.
func AdminRequired(verifier PasswordVerifier, jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !verifier.Configured() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "admin access is not configured",
			})
			return
		}

		if password := c.GetHeader(passwordHeader); password != "" {
			if verifier.Verify(password) {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid admin password",
			})
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing credentials",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid Authorization header format",
			})
			return
		}

		if _, err := jwtManager.ParseAndValidate(parts[1]); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		c.Next()
	}
}
