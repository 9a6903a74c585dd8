package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/southville8b/student-portal/internal/domain"
	"github.com/southville8b/student-portal/internal/token"
)

const errUnauthorized = "Unauthorized. Please log in again."

// Auth validates a Bearer session token and sets "lrn" and "email" in
// the gin context for downstream handlers.
func Auth(issuer *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"success": false, "message": errUnauthorized})
			return
		}

		identity, err := issuer.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			if errors.Is(err, domain.ErrServerConfig) {
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					gin.H{"success": false, "message": "Server configuration error."})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"success": false, "message": errUnauthorized})
			return
		}

		c.Set("lrn", identity.LRN)
		c.Set("email", identity.Email)
		c.Next()
	}
}
