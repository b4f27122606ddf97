package middleware

import (
	"net/http"

	"parkwise/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole admits only callers whose role claim matches.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxRole) != role {
			utils.JSONErrorCode(c, http.StatusForbidden, "forbidden", "Insufficient permissions", "")
			return
		}
		c.Next()
	}
}
