package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/majanidev/insurance_backend/utils"
)

// ProfileGate blocks dashboard and client routes until the agent has a
// complete profile (name, phone, address filled and no pending forced
// password change). The settings and change-password routes stay open so
// the agent can actually finish onboarding.
func ProfileGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		complete, ok := utils.GetProfileCompleteFromContext(c.Request.Context())
		if !ok || !complete {
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "please complete your profile before continuing",
				"redirect": "settings",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
