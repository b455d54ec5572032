package gate

import (
	"net/http"
	"time"

	"connect-ed/internal/app/http/middleware"
	"connect-ed/internal/domain/access"

	"github.com/gin-gonic/gin"
)

// GetGateDecision evaluates the gate for the caller's session against a
// named route preset and returns the raw decision. Client shells (web
// dashboard, mobile navigator) render or redirect from this instead of
// re-implementing the precedence rules.
//
// Runs behind optional auth: guests get answers for the guest preset too.
func GetGateDecision(c *gin.Context) {
	preset := c.DefaultQuery("route", "dashboard")

	var req access.Requirements
	switch preset {
	case "dashboard":
		req = access.DashboardPreset()
	case "auth":
		req = access.AuthOnlyPreset()
	case "guest":
		req = access.GuestOnlyPreset()
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown route preset"})
		return
	}

	sess := middleware.LoadSession(c)
	decision := access.Evaluate(time.Now(), sess, req)

	c.JSON(http.StatusOK, decision)
}
