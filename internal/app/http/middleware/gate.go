package middleware

import (
	"net/http"
	"time"

	"connect-ed/database"
	"connect-ed/internal/domain/access"
	"connect-ed/internal/domain/schools"
	"connect-ed/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// RequireGate is the server-side shell around the pure gate evaluator: it
// loads the session's user and school, evaluates the requirements, and
// translates the decision into a status code. Route handlers behind it can
// assume the gate passed.
func RequireGate(req access.Requirements) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := LoadSession(c)
		decision := access.Evaluate(time.Now(), sess, req)

		switch decision.Kind {
		case access.DecisionAllow:
			c.Next()
		case access.DecisionLockout:
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"error":   "School access is temporarily unavailable",
				"lockout": decision.Lockout,
			})
		case access.DecisionRedirect:
			c.AbortWithStatusJSON(statusForRedirect(decision), gin.H{
				"error":    "Access denied",
				"redirect": decision.Target,
				"reason":   decision.Reason,
			})
		default:
			// Server-side sessions are always resolved; pending here means
			// a programming error upstream.
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Gate could not resolve session"})
		}
	}
}

// LoadSession builds the gate's session view from the auth claims set by
// the JWT middleware. Unauthenticated requests yield a resolved, empty
// session rather than an error.
func LoadSession(c *gin.Context) access.Session {
	sess := access.Session{Resolved: true}

	userID := c.GetUint("user_id")
	if userID == 0 {
		return sess
	}

	var user users.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return sess
	}

	sess.Authenticated = true
	sess.User = &user

	var school schools.School
	if err := database.DB.Where("id = ?", user.SchoolID).First(&school).Error; err == nil {
		sess.School = &school
	}

	return sess
}

func statusForRedirect(d access.Decision) int {
	switch d.Target {
	case access.TargetLogin:
		return http.StatusUnauthorized
	case access.TargetPayment:
		return http.StatusPaymentRequired
	case access.TargetOnboarding:
		return http.StatusConflict
	default:
		return http.StatusForbidden
	}
}
