package users

import (
	"net/http"
	"time"

	"connect-ed/database"
	"connect-ed/internal/domain/access"
	"connect-ed/internal/domain/schools"
	"connect-ed/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// GetCurrentUser is the session bootstrap: the clients call it once after
// login and drive their navigation shell from the embedded gate decision.
func GetCurrentUser(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var school schools.School
	if err := database.DB.Where("id = ?", user.SchoolID).First(&school).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "School not found"})
		return
	}

	now := time.Now()
	sess := access.Session{
		Resolved:      true,
		Authenticated: true,
		User:          &user,
		School:        &school,
	}

	resp := MeResponse{
		User:    BuildUserDTO(user),
		School:  BuildSchoolDTO(school),
		Billing: BuildBillingDTO(now, school),
		Gate:    access.Evaluate(now, sess, access.DashboardPreset()),
	}

	c.JSON(http.StatusOK, resp)
}
