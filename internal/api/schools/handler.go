package schools

import (
	"net/http"

	"connect-ed/database"
	"connect-ed/internal/domain/schools"
	"connect-ed/internal/domain/users"

	"github.com/gin-gonic/gin"
)

func GetMySchool(c *gin.Context) {
	schoolID := c.GetUint("school_id")
	if schoolID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var school schools.School
	if err := database.DB.Where("id = ?", schoolID).First(&school).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "School not found"})
		return
	}

	c.JSON(http.StatusOK, school)
}

// CompleteOnboarding marks the tenant onboarded. The gate stops
// redirecting to /onboarding from the next session refresh on; there is
// no push channel, so an open client sees it on its own next fetch.
func CompleteOnboarding(c *gin.Context) {
	schoolID := c.GetUint("school_id")
	userID := c.GetUint("user_id")
	if schoolID == 0 || userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := database.DB.Model(&schools.School{}).
		Where("id = ?", schoolID).
		Update("onboarding_complete", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete onboarding"})
		return
	}

	// The acting admin's own onboarding finishes with the school's.
	database.DB.Model(&users.User{}).
		Where("id = ?", userID).
		Update("onboarding_complete", true)

	c.JSON(http.StatusOK, gin.H{"message": "Onboarding complete"})
}

func UpdateSettings(c *gin.Context) {
	schoolID := c.GetUint("school_id")
	if schoolID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var body struct {
		Name           string `json:"name"`
		SupportContact string `json:"support_contact"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	updates := map[string]interface{}{}
	if body.Name != "" {
		updates["name"] = body.Name
	}
	if body.SupportContact != "" {
		updates["support_contact"] = body.SupportContact
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	if err := database.DB.Model(&schools.School{}).
		Where("id = ?", schoolID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update school"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "School updated"})
}
