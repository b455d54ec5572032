package notify

import (
	"log"
	"net/http"

	"connect-ed/database"
	"connect-ed/internal/domain/schools"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SendNotification spends one unit of the school's channel quota. The
// quotas are provisioned by the signup webhook and usage is zeroed on
// each term payment; delivery itself is handled by the messaging
// collaborators and out of scope here.
func SendNotification(c *gin.Context) {
	var body struct {
		Channel string `json:"channel" binding:"required"` // email | whatsapp | sms
		To      string `json:"to" binding:"required"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing channel/to/message"})
		return
	}

	var quotaCol, usedCol string
	switch body.Channel {
	case "email":
		quotaCol, usedCol = "email_quota", "email_used"
	case "whatsapp":
		quotaCol, usedCol = "whatsapp_quota", "whatsapp_used"
	case "sms":
		quotaCol, usedCol = "sms_quota", "sms_used"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel must be email, whatsapp or sms"})
		return
	}

	schoolID := c.GetUint("school_id")
	if schoolID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// Guarded increment: only spends when there is allowance left, so two
	// concurrent sends cannot overshoot the quota.
	res := database.DB.Model(&schools.School{}).
		Where("id = ? AND "+usedCol+" < "+quotaCol, schoolID).
		Update(usedCol, gorm.Expr(usedCol+" + 1"))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update quota"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Quota exhausted for channel " + body.Channel})
		return
	}

	log.Printf("📤 queued %s notification for school %d", body.Channel, schoolID)

	c.JSON(http.StatusOK, gin.H{"message": "Notification queued"})
}
