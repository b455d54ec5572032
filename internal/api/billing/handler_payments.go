package billing

import (
	"net/http"

	"connect-ed/config"
	"connect-ed/database"
	"connect-ed/internal/domain/billing"
	"connect-ed/internal/infra/paynow"

	"github.com/gin-gonic/gin"
)

func GetPaymentHistory(c *gin.Context) {
	schoolID := c.GetUint("school_id")
	if schoolID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var payments []billing.SchoolPayment
	if err := database.DB.
		Where("school_id = ?", schoolID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}

// VerifyPayment answers the mobile app's single post-checkout poll. It
// reads local state first; Paynow-method payments still pending locally
// fall through to a provider status poll, since Paynow has no webhook
// wired in this flow.
func VerifyPayment(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing reference"})
		return
	}

	schoolID := c.GetUint("school_id")

	var payment billing.SchoolPayment
	if err := database.DB.
		Where("reference = ? AND school_id = ?", reference, schoolID).
		First(&payment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	if payment.Status == billing.PaymentCompleted {
		c.JSON(http.StatusOK, gin.H{"paid": true})
		return
	}

	if payment.PaymentMethod == "paynow" && payment.Status == billing.PaymentPending && payment.PollURL != nil {
		client := paynow.NewClient(config.PAYNOW_INTEGRATION_ID, config.PAYNOW_INTEGRATION_KEY)
		if client.Configured() {
			status, err := client.CheckStatus(c.Request.Context(), *payment.PollURL)
			if err == nil && status.Paid() {
				database.DB.Model(&payment).Update("status", billing.PaymentCompleted)
				c.JSON(http.StatusOK, gin.H{"paid": true})
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"paid": false})
}
