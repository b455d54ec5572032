package billing

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"

	"connect-ed/config"
	"connect-ed/database"
	"connect-ed/internal/domain/billing"
	"connect-ed/internal/domain/schools"
	"connect-ed/internal/domain/users"
	"connect-ed/internal/infra/dodo"
	"connect-ed/internal/infra/paynow"

	"github.com/gin-gonic/gin"
)

const (
	PaymentTypeSignup      = "SIGNUP"
	PaymentTypeMonthlyOnly = "MONTHLY_ONLY"
)

// CreateCheckoutSession builds a provider checkout for the caller's school
// and records a PENDING audit row. The webhook relay completes it later;
// this handler never mutates billing state itself.
func CreateCheckoutSession(c *gin.Context) {
	var body struct {
		PlanType    string `json:"plan_type" binding:"required"`
		PaymentType string `json:"payment_type" binding:"required"`
		Provider    string `json:"provider"` // "dodo" (default) | "paynow"
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid plan_type/payment_type"})
		return
	}

	plan, ok := schools.ParsePlan(body.PlanType)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan_type"})
		return
	}
	if body.PaymentType != PaymentTypeSignup && body.PaymentType != PaymentTypeMonthlyOnly {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_type must be SIGNUP or MONTHLY_ONLY"})
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	var user users.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	if user.Role != users.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only school admins can make payments"})
		return
	}

	var school schools.School
	if err := database.DB.Where("id = ?", user.SchoolID).First(&school).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "School not found"})
		return
	}

	isSignup := body.PaymentType == PaymentTypeSignup
	var amount float64
	var ptype billing.PaymentType
	if isSignup {
		amount = billing.CalculateSignupTotal(plan, school.Currency)
		ptype = billing.PaymentTypeSignupFee
	} else {
		amount = billing.CalculateMonthlyPayment(plan, school.Currency)
		ptype = billing.PaymentTypeTerm
	}

	reference := generateReference()

	payment := billing.SchoolPayment{
		SchoolID:      school.ID,
		Amount:        amount,
		Currency:      school.Currency,
		Type:          ptype,
		Status:        billing.PaymentPending,
		PaymentMethod: "dodo",
		Reference:     reference,
	}

	switch body.Provider {
	case "", "dodo":
		createDodoCheckout(c, &school, &user, &payment, plan, isSignup)
	case "paynow":
		createPaynowCheckout(c, &school, &user, &payment)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown provider"})
	}
}

func createDodoCheckout(c *gin.Context, school *schools.School, user *users.User, payment *billing.SchoolPayment, plan schools.Plan, isSignup bool) {
	client := dodo.NewClient(config.DODO_API_KEY, config.DODO_API_BASE)

	// Development without an API key falls back to an internal mock
	// checkout page; production fails closed on the key at startup.
	if !client.Configured() {
		payment.PaymentMethod = "mock"
		if err := database.DB.Create(payment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"checkout_url": fmt.Sprintf("%s/mock-checkout?reference=%s", config.APP_URL, payment.Reference),
			"session_id":   "mock-" + payment.Reference,
		})
		return
	}

	if err := database.DB.Create(payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	itemName := fmt.Sprintf("Connect-Ed %s monthly payment", plan)
	if isSignup {
		itemName = fmt.Sprintf("Connect-Ed %s signup", plan)
	}

	session, err := client.CreateCheckoutSession(c.Request.Context(), dodo.CheckoutRequest{
		Items: []dodo.CheckoutItem{{
			ProductName: itemName,
			Amount:      payment.Amount,
			Currency:    string(school.Currency),
			Quantity:    1,
		}},
		Customer:  dodo.CheckoutCustomer{Email: user.Email, Name: user.Name + " " + user.Lastname},
		ReturnURL: config.APP_URL + "/payment/complete",
		Reference: payment.Reference,
		Metadata: map[string]string{
			"school_id": fmt.Sprint(school.ID),
			"plan_type": string(plan),
			"is_signup": strconv.FormatBool(isSignup),
			"reference": payment.Reference,
		},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session", "details": err.Error()})
		return
	}

	database.DB.Model(payment).Update("provider_session_id", session.SessionID)

	c.JSON(http.StatusOK, gin.H{
		"checkout_url": session.CheckoutURL,
		"session_id":   session.SessionID,
	})
}

func createPaynowCheckout(c *gin.Context, school *schools.School, user *users.User, payment *billing.SchoolPayment) {
	client := paynow.NewClient(config.PAYNOW_INTEGRATION_ID, config.PAYNOW_INTEGRATION_KEY)
	if !client.Configured() {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Paynow not configured"})
		return
	}

	payment.PaymentMethod = "paynow"
	if err := database.DB.Create(payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	resp, err := client.InitiateTransaction(
		c.Request.Context(),
		payment.Reference,
		user.Email,
		payment.Amount,
		config.APP_URL+"/payment/complete",
		config.APP_URL+"/api/webhooks/paynow",
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate Paynow transaction", "details": err.Error()})
		return
	}

	database.DB.Model(payment).Updates(map[string]interface{}{
		"poll_url": resp.PollURL,
	})

	c.JSON(http.StatusOK, gin.H{
		"checkout_url": resp.BrowserURL,
		"session_id":   payment.Reference,
	})
}

func generateReference() string {
	bytes := make([]byte, 12)
	rand.Read(bytes)
	return "ce-" + hex.EncodeToString(bytes)
}
