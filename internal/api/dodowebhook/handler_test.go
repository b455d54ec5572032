package dodowebhook

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connect-ed/config"
	"connect-ed/database"
	"connect-ed/internal/domain/billing"
	"connect-ed/internal/domain/schools"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "whsec-test"

func setupWebhookTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&schools.School{}, &billing.SchoolPayment{}, &billing.WebhookEvent{}))
	database.DB = db

	config.APP_ENV = "development"
	config.DODO_WEBHOOK_SECRET = testSecret

	r := gin.New()
	r.POST("/api/webhooks/dodo", DodoWebhook)
	return r
}

func seedSchool(t *testing.T) schools.School {
	t.Helper()
	school := schools.School{
		Name:     "Riverside Academy",
		Plan:     schools.PlanLite,
		Currency: schools.CurrencyUSD,
	}
	require.NoError(t, database.DB.Create(&school).Error)
	return school
}

func signPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(t *testing.T, r *gin.Engine, payload []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/dodo", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("x-dodo-signature", signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signupEvent(schoolID uint, paymentID string) []byte {
	payload := fmt.Sprintf(`{
		"event_id": "evt-%s",
		"event_type": "payment.succeeded",
		"data": {
			"payment_id": "%s",
			"custom_data": {
				"school_id": "%d",
				"plan_type": "GROWTH",
				"is_signup": "true"
			}
		}
	}`, paymentID, paymentID, schoolID)
	return []byte(payload)
}

func TestWebhook_SignupPaymentActivatesSchool(t *testing.T) {
	r := setupWebhookTest(t)
	school := seedSchool(t)

	payload := signupEvent(school.ID, "pay-1")
	w := postWebhook(t, r, payload, signPayload(payload, testSecret))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["received"])

	var updated schools.School
	require.NoError(t, database.DB.First(&updated, school.ID).Error)
	assert.Equal(t, schools.PlanGrowth, updated.Plan)
	assert.True(t, updated.SignupFeePaid)
	assert.True(t, updated.IsActive)
	assert.Equal(t, schools.QuotasFor(schools.PlanGrowth).Email, updated.EmailQuota)
	assert.Zero(t, updated.EmailUsed)
	require.NotNil(t, updated.NextPaymentDate)
	assert.True(t, updated.NextPaymentDate.After(time.Now()))

	var payments []billing.SchoolPayment
	require.NoError(t, database.DB.Where("school_id = ?", school.ID).Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, billing.PaymentTypeSignupFee, payments[0].Type)
	assert.Equal(t, billing.PaymentCompleted, payments[0].Status)
	assert.Equal(t, 825.0, payments[0].Amount)
}

func TestWebhook_ReplayedEventIsNotAppliedTwice(t *testing.T) {
	r := setupWebhookTest(t)
	school := seedSchool(t)

	payload := signupEvent(school.ID, "pay-replay")
	sig := signPayload(payload, testSecret)

	w := postWebhook(t, r, payload, sig)
	require.Equal(t, http.StatusOK, w.Code)

	// Same event id redelivered: acknowledged, no second mutation.
	w = postWebhook(t, r, payload, sig)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	database.DB.Model(&billing.SchoolPayment{}).Where("school_id = ?", school.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	database.DB.Model(&billing.WebhookEvent{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestWebhook_TamperedSignatureRejected(t *testing.T) {
	r := setupWebhookTest(t)
	school := seedSchool(t)

	payload := signupEvent(school.ID, "pay-2")
	sig := signPayload(payload, testSecret)

	// Flip one byte of the payload after signing.
	tampered := bytes.Replace(payload, []byte("GROWTH"), []byte("GROWTB"), 1)

	w := postWebhook(t, r, tampered, sig)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var updated schools.School
	require.NoError(t, database.DB.First(&updated, school.ID).Error)
	assert.False(t, updated.SignupFeePaid)
}

func TestWebhook_MissingSignatureRejected(t *testing.T) {
	r := setupWebhookTest(t)
	school := seedSchool(t)

	w := postWebhook(t, r, signupEvent(school.ID, "pay-3"), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhook_UnsignedAcceptedOnlyWithoutSecretInDevelopment(t *testing.T) {
	r := setupWebhookTest(t)
	school := seedSchool(t)

	config.DODO_WEBHOOK_SECRET = ""
	defer func() { config.DODO_WEBHOOK_SECRET = testSecret }()

	w := postWebhook(t, r, signupEvent(school.ID, "pay-4"), "")
	require.Equal(t, http.StatusOK, w.Code)

	var updated schools.School
	require.NoError(t, database.DB.First(&updated, school.ID).Error)
	assert.True(t, updated.SignupFeePaid)
}

func TestWebhook_TermPaymentResetsUsage(t *testing.T) {
	r := setupWebhookTest(t)
	school := seedSchool(t)

	due := time.Now().Add(-10 * 24 * time.Hour)
	quotas := schools.QuotasFor(schools.PlanLite)
	require.NoError(t, database.DB.Model(&schools.School{}).Where("id = ?", school.ID).Updates(map[string]interface{}{
		"signup_fee_paid":   true,
		"is_active":         false,
		"email_quota":       quotas.Email,
		"email_used":        420,
		"sms_quota":         quotas.Sms,
		"sms_used":          17,
		"next_payment_date": due,
	}).Error)

	payload := []byte(fmt.Sprintf(`{
		"event_type": "payment.succeeded",
		"data": {
			"payment_id": "pay-term-1",
			"custom_data": {"school_id": "%d", "plan_type": "LITE", "is_signup": "false"}
		}
	}`, school.ID))

	w := postWebhook(t, r, payload, signPayload(payload, testSecret))
	require.Equal(t, http.StatusOK, w.Code)

	var updated schools.School
	require.NoError(t, database.DB.First(&updated, school.ID).Error)
	assert.True(t, updated.IsActive)
	assert.Zero(t, updated.EmailUsed)
	assert.Zero(t, updated.SmsUsed)
	require.NotNil(t, updated.NextPaymentDate)
	assert.True(t, updated.NextPaymentDate.After(time.Now()))

	var payment billing.SchoolPayment
	require.NoError(t, database.DB.Where("school_id = ?", school.ID).First(&payment).Error)
	assert.Equal(t, billing.PaymentTypeTerm, payment.Type)
}

func TestWebhook_SubscriptionLifecycleTogglesActive(t *testing.T) {
	r := setupWebhookTest(t)
	school := seedSchool(t)
	require.NoError(t, database.DB.Model(&schools.School{}).Where("id = ?", school.ID).Update("is_active", true).Error)

	for i, event := range []string{"subscription.on_hold", "subscription.cancelled", "subscription.expired"} {
		require.NoError(t, database.DB.Model(&schools.School{}).Where("id = ?", school.ID).Update("is_active", true).Error)

		payload := []byte(fmt.Sprintf(`{
			"event_id": "evt-sub-%d",
			"event_type": "%s",
			"data": {"subscription_id": "sub-1", "custom_data": {"school_id": "%d"}}
		}`, i, event, school.ID))

		w := postWebhook(t, r, payload, signPayload(payload, testSecret))
		require.Equal(t, http.StatusOK, w.Code, event)

		var updated schools.School
		require.NoError(t, database.DB.First(&updated, school.ID).Error)
		assert.False(t, updated.IsActive, event)
	}

	payload := []byte(fmt.Sprintf(`{
		"event_id": "evt-sub-active",
		"event_type": "subscription.active",
		"data": {"subscription_id": "sub-1", "custom_data": {"school_id": "%d"}}
	}`, school.ID))
	w := postWebhook(t, r, payload, signPayload(payload, testSecret))
	require.Equal(t, http.StatusOK, w.Code)

	var updated schools.School
	require.NoError(t, database.DB.First(&updated, school.ID).Error)
	assert.True(t, updated.IsActive)
}

func TestWebhook_PaymentFailedLeavesSchoolUntouched(t *testing.T) {
	r := setupWebhookTest(t)
	school := seedSchool(t)
	require.NoError(t, database.DB.Model(&schools.School{}).Where("id = ?", school.ID).Updates(map[string]interface{}{
		"signup_fee_paid": true,
		"is_active":       true,
	}).Error)

	payload := []byte(fmt.Sprintf(`{
		"event_type": "payment.failed",
		"data": {"payment_id": "pay-fail-1", "custom_data": {"school_id": "%d"}}
	}`, school.ID))

	w := postWebhook(t, r, payload, signPayload(payload, testSecret))
	require.Equal(t, http.StatusOK, w.Code)

	// A failed recurring charge does not deactivate; only due-date aging does.
	var updated schools.School
	require.NoError(t, database.DB.First(&updated, school.ID).Error)
	assert.True(t, updated.IsActive)
}

func TestWebhook_UnknownEventAcknowledged(t *testing.T) {
	r := setupWebhookTest(t)

	payload := []byte(`{"event_type": "refund.created", "data": {}}`)
	w := postWebhook(t, r, payload, signPayload(payload, testSecret))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhook_UnknownSchoolAcknowledgedWithoutMutation(t *testing.T) {
	r := setupWebhookTest(t)

	payload := signupEvent(9999, "pay-ghost")
	w := postWebhook(t, r, payload, signPayload(payload, testSecret))
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	database.DB.Model(&billing.SchoolPayment{}).Count(&count)
	assert.Zero(t, count)
}

func TestWebhook_CompletesPendingCheckoutRow(t *testing.T) {
	r := setupWebhookTest(t)
	school := seedSchool(t)

	pending := billing.SchoolPayment{
		SchoolID:      school.ID,
		Amount:        825,
		Currency:      schools.CurrencyUSD,
		Type:          billing.PaymentTypeSignupFee,
		Status:        billing.PaymentPending,
		PaymentMethod: "dodo",
		Reference:     "ce-abc123",
	}
	require.NoError(t, database.DB.Create(&pending).Error)

	payload := []byte(fmt.Sprintf(`{
		"event_type": "payment.succeeded",
		"data": {
			"payment_id": "pay-5",
			"custom_data": {"school_id": "%d", "plan_type": "GROWTH", "is_signup": "true", "reference": "ce-abc123"}
		}
	}`, school.ID))

	w := postWebhook(t, r, payload, signPayload(payload, testSecret))
	require.Equal(t, http.StatusOK, w.Code)

	// The PENDING row transitions instead of a second row appearing.
	var payments []billing.SchoolPayment
	require.NoError(t, database.DB.Where("school_id = ?", school.ID).Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, billing.PaymentCompleted, payments[0].Status)
}
