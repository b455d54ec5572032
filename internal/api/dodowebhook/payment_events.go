package dodowebhook

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"connect-ed/database"
	"connect-ed/internal/domain/billing"
	"connect-ed/internal/domain/schools"

	"gorm.io/gorm"
)

func handlePaymentSucceeded(env *webhookEnvelope) error {
	schoolID, err := schoolIDFromCustomData(env)
	if err != nil {
		// Malformed-but-authentic events are logged and acknowledged so the
		// provider does not retry something we can never apply.
		log.Println("[ERROR] payment.succeeded missing school reference:", err)
		return nil
	}

	var school schools.School
	if err := database.DB.Where("id = ?", schoolID).First(&school).Error; err != nil {
		log.Printf("[ERROR] payment.succeeded for unknown school %d: %v", schoolID, err)
		return nil
	}

	if env.Data.CustomData.IsSignup == "true" {
		return applySignupPayment(env, &school)
	}
	return applyTermPayment(env, &school)
}

// applySignupPayment activates a freshly-registered tenant: plan and
// signup flag set, channel quotas provisioned, first due date stamped.
func applySignupPayment(env *webhookEnvelope, school *schools.School) error {
	plan, ok := schools.ParsePlan(env.Data.CustomData.PlanType)
	if !ok {
		log.Println("[ERROR] payment.succeeded with unknown plan_type:", env.Data.CustomData.PlanType)
		return nil
	}

	now := time.Now()
	nextDue := now.AddDate(0, 1, 0)
	quotas := schools.QuotasFor(plan)

	return database.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"plan":              plan,
			"signup_fee_paid":   true,
			"is_active":         true,
			"email_quota":       quotas.Email,
			"email_used":        0,
			"whatsapp_quota":    quotas.Whatsapp,
			"whatsapp_used":     0,
			"sms_quota":         quotas.Sms,
			"sms_used":          0,
			"quota_reset_date":  now,
			"next_payment_date": nextDue,
		}
		if err := tx.Model(&schools.School{}).Where("id = ?", school.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update school after signup payment: %w", err)
		}

		if err := completeOrAppendPayment(tx, env, school, billing.PaymentTypeSignupFee,
			billing.CalculateSignupTotal(plan, school.Currency)); err != nil {
			return err
		}

		return recordEvent(tx, env, school.ID)
	})
}

// applyTermPayment handles a recurring payment: subscription reactivated,
// usage counters zeroed, due date pushed out a month.
func applyTermPayment(env *webhookEnvelope, school *schools.School) error {
	now := time.Now()
	nextDue := now.AddDate(0, 1, 0)

	return database.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"is_active":         true,
			"email_used":        0,
			"whatsapp_used":     0,
			"sms_used":          0,
			"quota_reset_date":  now,
			"next_payment_date": nextDue,
		}
		if err := tx.Model(&schools.School{}).Where("id = ?", school.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update school after term payment: %w", err)
		}

		if err := completeOrAppendPayment(tx, env, school, billing.PaymentTypeTerm,
			billing.CalculateMonthlyPayment(school.Plan, school.Currency)); err != nil {
			return err
		}

		return recordEvent(tx, env, school.ID)
	})
}

// completeOrAppendPayment transitions the PENDING audit row created at
// checkout, or appends a COMPLETED one when the checkout happened outside
// our flow (e.g. a provider-hosted retry).
func completeOrAppendPayment(tx *gorm.DB, env *webhookEnvelope, school *schools.School, ptype billing.PaymentType, amount float64) error {
	ref := env.Data.CustomData.Reference
	if ref != "" {
		var pending billing.SchoolPayment
		err := tx.Where("reference = ? AND status = ?", ref, billing.PaymentPending).First(&pending).Error
		if err == nil {
			return tx.Model(&pending).Updates(map[string]interface{}{
				"status": billing.PaymentCompleted,
				"amount": amount,
			}).Error
		}
	}

	payment := billing.SchoolPayment{
		SchoolID:      school.ID,
		Amount:        amount,
		Currency:      school.Currency,
		Type:          ptype,
		Status:        billing.PaymentCompleted,
		PaymentMethod: "dodo",
		Reference:     paymentReference(env),
	}
	return tx.Create(&payment).Error
}

func paymentReference(env *webhookEnvelope) string {
	if env.Data.CustomData.Reference != "" {
		return env.Data.CustomData.Reference
	}
	return "dodo-" + env.Data.PaymentID
}

// handlePaymentFailed marks the matching PENDING payment FAILED and stops
// there: a failed recurring charge does not flip IsActive. Lockout comes
// from the due date aging past the grace period.
func handlePaymentFailed(env *webhookEnvelope) error {
	log.Printf("[WARN] payment.failed payment_id=%s school_id=%s", env.Data.PaymentID, env.Data.CustomData.SchoolID)

	ref := env.Data.CustomData.Reference
	if ref == "" {
		return nil
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		tx.Model(&billing.SchoolPayment{}).
			Where("reference = ? AND status = ?", ref, billing.PaymentPending).
			Update("status", billing.PaymentFailed)
		return recordEvent(tx, env, 0)
	})
}

func schoolIDFromCustomData(env *webhookEnvelope) (uint, error) {
	s := env.Data.CustomData.SchoolID
	if s == "" {
		return 0, errors.New("custom_data.school_id missing")
	}
	id64, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid school_id %q: %w", s, err)
	}
	return uint(id64), nil
}
