package users

import (
	"time"

	"connect-ed/internal/domain/access"
	"connect-ed/internal/domain/schools"
	"connect-ed/internal/domain/users"
)

type MeResponse struct {
	User    UserDTO         `json:"user"`
	School  SchoolDTO       `json:"school"`
	Billing BillingDTO      `json:"billing"`
	Gate    access.Decision `json:"gate"`
}

/* ---------- USER ---------- */

type UserDTO struct {
	ID                 uint       `json:"id"`
	Email              string     `json:"email"`
	Name               string     `json:"name"`
	Lastname           string     `json:"lastname"`
	Role               users.Role `json:"role"`
	IsVerified         bool       `json:"is_verified"`
	OnboardingComplete bool       `json:"onboarding_complete"`
}

/* ---------- SCHOOL ---------- */

type SchoolDTO struct {
	ID                 uint             `json:"id"`
	Name               string           `json:"name"`
	Plan               schools.Plan     `json:"plan"`
	Currency           schools.Currency `json:"currency"`
	IsActive           bool             `json:"is_active"`
	SignupFeePaid      bool             `json:"signup_fee_paid"`
	OnboardingComplete bool             `json:"onboarding_complete"`
	Quotas             QuotasDTO        `json:"quotas"`
}

type QuotasDTO struct {
	EmailQuota    int        `json:"email_quota"`
	EmailUsed     int        `json:"email_used"`
	WhatsappQuota int        `json:"whatsapp_quota"`
	WhatsappUsed  int        `json:"whatsapp_used"`
	SmsQuota      int        `json:"sms_quota"`
	SmsUsed       int        `json:"sms_used"`
	ResetDate     *time.Time `json:"reset_date"`
}

/* ---------- BILLING ---------- */

type BillingDTO struct {
	NextPaymentDate *time.Time `json:"next_payment_date"`
	DaysOverdue     int        `json:"days_overdue"`
	InGracePeriod   bool       `json:"in_grace_period"`
	LockedOut       bool       `json:"locked_out"`
	MonthlyPayment  float64    `json:"monthly_payment"`
}
