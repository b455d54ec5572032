package billing

import (
	"time"

	"connect-ed/internal/domain/schools"
)

type PaymentType string

const (
	PaymentTypeSignupFee PaymentType = "SIGNUP_FEE"
	PaymentTypeTerm      PaymentType = "TERM_PAYMENT"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// SchoolPayment is the append-only audit trail of charges against a tenant.
// Rows are created PENDING at checkout creation and transitioned only by
// the webhook relay; they are never deleted.
type SchoolPayment struct {
	ID       uint `gorm:"primaryKey"`
	SchoolID uint `gorm:"not null;index"`
	School   *schools.School

	Amount   float64
	Currency schools.Currency `gorm:"type:varchar(10)"`

	Type   PaymentType   `gorm:"type:varchar(20);not null"`
	Status PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`

	PaymentMethod string `gorm:"type:varchar(20)"` // "dodo" | "paynow" | "mock"
	Reference     string `gorm:"uniqueIndex"`

	ProviderSessionID *string
	PollURL           *string // Paynow status poll URL, when method is paynow

	CreatedAt time.Time
	UpdatedAt time.Time
}
