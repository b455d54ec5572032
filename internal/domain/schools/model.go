package schools

import "time"

// School is the tenant. IsActive and SignupFeePaid are independently
// settable: a school can have paid its signup fee while its subscription
// has lapsed. Both are mutated only by the payment webhook handlers and
// the onboarding/settings endpoints.
type School struct {
	ID   uint `gorm:"primaryKey"`
	Name string

	Plan     Plan     `gorm:"type:varchar(20);not null;default:'LITE'"`
	Currency Currency `gorm:"type:varchar(10);not null;default:'USD'"`

	IsActive           bool
	SignupFeePaid      bool
	OnboardingComplete bool

	NextPaymentDate *time.Time

	EmailQuota    int
	EmailUsed     int
	WhatsappQuota int
	WhatsappUsed  int
	SmsQuota      int
	SmsUsed       int

	QuotaResetDate *time.Time

	SupportContact string

	CreatedAt time.Time
	UpdatedAt time.Time
}
