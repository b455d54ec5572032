package users

import (
	"time"

	"connect-ed/internal/domain/billing"
	"connect-ed/internal/domain/schools"
	"connect-ed/internal/domain/users"
)

func BuildUserDTO(u users.User) UserDTO {
	return UserDTO{
		ID:                 u.ID,
		Email:              u.Email,
		Name:               u.Name,
		Lastname:           u.Lastname,
		Role:               u.Role,
		IsVerified:         u.IsVerified,
		OnboardingComplete: u.OnboardingComplete,
	}
}

func BuildSchoolDTO(s schools.School) SchoolDTO {
	return SchoolDTO{
		ID:                 s.ID,
		Name:               s.Name,
		Plan:               s.Plan,
		Currency:           s.Currency,
		IsActive:           s.IsActive,
		SignupFeePaid:      s.SignupFeePaid,
		OnboardingComplete: s.OnboardingComplete,
		Quotas: QuotasDTO{
			EmailQuota:    s.EmailQuota,
			EmailUsed:     s.EmailUsed,
			WhatsappQuota: s.WhatsappQuota,
			WhatsappUsed:  s.WhatsappUsed,
			SmsQuota:      s.SmsQuota,
			SmsUsed:       s.SmsUsed,
			ResetDate:     s.QuotaResetDate,
		},
	}
}

func BuildBillingDTO(now time.Time, s schools.School) BillingDTO {
	days := billing.DaysOverdue(s.NextPaymentDate, now)
	return BillingDTO{
		NextPaymentDate: s.NextPaymentDate,
		DaysOverdue:     days,
		InGracePeriod:   days > 0 && days <= billing.GraceDays,
		LockedOut:       days > billing.GraceDays,
		MonthlyPayment:  billing.CalculateMonthlyPayment(s.Plan, s.Currency),
	}
}
