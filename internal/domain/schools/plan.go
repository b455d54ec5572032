package schools

import "strings"

type Plan string

const (
	PlanLite       Plan = "LITE"
	PlanGrowth     Plan = "GROWTH"
	PlanEnterprise Plan = "ENTERPRISE"
)

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyZAR Currency = "ZAR"
	CurrencyZIG Currency = "ZIG"
)

// ParsePlan normalizes provider/client input ("growth", "GROWTH") into a
// known plan. Unknown values are rejected rather than defaulted so a typo in
// webhook metadata cannot silently change a school's tier.
func ParsePlan(s string) (Plan, bool) {
	switch Plan(strings.ToUpper(strings.TrimSpace(s))) {
	case PlanLite:
		return PlanLite, true
	case PlanGrowth:
		return PlanGrowth, true
	case PlanEnterprise:
		return PlanEnterprise, true
	}
	return "", false
}

func ParseCurrency(s string) (Currency, bool) {
	switch Currency(strings.ToUpper(strings.TrimSpace(s))) {
	case CurrencyUSD:
		return CurrencyUSD, true
	case CurrencyZAR:
		return CurrencyZAR, true
	case CurrencyZIG:
		return CurrencyZIG, true
	}
	return "", false
}

// PlanQuotas are the per-channel message allowances provisioned when the
// signup fee for a plan is paid.
type PlanQuotas struct {
	Email    int
	Whatsapp int
	Sms      int
}

func QuotasFor(p Plan) PlanQuotas {
	switch p {
	case PlanGrowth:
		return PlanQuotas{Email: 5000, Whatsapp: 2000, Sms: 1000}
	case PlanEnterprise:
		return PlanQuotas{Email: 20000, Whatsapp: 10000, Sms: 5000}
	default:
		return PlanQuotas{Email: 1000, Whatsapp: 500, Sms: 200}
	}
}
