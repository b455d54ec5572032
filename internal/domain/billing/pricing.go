package billing

import "connect-ed/internal/domain/schools"

// PlanAmounts is one row of the compiled-in pricing table. PerTermCost
// covers a three-month school term; MonthlyEstimate is PerTermCost spread
// per month.
type PlanAmounts struct {
	SignupFee       float64 `json:"signup_fee"`
	PerTermCost     float64 `json:"per_term_cost"`
	MonthlyEstimate float64 `json:"monthly_estimate"`
}

var pricingTable = map[schools.Currency]map[schools.Plan]PlanAmounts{
	schools.CurrencyUSD: {
		schools.PlanLite:       {SignupFee: 500, PerTermCost: 150, MonthlyEstimate: 50},
		schools.PlanGrowth:     {SignupFee: 750, PerTermCost: 225, MonthlyEstimate: 75},
		schools.PlanEnterprise: {SignupFee: 1000, PerTermCost: 300, MonthlyEstimate: 100},
	},
	schools.CurrencyZAR: {
		schools.PlanLite:       {SignupFee: 8000, PerTermCost: 2400, MonthlyEstimate: 800},
		schools.PlanGrowth:     {SignupFee: 12000, PerTermCost: 3600, MonthlyEstimate: 1200},
		schools.PlanEnterprise: {SignupFee: 16000, PerTermCost: 4800, MonthlyEstimate: 1600},
	},
	schools.CurrencyZIG: {
		schools.PlanLite:       {SignupFee: 13000, PerTermCost: 3900, MonthlyEstimate: 1300},
		schools.PlanGrowth:     {SignupFee: 19500, PerTermCost: 5850, MonthlyEstimate: 1950},
		schools.PlanEnterprise: {SignupFee: 26000, PerTermCost: 7800, MonthlyEstimate: 2600},
	},
}

// Amounts looks up the pricing row for a plan and currency. Unrecognized
// currencies fall back to USD; unrecognized plans fall back to LITE.
func Amounts(plan schools.Plan, currency schools.Currency) PlanAmounts {
	byPlan, ok := pricingTable[currency]
	if !ok {
		byPlan = pricingTable[schools.CurrencyUSD]
	}
	if a, ok := byPlan[plan]; ok {
		return a
	}
	return byPlan[schools.PlanLite]
}

// CalculateSignupTotal is the amount charged at signup: the one-time fee
// plus the first monthly payment.
func CalculateSignupTotal(plan schools.Plan, currency schools.Currency) float64 {
	a := Amounts(plan, currency)
	return a.SignupFee + a.MonthlyEstimate
}

func CalculateMonthlyPayment(plan schools.Plan, currency schools.Currency) float64 {
	return Amounts(plan, currency).MonthlyEstimate
}
