package billing

import (
	"net/http"

	"connect-ed/internal/domain/billing"
	"connect-ed/internal/domain/schools"

	"github.com/gin-gonic/gin"
)

type planDTO struct {
	Plan        schools.Plan        `json:"plan"`
	Amounts     billing.PlanAmounts `json:"amounts"`
	SignupTotal float64             `json:"signup_total"`
	Quotas      schools.PlanQuotas  `json:"quotas"`
}

// ListPlans exposes the compiled-in pricing table for the requested
// currency (default USD). The lockout screens and payment pages render
// from this.
func ListPlans(c *gin.Context) {
	currency := schools.CurrencyUSD
	if q := c.Query("currency"); q != "" {
		parsed, ok := schools.ParseCurrency(q)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown currency"})
			return
		}
		currency = parsed
	}

	plans := []schools.Plan{schools.PlanLite, schools.PlanGrowth, schools.PlanEnterprise}
	out := make([]planDTO, 0, len(plans))
	for _, p := range plans {
		out = append(out, planDTO{
			Plan:        p,
			Amounts:     billing.Amounts(p, currency),
			SignupTotal: billing.CalculateSignupTotal(p, currency),
			Quotas:      schools.QuotasFor(p),
		})
	}

	c.JSON(http.StatusOK, gin.H{"currency": currency, "plans": out})
}
