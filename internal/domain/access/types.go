package access

import "connect-ed/internal/domain/schools"

type DecisionKind string

const (
	DecisionPending  DecisionKind = "pending"
	DecisionAllow    DecisionKind = "allow"
	DecisionRedirect DecisionKind = "redirect"
	DecisionLockout  DecisionKind = "lockout"
)

// Redirect targets mirror the client routes the gate can send a user to.
const (
	TargetLogin      = "/login"
	TargetPayment    = "/payment"
	TargetOnboarding = "/onboarding"
	TargetDashboard  = "/dashboard"
)

type LockoutVariant string

const (
	// School admins get an actionable payment prompt with the exact amount.
	LockoutAdminPaymentDue LockoutVariant = "admin_payment_due"
	// Everyone else gets a passive notice naming the school and support
	// contact; they cannot resolve the block themselves.
	LockoutSchoolUnavailable LockoutVariant = "school_unavailable"
)

type Lockout struct {
	Variant        LockoutVariant   `json:"variant"`
	SchoolName     string           `json:"school_name"`
	DaysOverdue    int              `json:"days_overdue"`
	AmountDue      float64          `json:"amount_due,omitempty"`
	Currency       schools.Currency `json:"currency,omitempty"`
	SupportContact string           `json:"support_contact,omitempty"`
}

// Decision is the gate's verdict for one (session, requirements) pair.
// It is pure data: the HTTP layer turns it into status codes and bodies,
// clients turn it into navigation.
type Decision struct {
	Kind    DecisionKind `json:"kind"`
	Target  string       `json:"target,omitempty"` // set when Kind == redirect
	Reason  string       `json:"reason,omitempty"` // first failing check: auth|payment|onboarding|role|plan
	Lockout *Lockout     `json:"lockout,omitempty"`
}

func allow() Decision {
	return Decision{Kind: DecisionAllow}
}

func redirect(target, reason string) Decision {
	return Decision{Kind: DecisionRedirect, Target: target, Reason: reason}
}
