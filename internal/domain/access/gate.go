package access

import (
	"time"

	"connect-ed/internal/domain/billing"
	"connect-ed/internal/domain/schools"
	"connect-ed/internal/domain/users"
)

// Session is the already-fetched state the gate decides over. Resolved
// distinguishes "session fetch still in flight" from a real deny, so a
// client shell never flashes a redirect before the data is in.
type Session struct {
	Resolved      bool
	Authenticated bool
	User          *users.User
	School        *schools.School
}

// Requirements is the composable predicate set. Zero-value fields are not
// checked; presets below are the fixed policy subsets routes actually use.
type Requirements struct {
	GuestOnly bool

	Auth         bool
	Payment      bool
	Onboarding   bool
	ActiveSchool bool

	Roles []users.Role
	Plans []schools.Plan
}

// DashboardPreset gates the main app surface: authenticated and fully
// onboarded, with the overdue lockout applied.
func DashboardPreset() Requirements {
	return Requirements{Auth: true, Payment: true, Onboarding: true, ActiveSchool: true}
}

// AuthOnlyPreset gates post-payment, pre-onboarding screens.
func AuthOnlyPreset() Requirements {
	return Requirements{Auth: true}
}

// GuestOnlyPreset redirects authenticated users away from login/signup
// toward whatever step their school is at.
func GuestOnlyPreset() Requirements {
	return Requirements{GuestOnly: true}
}

// Evaluate decides access for one session against one requirement set.
// Checks run in a fixed order (auth, payment, onboarding, active/overdue,
// role, plan) and the first failure wins; violations are never aggregated.
// All failures are soft decision values, never errors.
func Evaluate(now time.Time, sess Session, req Requirements) Decision {
	if !sess.Resolved {
		return Decision{Kind: DecisionPending}
	}

	if req.GuestOnly {
		return evaluateGuest(sess)
	}

	if req.Auth && !sess.Authenticated {
		return redirect(TargetLogin, "auth")
	}

	school := sess.School

	if req.Payment && (school == nil || !school.SignupFeePaid) {
		return redirect(TargetPayment, "payment")
	}

	if req.Onboarding && (school == nil || !school.OnboardingComplete) {
		return redirect(TargetOnboarding, "onboarding")
	}

	if req.ActiveSchool && school != nil {
		if d := lockoutFor(now, sess.User, school); d != nil {
			return *d
		}
	}

	if len(req.Roles) > 0 && !roleAllowed(sess.User, req.Roles) {
		return redirect(TargetDashboard, "role")
	}

	if len(req.Plans) > 0 && !planAllowed(school, req.Plans) {
		return redirect(TargetDashboard, "plan")
	}

	return allow()
}

// evaluateGuest inverts the gate for login/signup screens: guests pass,
// authenticated users are forwarded using the same precedence order.
func evaluateGuest(sess Session) Decision {
	if !sess.Authenticated {
		return allow()
	}
	school := sess.School
	if school == nil || !school.SignupFeePaid {
		return redirect(TargetPayment, "payment")
	}
	if !school.OnboardingComplete {
		return redirect(TargetOnboarding, "onboarding")
	}
	return redirect(TargetDashboard, "auth")
}

// lockoutFor returns a lockout decision when the school's subscription has
// lapsed or its payment is past the grace period. An inactive school locks
// regardless of the due date.
func lockoutFor(now time.Time, u *users.User, school *schools.School) *Decision {
	days := billing.DaysOverdue(school.NextPaymentDate, now)
	overdue := days > billing.GraceDays

	if school.IsActive && !overdue {
		return nil
	}

	lock := &Lockout{
		Variant:        LockoutSchoolUnavailable,
		SchoolName:     school.Name,
		DaysOverdue:    days,
		SupportContact: school.SupportContact,
	}
	if u != nil && u.Role == users.RoleAdmin {
		lock = &Lockout{
			Variant:     LockoutAdminPaymentDue,
			SchoolName:  school.Name,
			DaysOverdue: days,
			AmountDue:   billing.CalculateMonthlyPayment(school.Plan, school.Currency),
			Currency:    school.Currency,
		}
	}

	return &Decision{Kind: DecisionLockout, Lockout: lock}
}

func roleAllowed(u *users.User, roles []users.Role) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

func planAllowed(school *schools.School, plans []schools.Plan) bool {
	if school == nil {
		return false
	}
	for _, p := range plans {
		if school.Plan == p {
			return true
		}
	}
	return false
}
