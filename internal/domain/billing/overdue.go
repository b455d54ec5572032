package billing

import "time"

// GraceDays is the window after a missed payment during which access is
// not yet blocked. Lockout starts strictly after it: day 3 is still in,
// day 4 is out.
const GraceDays = 3

// DaysOverdue returns whole days elapsed past the due date, truncated
// toward zero. A nil due date means no obligation is tracked yet.
func DaysOverdue(nextPaymentDate *time.Time, now time.Time) int {
	if nextPaymentDate == nil {
		return 0
	}
	if !now.After(*nextPaymentDate) {
		return 0
	}
	return int(now.Sub(*nextPaymentDate) / (24 * time.Hour))
}

func IsLockedOut(nextPaymentDate *time.Time, now time.Time) bool {
	return DaysOverdue(nextPaymentDate, now) > GraceDays
}
