package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysOverdue_NilDueDate(t *testing.T) {
	now := time.Now()
	assert.Equal(t, 0, DaysOverdue(nil, now))
}

func TestDaysOverdue_FutureAndExactDueDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	future := now.AddDate(0, 0, 5)
	assert.Equal(t, 0, DaysOverdue(&future, now))

	exact := now
	assert.Equal(t, 0, DaysOverdue(&exact, now))
}

func TestDaysOverdue_WholeDaysPast(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for k := 1; k <= 30; k++ {
		due := now.Add(-time.Duration(k) * 24 * time.Hour)
		assert.Equal(t, k, DaysOverdue(&due, now), "k=%d", k)
	}
}

func TestDaysOverdue_TruncatesTowardZero(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// 2 days and 23 hours overdue is still 2 whole days.
	due := now.Add(-(2*24 + 23) * time.Hour)
	assert.Equal(t, 2, DaysOverdue(&due, now))

	// A few hours overdue rounds down to zero days.
	due = now.Add(-5 * time.Hour)
	assert.Equal(t, 0, DaysOverdue(&due, now))
}

func TestIsLockedOut_GraceBoundary(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// Day 3 is the last day of grace; day 4 locks.
	threeDays := now.Add(-3 * 24 * time.Hour)
	assert.False(t, IsLockedOut(&threeDays, now))

	fourDays := now.Add(-4 * 24 * time.Hour)
	assert.True(t, IsLockedOut(&fourDays, now))

	assert.False(t, IsLockedOut(nil, now))
}
