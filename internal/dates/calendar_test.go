package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testCalendar(t *testing.T, now string) *Calendar {
	t.Helper()
	cal, err := New(DefaultTimezone)
	require.NoError(t, err)
	fixed, err := time.ParseInLocation("2006-01-02 15:04:05", now, cal.Location())
	require.NoError(t, err)
	return cal.WithNow(func() time.Time { return fixed })
}

func mustDate(t *testing.T, cal *Calendar, raw string) time.Time {
	t.Helper()
	d, err := cal.ParseDate(raw)
	require.NoError(t, err)
	return d
}

func TestIsWeekend(t *testing.T) {
	cal := testCalendar(t, "2024-09-16 09:00:00")

	require.True(t, cal.IsWeekend(mustDate(t, cal, "2024-09-21")))  // Saturday
	require.True(t, cal.IsWeekend(mustDate(t, cal, "2024-09-22")))  // Sunday
	require.False(t, cal.IsWeekend(mustDate(t, cal, "2024-09-20"))) // Friday
	require.False(t, cal.IsWeekend(mustDate(t, cal, "2024-09-23"))) // Monday
}

func TestIsPastOrTooSoon(t *testing.T) {
	// Now: Monday 2024-09-16, 09:00 SGT.
	cal := testCalendar(t, "2024-09-16 09:00:00")

	require.True(t, cal.IsPastOrTooSoon(mustDate(t, cal, "2024-09-15")), "yesterday")
	require.True(t, cal.IsPastOrTooSoon(mustDate(t, cal, "2024-09-16")), "same day")
	require.True(t, cal.IsPastOrTooSoon(mustDate(t, cal, "2024-09-17")), "tomorrow")
	require.False(t, cal.IsPastOrTooSoon(mustDate(t, cal, "2024-09-18")), "day after tomorrow")
}

func TestIsPastApplicationDeadline(t *testing.T) {
	// 2024-09-23 is a Monday, 2024-09-24 a Tuesday.
	monday := "2024-09-23"
	tuesday := "2024-09-24"

	// Thursday 09-19 is exactly 4 days before Monday: still allowed.
	cal := testCalendar(t, "2024-09-19 16:00:00")
	require.False(t, cal.IsPastApplicationDeadline(mustDate(t, cal, monday)))

	// Friday 09-20 is past Monday's deadline but on Tuesday's.
	cal = testCalendar(t, "2024-09-20 10:00:00")
	require.True(t, cal.IsPastApplicationDeadline(mustDate(t, cal, monday)))
	require.False(t, cal.IsPastApplicationDeadline(mustDate(t, cal, tuesday)))

	// Saturday 09-21 is past both.
	cal = testCalendar(t, "2024-09-21 10:00:00")
	require.True(t, cal.IsPastApplicationDeadline(mustDate(t, cal, monday)))
	require.True(t, cal.IsPastApplicationDeadline(mustDate(t, cal, tuesday)))

	// Mid-week dates never hit the deadline rule.
	cal = testCalendar(t, "2024-09-24 10:00:00")
	require.False(t, cal.IsPastApplicationDeadline(mustDate(t, cal, "2024-09-25")))
	require.False(t, cal.IsPastApplicationDeadline(mustDate(t, cal, "2024-09-27")))
}

func TestWithdrawalBoundary(t *testing.T) {
	cal := testCalendar(t, "2024-09-16 09:00:00")

	yesterday := mustDate(t, cal, "2024-09-15")
	today := mustDate(t, cal, "2024-09-16")
	tomorrow := mustDate(t, cal, "2024-09-17")

	require.True(t, cal.IsBeforeTomorrow(yesterday))
	require.True(t, cal.IsBeforeTomorrow(today))
	require.False(t, cal.IsBeforeTomorrow(tomorrow))

	require.False(t, cal.IsFutureDate(yesterday))
	require.False(t, cal.IsFutureDate(today))
	require.True(t, cal.IsFutureDate(tomorrow))

	// Withdrawal is blocked only once the day has fully elapsed.
	require.True(t, cal.IsFullyElapsed(yesterday))
	require.False(t, cal.IsFullyElapsed(today))
	require.False(t, cal.IsFullyElapsed(tomorrow))
}

func TestWeeklyQuota(t *testing.T) {
	cal := testCalendar(t, "2024-09-16 09:00:00")

	existing := []time.Time{
		mustDate(t, cal, "2024-09-17"),
		mustDate(t, cal, "2024-09-18"),
		mustDate(t, cal, "2024-10-01"),
	}
	counts := cal.WeeklyQuota(existing)
	require.Equal(t, 2, counts[cal.WeekOf(existing[0])])
	require.Equal(t, 1, counts[cal.WeekOf(existing[2])])
}

func TestExceedsWeeklyQuota(t *testing.T) {
	cal := testCalendar(t, "2024-09-16 09:00:00")

	counts := cal.WeeklyQuota([]time.Time{
		mustDate(t, cal, "2024-09-17"),
		mustDate(t, cal, "2024-09-18"),
	})

	third := mustDate(t, cal, "2024-09-19")
	require.True(t, cal.ExceedsWeeklyQuota(third, counts), "third request in the week warns")
	require.Equal(t, 3, counts[cal.WeekOf(third)])

	fresh := mustDate(t, cal, "2024-10-02")
	require.False(t, cal.ExceedsWeeklyQuota(fresh, counts), "first request of a new week")
	require.Equal(t, 1, counts[cal.WeekOf(fresh)])
}

func TestWeekOfCrossesYearBoundary(t *testing.T) {
	cal := testCalendar(t, "2024-12-30 09:00:00")

	// 2024-12-30 and 2025-01-01 share ISO week 2025-W01.
	a := cal.WeekOf(mustDate(t, cal, "2024-12-30"))
	b := cal.WeekOf(mustDate(t, cal, "2025-01-01"))
	require.Equal(t, a, b)
	require.Equal(t, 2025, a.Year)
}
