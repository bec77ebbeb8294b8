// Package dates implements the calendar rules governing WFH submissions and
// withdrawals. Every rule is evaluated at day granularity in the
// organization's timezone, never the server's.
package dates

import (
	"fmt"
	"time"
)

// DefaultTimezone is the organizational timezone used when none is configured.
const DefaultTimezone = "Asia/Singapore"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Calendar evaluates candidate dates against the organization's rules. The
// now function is injectable so rules can be tested against a frozen clock.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// New builds a Calendar for the given IANA timezone name.
func New(timezone string) (*Calendar, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Calendar{loc: loc, now: time.Now}, nil
}

// WithNow returns a copy of the calendar pinned to the provided clock.
func (c *Calendar) WithNow(now func() time.Time) *Calendar {
	return &Calendar{loc: c.loc, now: now}
}

// Location exposes the organizational timezone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// ParseDate parses a YYYY-MM-DD string as an org-local calendar date.
func (c *Calendar) ParseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, raw, c.loc)
}

// Midnight normalises an instant to local midnight of its calendar day.
func (c *Calendar) Midnight(t time.Time) time.Time {
	local := t.In(c.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)
}

// Today returns local midnight of the current day.
func (c *Calendar) Today() time.Time {
	return c.Midnight(c.now())
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func (c *Calendar) IsWeekend(d time.Time) bool {
	switch d.In(c.loc).Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}

// IsPastOrTooSoon reports whether the date is too near to submit for:
// same-day and next-day requests are rejected, so the earliest acceptable
// date is the day after tomorrow.
func (c *Calendar) IsPastOrTooSoon(d time.Time) bool {
	day := c.Midnight(d)
	tomorrow := c.Today().AddDate(0, 0, 1)
	return !day.After(tomorrow)
}

// IsPastApplicationDeadline reports whether the submission window for the
// date has closed. Only Monday and Tuesday carry a deadline: applications
// must be in by 4 calendar days before the date (Thursday and Friday of the
// preceding week respectively).
func (c *Calendar) IsPastApplicationDeadline(d time.Time) bool {
	day := c.Midnight(d)
	switch day.Weekday() {
	case time.Monday, time.Tuesday:
		latest := day.AddDate(0, 0, -4)
		return c.Today().After(latest)
	}
	return false
}

// IsBeforeTomorrow reports whether the date is today or earlier. This is the
// withdrawal-side past check: unlike submission, acting on today's date is
// still meaningful here.
func (c *Calendar) IsBeforeTomorrow(d time.Time) bool {
	return c.Midnight(d).Before(c.Today().AddDate(0, 0, 1))
}

// IsFutureDate reports whether the date is strictly after today.
func (c *Calendar) IsFutureDate(d time.Time) bool {
	return c.Today().Before(c.Midnight(d))
}

// IsFullyElapsed reports whether the date lies strictly before today.
// Withdrawal and revocation remain possible up to and including the WFH day
// itself; only dates that have completely passed are off limits.
func (c *Calendar) IsFullyElapsed(d time.Time) bool {
	return c.Midnight(d).Before(c.Today())
}

// WeekKey identifies an ISO 8601 calendar week.
type WeekKey struct {
	Year int
	Week int
}

// WeekOf returns the ISO week holding the date.
func (c *Calendar) WeekOf(d time.Time) WeekKey {
	year, week := d.In(c.loc).ISOWeek()
	return WeekKey{Year: year, Week: week}
}

// WeekCounts tallies requests per ISO week.
type WeekCounts map[WeekKey]int

// WeeklyQuota builds the per-week tally for a set of existing request dates.
func (c *Calendar) WeeklyQuota(existing []time.Time) WeekCounts {
	counts := make(WeekCounts, len(existing))
	for _, d := range existing {
		counts[c.WeekOf(d)]++
	}
	return counts
}

// ExceedsWeeklyQuota records the candidate date against the tally and
// reports whether its week already held two or more requests. The result is
// advisory: callers attach a note rather than rejecting the date.
func (c *Calendar) ExceedsWeeklyQuota(d time.Time, counts WeekCounts) bool {
	key := c.WeekOf(d)
	over := counts[key] >= 2
	counts[key]++
	return over
}
