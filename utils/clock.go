package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Clock pins every day boundary to a single zone. Instants are stored in UTC;
// StartOfDay/EndOfDay return instants that callers may pass straight to queries.
type Clock struct {
	Loc *time.Location
	now func() time.Time
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Loc: loc, now: time.Now}
}

// FixedClock is a Clock whose Now always returns t. Used by tests and seeders.
func FixedClock(loc *time.Location, t time.Time) Clock {
	c := NewClock(loc)
	c.now = func() time.Time { return t }
	return c
}

func (c Clock) Now() time.Time {
	if c.now == nil {
		return time.Now().In(c.Location())
	}
	return c.now().In(c.Location())
}

// Location never returns nil.
func (c Clock) Location() *time.Location {
	if c.Loc == nil {
		return time.UTC
	}
	return c.Loc
}

// In converts t to the clock's zone.
func (c Clock) In(t time.Time) time.Time { return t.In(c.Location()) }

func (c Clock) StartOfDay(t time.Time) time.Time {
	t = t.In(c.Location())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.Location())
}

func (c Clock) EndOfDay(t time.Time) time.Time {
	return c.StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func (c Clock) StartOfMonth(t time.Time) time.Time {
	t = t.In(c.Location())
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, c.Location())
}

func (c Clock) EndOfMonth(t time.Time) time.Time {
	return c.StartOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// DaysBetween counts calendar days from a to b in the clock's zone.
// It is negative when b is before a.
func (c Clock) DaysBetween(a, b time.Time) int {
	ay, am, ad := a.In(c.Location()).Date()
	by, bm, bd := b.In(c.Location()).Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// ParseDate accepts "2006-01-02" (read in the clock's zone) or RFC 3339.
// An empty string yields today.
func (c Clock) ParseDate(s string) (time.Time, error) {
	if s == "" {
		return c.Now(), nil
	}
	if t, err := time.ParseInLocation(DateLayout, s, c.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(c.Location()), nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, s)
}
