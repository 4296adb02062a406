// Package freshness classifies food items by how close they are to their
// expiry date. Every function is pure: the reference time is always passed in.
package freshness

import (
	"FreshTrack/domain"
	"fmt"
	"math"
	"strings"
	"time"
)

type Status string

const (
	Expired       Status = "Expired"
	NearlyExpired Status = "NearlyExpired"
	Fresh         Status = "Fresh"
)

const (
	// NearlyExpiredDays is the last day offset (inclusive) still counted as nearly expired.
	NearlyExpiredDays = 5
	// NominalShelfLifeDays drives the progress heuristic for every category.
	NominalShelfLifeDays = 30

	DateLayout = "2006-01-02"
)

var layouts = []string{DateLayout, time.RFC3339Nano, time.RFC3339}

// Clock supplies "now" to callers that do not inject their own time.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now().UTC()
}

type Report struct {
	Status       Status
	DaysToExpiry int
	Label        string
	// Progress is nil for expired items.
	Progress *float64
}

// ParseTimestamp accepts a calendar date (YYYY-MM-DD) or an RFC 3339 timestamp.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, domain.ErrMalformedInput
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrMalformedInput, raw)
}

// DaysToExpiry counts whole calendar days from now's date to the expiry date.
// It is negative once the expiry date has passed. Both dates are taken in now's location.
func DaysToExpiry(expiry, now time.Time) int {
	return int(utcDate(expiry.In(now.Location())).Sub(utcDate(now)) / (24 * time.Hour))
}

// Classify evaluates, in order: expired (strictly before now), nearly expired
// (0..NearlyExpiredDays days left), fresh.
func Classify(expiry, now time.Time) Status {
	if expiry.Before(now) {
		return Expired
	}
	days := DaysToExpiry(expiry, now)
	if days >= 0 && days <= NearlyExpiredDays {
		return NearlyExpired
	}
	return Fresh
}

// RelativeLabel renders "expired 3 days ago" or "expires in 3 days".
func RelativeLabel(expiry, now time.Time) string {
	days := DaysToExpiry(expiry, now)
	if days < 0 {
		days = -days
	}

	if Classify(expiry, now) == Expired {
		if days == 0 {
			return "expired today"
		}
		return fmt.Sprintf("expired %s ago", pluralDays(days))
	}
	if days == 0 {
		return "expires today"
	}
	return fmt.Sprintf("expires in %s", pluralDays(days))
}

// Progress is the share (0-100) of the nominal shelf life already elapsed.
// The second result is false for expired items, which have no progress.
func Progress(expiry, now time.Time) (float64, bool) {
	if Classify(expiry, now) == Expired {
		return 0, false
	}
	days := float64(DaysToExpiry(expiry, now))
	p := math.Min(100, 100-(days/NominalShelfLifeDays)*100)
	return math.Max(0, p), true
}

func Evaluate(expiry, now time.Time) Report {
	r := Report{
		Status:       Classify(expiry, now),
		DaysToExpiry: DaysToExpiry(expiry, now),
		Label:        RelativeLabel(expiry, now),
	}
	if p, ok := Progress(expiry, now); ok {
		r.Progress = &p
	}
	return r
}

func EvaluateString(raw string, now time.Time) (Report, error) {
	expiry, err := ParseTimestamp(raw)
	if err != nil {
		return Report{}, err
	}
	return Evaluate(expiry, now), nil
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return calendarDate(t)
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// utcDate re-anchors t's calendar date at UTC midnight so day differences
// are always whole multiples of 24 hours.
func utcDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
