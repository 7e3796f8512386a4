package model

import (
	"math"
	"strings"
	"time"
)

// DateLayout is the wire format of check-in, check-out and payment dates.
const DateLayout = "2006-01-02"

// DateRange is a half-open stay [CheckIn, CheckOut).  The guest occupies
// the room through the night before CheckOut, so a range ending on day X
// and another starting on day X share no night.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// ParseDate accepts YYYY-MM-DD or an RFC3339 timestamp and returns the
// calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return TruncateDay(t), nil
}

// TruncateDay drops the time of day, keeping the UTC calendar date.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Valid reports whether the range covers at least one night.
func (r DateRange) Valid() bool {
	return !r.CheckIn.IsZero() && !r.CheckOut.IsZero() && r.CheckOut.After(r.CheckIn)
}

// Nights is the number of charged nights, rounding a partial day up.
func (r DateRange) Nights() int {
	if !r.Valid() {
		return 0
	}
	return int(math.Ceil(r.CheckOut.Sub(r.CheckIn).Hours() / 24))
}

// Overlaps reports whether [a,b) and [c,d) share a night: a < d && c < b.
func (r DateRange) Overlaps(o DateRange) bool {
	return r.CheckIn.Before(o.CheckOut) && o.CheckIn.Before(r.CheckOut)
}
