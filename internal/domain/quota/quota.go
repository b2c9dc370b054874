// Package quota splits task windows into ISO weeks and measures how far an
// assignment would push a volunteer past their weekly quota.
package quota

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var secondsPerHour = decimal.NewFromInt(3600)

// ErrInvalidWeek is returned by ParseWeek.
var ErrInvalidWeek = errors.New("invalid ISO week")

// Week is an ISO-8601 week.
type Week struct {
	Year int
	Week int
}

// WeekOf returns the ISO week containing t.
func WeekOf(t time.Time) Week {
	y, w := t.ISOWeek()
	return Week{Year: y, Week: w}
}

func (w Week) String() string { return fmt.Sprintf("%04d-W%02d", w.Year, w.Week) }

// ParseWeek parses the "2024-W10" form produced by String.
func ParseWeek(s string) (Week, error) {
	var w Week
	if _, err := fmt.Sscanf(s, "%d-W%d", &w.Year, &w.Week); err != nil {
		return Week{}, fmt.Errorf("%w: %q", ErrInvalidWeek, s)
	}
	if w.Week < 1 || w.Week > 53 {
		return Week{}, fmt.Errorf("%w: %q", ErrInvalidWeek, s)
	}
	return w, nil
}

// Before orders weeks chronologically.
func (w Week) Before(o Week) bool {
	if w.Year != o.Year {
		return w.Year < o.Year
	}
	return w.Week < o.Week
}

// Interval is a half-open busy window [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open windows intersect.
func (iv Interval) Overlaps(o Interval) bool {
	return iv.Start.Before(o.End) && o.Start.Before(iv.End)
}

// Hours is the window length in hours.
func (iv Interval) Hours() decimal.Decimal {
	if !iv.End.After(iv.Start) {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(iv.End.Sub(iv.Start) / time.Second)).Div(secondsPerHour)
}

// Split divides the window into per-ISO-week hours. Week boundaries are
// Monday 00:00 in the window's location.
func Split(iv Interval) map[Week]decimal.Decimal {
	out := make(map[Week]decimal.Decimal)
	cur := iv.Start
	for cur.Before(iv.End) {
		next := nextMonday(cur)
		if next.After(iv.End) {
			next = iv.End
		}
		w := WeekOf(cur)
		out[w] = out[w].Add(Interval{Start: cur, End: next}.Hours())
		cur = next
	}
	return out
}

// Overage sums, over the task's weeks, the hours by which existing plus task
// hours exceed the weekly quota.
func Overage(existing, task map[Week]decimal.Decimal, quota decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for w, h := range task {
		over := existing[w].Add(h).Sub(quota)
		if over.IsPositive() {
			total = total.Add(over)
		}
	}
	return total
}

// Weeks returns the keys of a split in chronological order.
func Weeks(m map[Week]decimal.Decimal) []Week {
	out := make([]Week, 0, len(m))
	for w := range m {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func nextMonday(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(time.Monday) - int(day.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return day.AddDate(0, 0, offset)
}
