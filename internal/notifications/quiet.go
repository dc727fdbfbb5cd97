package notifications

import (
	"encoding/json"
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// QuietHours is a daily window, in minutes since midnight, during which
// non-critical delivery is suppressed. Start > End wraps past midnight.
type QuietHours struct {
	Start int
	End   int
}

// Contains reports whether minute-of-day m falls inside the window. Both
// bounds are inclusive.
func (q QuietHours) Contains(m int) bool {
	if q.Start < q.End {
		return m >= q.Start && m <= q.End
	}
	return m >= q.Start || m <= q.End
}

// MinuteOfDay returns t's minutes since local midnight.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return MinuteOfDay(t), nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(m int) string {
	m = ((m % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

type quietHoursJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (q QuietHours) MarshalJSON() ([]byte, error) {
	return json.Marshal(quietHoursJSON{Start: FormatClock(q.Start), End: FormatClock(q.End)})
}

func (q *QuietHours) UnmarshalJSON(b []byte) error {
	var raw quietHoursJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	start, err := ParseClock(raw.Start)
	if err != nil {
		return fmt.Errorf("quiet hours start: %w", err)
	}
	end, err := ParseClock(raw.End)
	if err != nil {
		return fmt.Errorf("quiet hours end: %w", err)
	}
	q.Start, q.End = start, end
	return nil
}
