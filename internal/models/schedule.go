package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Weekday is a closed seven-value enumeration, aligned with time.Weekday
// (Sunday == 0) so resolver lookups need no translation.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// String returns the weekday name used on the wire ("Monday", ...).
func (d Weekday) String() string {
	if d < Sunday || d > Saturday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// ParseWeekday converts a wire name back to a Weekday.
func ParseWeekday(name string) (Weekday, error) {
	for i, n := range weekdayNames {
		if n == name {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("unknown weekday: %q", name)
}

// TimeOfDay is a wall-clock time with minute granularity, encoded as "15:04".
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a "15:04" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// String formats the time as "15:04".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// MarshalJSON encodes the time as a "15:04" string.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a "15:04" string.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TimeRange is the daily recreation window. Both ends are inclusive.
type TimeRange struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// Contains reports whether the wall-clock time of now falls inside the
// window, at minute granularity.
func (r TimeRange) Contains(now time.Time) bool {
	m := now.Hour()*60 + now.Minute()
	return m >= r.Start.Minutes() && m <= r.End.Minutes()
}

// Schedule maps every weekday to its recreation window. The fixed-size array
// guarantees all seven days are always present; a stored document missing a
// day fails to decode.
type Schedule [7]TimeRange

// Window returns the recreation window for the given weekday.
func (s Schedule) Window(day Weekday) TimeRange {
	return s[day]
}

// MarshalJSON encodes the schedule as a weekday-keyed object,
// {"Monday": {"start": "12:00", "end": "18:30"}, ...}.
func (s Schedule) MarshalJSON() ([]byte, error) {
	obj := make(map[string]TimeRange, 7)
	for d := Sunday; d <= Saturday; d++ {
		obj[d.String()] = s[d]
	}
	return json.Marshal(obj)
}

// UnmarshalJSON decodes a weekday-keyed object, requiring exactly the seven
// weekday keys.
func (s *Schedule) UnmarshalJSON(data []byte) error {
	var obj map[string]TimeRange
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	var decoded Schedule
	seen := 0
	for name, window := range obj {
		day, err := ParseWeekday(name)
		if err != nil {
			return err
		}
		decoded[day] = window
		seen++
	}
	if seen != 7 {
		return fmt.Errorf("recreation schedule must contain all seven weekdays, got %d", seen)
	}
	*s = decoded
	return nil
}

// DefaultSchedule returns the documented default recreation windows:
// 12:00-18:30 on weekdays, 12:00-21:30 on weekends.
func DefaultSchedule() Schedule {
	weekday := TimeRange{Start: TimeOfDay{Hour: 12}, End: TimeOfDay{Hour: 18, Minute: 30}}
	weekend := TimeRange{Start: TimeOfDay{Hour: 12}, End: TimeOfDay{Hour: 21, Minute: 30}}

	var s Schedule
	for d := Monday; d <= Friday; d++ {
		s[d] = weekday
	}
	s[Saturday] = weekend
	s[Sunday] = weekend
	return s
}
