package entity

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// CalendarDate is a calendar day with no time-of-day component. All dates in
// the system are reduced to this granularity before they are stored or
// compared, so "2024-12-25T00:00:00+05:00" and "2024-12-25" refer to the same
// day.
type CalendarDate struct {
	time.Time
}

const calendarDateLayout = "2006-01-02"

// NewCalendarDate normalizes t to its calendar day. The day is taken in the
// timestamp's own location and re-anchored at UTC midnight.
func NewCalendarDate(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseCalendarDate accepts either a plain YYYY-MM-DD string or a full
// RFC3339 timestamp, which is truncated to its calendar day.
func ParseCalendarDate(s string) (CalendarDate, error) {
	if t, err := time.Parse(calendarDateLayout, s); err == nil {
		return NewCalendarDate(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return NewCalendarDate(t), nil
}

func (d CalendarDate) String() string {
	return d.Format(calendarDateLayout)
}

// Equal reports whether two dates fall on the same calendar day.
func (d CalendarDate) Equal(other CalendarDate) bool {
	return d.Time.Equal(other.Time)
}

func (d *CalendarDate) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("%w: %s", ErrInvalidDate, string(b))
	}
	parsed, err := ParseCalendarDate(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d CalendarDate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(calendarDateLayout) + `"`), nil
}

func (d CalendarDate) Value() (driver.Value, error) {
	return d.Time, nil
}

func (d *CalendarDate) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case time.Time:
		*d = NewCalendarDate(v)
	case []byte:
		t, err := time.Parse(calendarDateLayout, string(v))
		if err != nil {
			return err
		}
		*d = NewCalendarDate(t)
	default:
		return fmt.Errorf("cannot scan type %T into CalendarDate", value)
	}
	return nil
}
