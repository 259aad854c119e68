package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	ClockLayout     = "15:04"
	clockDataLayout = "15:04:05"
)

// Date is a calendar day without a clock or zone, stored in a DATE column.
type Date struct{ time.Time }

func DateOf(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

func (d Date) String() string { return d.Format(DateLayout) }

// At combines the day with a clock time in loc.
func (d Date) At(c ClockTime, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), c.Second(), 0, loc)
}

func (d *Date) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		*d = DateOf(x)
		return nil
	case []byte:
		return d.parse(string(x))
	case string:
		return d.parse(x)
	case nil:
		d.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("date: unsupported Scan type %T", v)
	}
}

func (d *Date) parse(s string) error {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.Format(DateLayout), nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return d.parse(s)
}

// ClockTime is a time of day stored in a TIME column.
type ClockTime struct{ time.Time }

func ClockOf(t time.Time) ClockTime {
	return ClockTime{time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)}
}

func ParseClock(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	layout := ClockLayout
	if len(s) == len(clockDataLayout) {
		layout = clockDataLayout
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return ClockTime{}, err
	}
	return ClockOf(t), nil
}

func (c ClockTime) String() string { return c.Format(ClockLayout) }

// Minutes returns the minutes elapsed since midnight.
func (c ClockTime) Minutes() int { return c.Hour()*60 + c.Minute() }

func (c *ClockTime) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		*c = ClockOf(x)
		return nil
	case []byte:
		return c.parse(string(x))
	case string:
		return c.parse(x)
	case nil:
		c.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("clock: unsupported Scan type %T", v)
	}
}

func (c *ClockTime) parse(s string) error {
	s = strings.TrimSpace(s)
	// postgres may append fractional seconds or a zone to TIME values
	if len(s) > len(clockDataLayout) {
		s = s[:len(clockDataLayout)]
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c ClockTime) Value() (driver.Value, error) {
	return c.Format(clockDataLayout), nil
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Format(ClockLayout))
}

func (c *ClockTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return c.parse(s)
}
