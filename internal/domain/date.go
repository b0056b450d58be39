package domain

import (
	"encoding"
	"encoding/json"
	"fmt"
	"time"
)

// Date is a calendar date with no time component, always in UTC.
// It serializes as "2006-01-02".
type Date struct {
	t time.Time
}

// Compile-time interface checks.
var (
	_ json.Marshaler           = Date{}
	_ json.Unmarshaler         = (*Date)(nil)
	_ encoding.TextMarshaler   = Date{}
	_ encoding.TextUnmarshaler = (*Date)(nil)
	_ fmt.Stringer             = Date{}
)

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date in UTC.
func Today() Date {
	return DateOf(time.Now())
}

// Time returns the date as midnight UTC.
func (d Date) Time() time.Time {
	return d.t
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// After reports whether d is after o.
func (d Date) After(o Date) bool {
	return d.t.After(o.t)
}

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// String returns the date formatted as "2006-01-02".
func (d Date) String() string {
	return d.t.Format(time.DateOnly)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	t, err := time.ParseInLocation(time.DateOnly, string(text), time.UTC)
	if err != nil {
		return fmt.Errorf("tenfold: invalid date %q: %w", text, err)
	}
	d.t = t
	return nil
}

// MarshalJSON implements json.Marshaler. Date serializes as a JSON string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("tenfold: invalid date: %s", data)
	}
	return d.UnmarshalText([]byte(s))
}
