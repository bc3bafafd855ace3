package raw

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Layouts used by the Olist extracts.
const (
	TimestampLayout = "2006-01-02 15:04:05"
	DateLayout      = "2006-01-02"
)

// The nullable column types below decode an empty CSV field as NULL. Each
// exposes Any, returning nil for NULL or the native Go value for pgx.

// Text is a nullable text column.
type Text struct {
	String string
	Valid  bool
}

// NewText returns a valid Text.
func NewText(s string) Text {
	return Text{String: s, Valid: true}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Text) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*t = Text{}
		return nil
	}
	*t = Text{String: string(b), Valid: true}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (t Text) MarshalText() ([]byte, error) {
	if !t.Valid {
		return nil, nil
	}
	return []byte(t.String), nil
}

// Any returns the value for a query argument.
func (t Text) Any() any {
	if !t.Valid {
		return nil
	}
	return t.String
}

// Int is a nullable integer column. Integral floats such as "40.0" are
// accepted.
type Int struct {
	Int64 int64
	Valid bool
}

// NewInt returns a valid Int.
func NewInt(v int64) Int {
	return Int{Int64: v, Valid: true}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Int) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*i = Int{}
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) {
			return fmt.Errorf("invalid integer %q", s)
		}
		v = int64(f)
	}
	*i = Int{Int64: v, Valid: true}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (i Int) MarshalText() ([]byte, error) {
	if !i.Valid {
		return nil, nil
	}
	return strconv.AppendInt(nil, i.Int64, 10), nil
}

// Any returns the value for a query argument.
func (i Int) Any() any {
	if !i.Valid {
		return nil
	}
	return i.Int64
}

// Float is a nullable floating point column.
type Float struct {
	Float64 float64
	Valid   bool
}

// NewFloat returns a valid Float.
func NewFloat(v float64) Float {
	return Float{Float64: v, Valid: true}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Float) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*f = Float{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	*f = Float{Float64: v, Valid: true}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (f Float) MarshalText() ([]byte, error) {
	if !f.Valid {
		return nil, nil
	}
	return strconv.AppendFloat(nil, f.Float64, 'f', -1, 64), nil
}

// Any returns the value for a query argument.
func (f Float) Any() any {
	if !f.Valid {
		return nil
	}
	return f.Float64
}

// Timestamp is a nullable timestamp column in TimestampLayout. A bare date
// is accepted as midnight.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

// NewTimestamp returns a valid Timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t, Valid: true}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Timestamp) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	v, err := parseTime(s)
	if err != nil {
		return err
	}
	*t = Timestamp{Time: v, Valid: true}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (t Timestamp) MarshalText() ([]byte, error) {
	if !t.Valid {
		return nil, nil
	}
	return []byte(t.Time.Format(TimestampLayout)), nil
}

// Any returns the value for a query argument.
func (t Timestamp) Any() any {
	if !t.Valid {
		return nil
	}
	return t.Time
}

// Date is a nullable DATE column. Any time of day in the source is dropped.
type Date struct {
	Time  time.Time
	Valid bool
}

// NewDate returns a valid Date truncated to midnight UTC.
func NewDate(t time.Time) Date {
	return Date{Time: truncateDay(t), Valid: true}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*d = Date{}
		return nil
	}
	v, err := parseTime(s)
	if err != nil {
		return err
	}
	*d = NewDate(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	if !d.Valid {
		return nil, nil
	}
	return []byte(d.Time.Format(TimestampLayout)), nil
}

// Any returns the value for a query argument.
func (d Date) Any() any {
	if !d.Valid {
		return nil
	}
	return d.Time
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
