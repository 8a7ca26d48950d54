package domain

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout là định dạng ngày ở biên HTTP: DDMMYYYY.
const DateLayout = "02012006"

var ErrInvalidDate = errors.New("định dạng ngày không hợp lệ, dùng DDMMYYYY")

// Date là một ngày lịch, không có giờ. So sánh được bằng ==.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf lấy ngày lịch của t theo location của t.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a DDMMYYYY string.
func ParseDate(s string) (Date, error) {
	if len(s) != len(DateLayout) {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time(time.UTC).AddDate(0, 0, n))
}

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// String trả về dạng DDMMYYYY.
func (d Date) String() string {
	return d.Time(time.UTC).Format(DateLayout)
}

// JSON trả về dạng ISO (YYYY-MM-DD)
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.Time(time.UTC).Format(time.DateOnly)), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	t, err := time.Parse(time.DateOnly, string(b))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, string(b))
	}
	*d = DateOf(t)
	return nil
}
