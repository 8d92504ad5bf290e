package task

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

const DateLayout = "2006-01-02"

// Date is a calendar day with no time component. The zero value means
// "no date" and serializes as an empty string.
type Date civil.Date

func NewDate(year int, month time.Month, day int) Date {
	return Date(civil.DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC)))
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	return Date(civil.DateOf(t))
}

func ParseDate(v string) (Date, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return Date{}, nil
	}
	d, err := civil.ParseDate(v)
	if err != nil {
		return Date{}, fmt.Errorf("date %q: want YYYY-MM-DD", v)
	}
	return Date(d), nil
}

func (d Date) asCivil() civil.Date { return civil.Date(d) }

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.asCivil().String()
}

// Format formats the date with a time layout.
func (d Date) Format(layout string) string {
	if d.IsZero() {
		return ""
	}
	return d.asCivil().In(time.UTC).Format(layout)
}

func (d Date) AddDays(n int) Date { return Date(d.asCivil().AddDays(n)) }

func (d Date) Before(o Date) bool { return d.asCivil().Before(o.asCivil()) }
func (d Date) After(o Date) bool  { return d.asCivil().After(o.asCivil()) }
func (d Date) Equal(o Date) bool  { return d == o }

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int {
	switch {
	case d.Before(o):
		return -1
	case d.After(o):
		return 1
	}
	return 0
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
