package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidInput is returned when a birth date, time or gender cannot be
// read. It is the only error a caller ever sees from chart calculation.
var ErrInvalidInput = errors.New("invalid input")

// DefaultHour is used when a birth has no time of day. Noon keeps the hour
// pillar inside a single two-hour block away from the day boundary.
const DefaultHour = 12

// Year bounds accepted at the input boundary.
const (
	MinInputYear = 1
	MaxInputYear = 9999
)

// Gender is carried through to the chart for downstream interpretation; no
// calculation in this module depends on it.
type Gender string

const (
	GenderUnknown Gender = ""
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
)

// ParseGender accepts male/female in a few common spellings. An empty tag
// means unknown.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return GenderUnknown, nil
	case "male", "m", "男":
		return GenderMale, nil
	case "female", "f", "女":
		return GenderFemale, nil
	default:
		return GenderUnknown, fmt.Errorf("%w: unknown gender %q", ErrInvalidInput, s)
	}
}

// Birth is a validated civil birth moment. Time holds the local wall clock;
// the caller has already resolved any timezone, so the location is UTC.
type Birth struct {
	Time    time.Time
	HasTime bool
	Gender  Gender
}

// dateTimeLayouts are tried in order when the date string carries a clock.
var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

var clockLayouts = []string{"15:04:05", "15:04"}

const dateLayout = "2006-01-02"

// ParseBirth reads a birth date, an optional clock time and an optional
// gender tag. A missing clock defaults to DefaultHour.
//
// The date may be YYYY-MM-DD, a local date-time (T or space separated) or
// RFC 3339; with RFC 3339 the wall clock is kept and the offset dropped. A
// clock may only be given separately when the date has none of its own.
func ParseBirth(date, clock, gender string) (Birth, error) {
	g, err := ParseGender(gender)
	if err != nil {
		return Birth{}, err
	}

	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		return Birth{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	t, hasTime, err := parseDate(date)
	if err != nil {
		return Birth{}, err
	}

	if clock != "" {
		if hasTime {
			return Birth{}, fmt.Errorf("%w: time given twice (%q and %q)", ErrInvalidInput, date, clock)
		}
		c, err := parseClock(clock)
		if err != nil {
			return Birth{}, err
		}
		t = time.Date(t.Year(), t.Month(), t.Day(), c.Hour(), c.Minute(), c.Second(), 0, time.UTC)
		hasTime = true
	}

	if !hasTime {
		t = time.Date(t.Year(), t.Month(), t.Day(), DefaultHour, 0, 0, 0, time.UTC)
	}

	if t.Year() < MinInputYear || t.Year() > MaxInputYear {
		return Birth{}, fmt.Errorf("%w: year %d outside %d-%d", ErrInvalidInput, t.Year(), MinInputYear, MaxInputYear)
	}

	return Birth{Time: t, HasTime: hasTime, Gender: g}, nil
}

func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, false, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return wallClock(t), true, nil
	}
	return time.Time{}, false, fmt.Errorf("%w: unrecognised date %q", ErrInvalidInput, s)
}

func parseClock(s string) (time.Time, error) {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised time %q", ErrInvalidInput, s)
}

// wallClock keeps the local reading of t and pins it to UTC.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// FormatDate formats a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
