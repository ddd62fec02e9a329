package nba

import (
	"errors"
	"strings"
	"time"
)

// Layouts used on the wire and in HTML inputs.
const (
	DateLayout          = "2006-01-02"
	DateTimeLayout      = "2006-01-02 15:04:05"
	InputDateTimeLayout = "2006-01-02T15:04"
)

var (
	// ErrInvalidDate reports an unparseable date value.
	ErrInvalidDate = errors.New("nba: invalid date")
	// ErrInvalidRange reports a range whose end precedes its start.
	ErrInvalidRange = errors.New("nba: end date before start date")
)

var parseLayouts = []string{
	"2006-01-02T15:04:05",
	InputDateTimeLayout,
	DateTimeLayout,
	DateLayout,
}

// DateRange is the query window shared by every rankings page.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Complete reports whether both bounds are set.
func (r DateRange) Complete() bool {
	return !r.Start.IsZero() && !r.End.IsZero()
}

// Validate checks ordering of the bounds.
func (r DateRange) Validate() error {
	if !r.Complete() {
		return ErrInvalidDate
	}
	if r.End.Before(r.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Format renders both bounds with layout.
func (r DateRange) Format(layout string) (string, string) {
	return r.Start.Format(layout), r.End.Format(layout)
}

// ParseDate accepts plain dates, HTML datetime-local values and the API datetime layout.
// Values are interpreted in UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// ParseRange parses a pair of raw values. Empty values yield zero bounds.
func ParseRange(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Start: s, End: e}, nil
}

// SeasonRange is the default window for the B2B and rest pages.
func SeasonRange() DateRange {
	return DateRange{
		Start: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// MonthRange is the default window for the games played rankings.
func MonthRange() DateRange {
	return DateRange{
		Start: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 31, 23, 59, 0, 0, time.UTC),
	}
}
