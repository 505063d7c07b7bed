package model

import (
	"errors"
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ErrInvalidDateRange is returned when an end date precedes its start date.
var ErrInvalidDateRange = errors.New("end date is before start date")

// ParseDate parses a date-only YYYY-MM-DD string as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// ValidTime reports whether s is an HH:MM time of day.
func ValidTime(s string) bool {
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}

// FormatDate returns the calendar date of t in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// CheckDateRange validates that end, when set, is not before start.
func CheckDateRange(start string, end *string) error {
	s, err := ParseDate(start)
	if err != nil {
		return err
	}
	if end == nil || *end == "" {
		return nil
	}
	e, err := ParseDate(*end)
	if err != nil {
		return err
	}
	if e.Before(s) {
		return fmt.Errorf("%s < %s: %w", *end, start, ErrInvalidDateRange)
	}
	return nil
}
