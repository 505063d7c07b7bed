package model

import (
	"errors"
	"fmt"
	"time"
)

type AppointmentStatus string

const (
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
)

// ErrStatusTransition is returned when a cancelled or completed appointment
// would move to a different status.
var ErrStatusTransition = errors.New("appointment status cannot change once cancelled or completed")

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentConfirmed, AppointmentPending, AppointmentCancelled, AppointmentCompleted:
		return true
	}
	return false
}

// Terminal reports whether the status is cancelled or completed.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentCancelled || s == AppointmentCompleted
}

// CheckTransition validates moving from s to next. Terminal statuses only
// accept themselves.
func (s AppointmentStatus) CheckTransition(next AppointmentStatus) error {
	if !next.Valid() {
		return fmt.Errorf("unknown appointment status %q", next)
	}
	if s.Terminal() && next != s {
		return fmt.Errorf("%s -> %s: %w", s, next, ErrStatusTransition)
	}
	return nil
}

type Appointment struct {
	ID                   int64             `json:"id"`
	UserID               int64             `json:"userId"`
	DoctorName           string            `json:"doctorName"`
	Specialty            string            `json:"specialty"`
	Location             string            `json:"location"`
	Date                 string            `json:"date"`
	Time                 string            `json:"time"`
	Duration             string            `json:"duration"`
	Reason               string            `json:"reason,omitempty"`
	Status               AppointmentStatus `json:"status"`
	AddToCalendar        bool              `json:"addToCalendar"`
	SetReminder          bool              `json:"setReminder"`
	LastReminderSentDate *string           `json:"lastReminderSentDate,omitempty"`
	CreatedAt            time.Time         `json:"createdAt"`
	UpdatedAt            time.Time         `json:"updatedAt"`
}

// ReasonOrDefault returns the visit reason or "Not specified".
func (a Appointment) ReasonOrDefault() string {
	if a.Reason == "" {
		return "Not specified"
	}
	return a.Reason
}

// ReminderSentFor reports whether a reminder was already recorded for date.
func (a Appointment) ReminderSentFor(date string) bool {
	return a.LastReminderSentDate != nil && *a.LastReminderSentDate == date
}
