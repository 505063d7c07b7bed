package model

import (
	"errors"
	"testing"
)

func TestAppointmentStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to AppointmentStatus
		wantErr  bool
	}{
		{AppointmentConfirmed, AppointmentPending, false},
		{AppointmentPending, AppointmentConfirmed, false},
		{AppointmentConfirmed, AppointmentCancelled, false},
		{AppointmentPending, AppointmentCompleted, false},
		{AppointmentCancelled, AppointmentCancelled, false},
		{AppointmentCancelled, AppointmentConfirmed, true},
		{AppointmentCompleted, AppointmentCancelled, true},
		{AppointmentCompleted, AppointmentPending, true},
		{AppointmentConfirmed, "rescheduled", true},
	}

	for _, tt := range tests {
		err := tt.from.CheckTransition(tt.to)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s -> %s: err = %v, wantErr %v", tt.from, tt.to, err, tt.wantErr)
		}
	}

	err := AppointmentCancelled.CheckTransition(AppointmentConfirmed)
	if !errors.Is(err, ErrStatusTransition) {
		t.Errorf("expected ErrStatusTransition, got %v", err)
	}
}

func TestReasonOrDefault(t *testing.T) {
	if got := (Appointment{}).ReasonOrDefault(); got != "Not specified" {
		t.Errorf("ReasonOrDefault() = %q", got)
	}
	if got := (Appointment{Reason: "Annual physical"}).ReasonOrDefault(); got != "Annual physical" {
		t.Errorf("ReasonOrDefault() = %q", got)
	}
}

func TestReminderSentFor(t *testing.T) {
	d := "2026-03-02"
	a := Appointment{LastReminderSentDate: &d}
	if !a.ReminderSentFor("2026-03-02") {
		t.Error("expected reminder recorded for 2026-03-02")
	}
	if a.ReminderSentFor("2026-03-03") {
		t.Error("unexpected reminder recorded for 2026-03-03")
	}
	if (Appointment{}).ReminderSentFor("2026-03-02") {
		t.Error("nil marker should never match")
	}
}

func TestCheckDateRange(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		start   string
		end     *string
		wantErr error
	}{
		{"2023-03-01", nil, nil},
		{"2023-03-01", str(""), nil},
		{"2023-03-01", str("2023-03-01"), nil},
		{"2023-03-01", str("2023-03-05"), nil},
		{"2023-03-05", str("2023-03-01"), ErrInvalidDateRange},
	}

	for _, tt := range tests {
		err := CheckDateRange(tt.start, tt.end)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("CheckDateRange(%q, %v) = %v, want %v", tt.start, tt.end, err, tt.wantErr)
		}
	}

	if err := CheckDateRange("03/01/2023", nil); err == nil {
		t.Error("expected parse error for non-ISO start date")
	}
}

func TestEnumValidity(t *testing.T) {
	if !FrequencyTwiceDaily.Valid() || Frequency("hourly").Valid() {
		t.Error("frequency validity mismatch")
	}
	if !MedicationInjection.Valid() || MedicationType("patch").Valid() {
		t.Error("medication type validity mismatch")
	}
	if !HistorySkipped.Valid() || HistoryStatus("due").Valid() {
		t.Error("history status validity mismatch")
	}
	if !RecordVaccination.Valid() || RecordType("xray").Valid() {
		t.Error("record type validity mismatch")
	}
}

func TestValidTime(t *testing.T) {
	for _, s := range []string{"08:00", "23:59", "00:00"} {
		if !ValidTime(s) {
			t.Errorf("ValidTime(%q) = false", s)
		}
	}
	for _, s := range []string{"8am", "24:00", "", "12:60"} {
		if ValidTime(s) {
			t.Errorf("ValidTime(%q) = true", s)
		}
	}
}
