package calendar

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Rohit-1301/Health/internal/model"
)

// checkupSpecialties are matched case-insensitively against an appointment's
// specialty to tag it as a routine checkup.
var checkupSpecialties = []string{"general check-up", "general checkup", "check-up", "checkup", "physical"}

func isCheckup(specialty string) bool {
	s := strings.ToLower(strings.TrimSpace(specialty))
	for _, c := range checkupSpecialties {
		if strings.Contains(s, c) {
			return true
		}
	}
	return false
}

// AppointmentEvent converts an appointment into a calendar event.
func AppointmentEvent(a model.Appointment) model.CalendarEvent {
	typ := model.EventAppointment
	if isCheckup(a.Specialty) {
		typ = model.EventCheckup
	}

	display := a.Date + " " + a.Time
	if d, err := model.ParseDate(a.Date); err == nil {
		display = d.Format("01/02/2006") + " " + a.Time
	}

	return model.CalendarEvent{
		ID:            "appointment-" + strconv.FormatInt(a.ID, 10),
		Title:         a.DoctorName + " (" + a.Specialty + ")",
		Date:          a.Date,
		Time:          a.Time,
		DisplayTime:   display,
		Type:          typ,
		Status:        string(a.Status),
		Details:       a.Location + " • " + a.ReasonOrDefault(),
		AppointmentID: a.ID,
	}
}

// AppointmentEvents converts appointments that are flagged for the calendar.
func AppointmentEvents(appts []model.Appointment) []model.CalendarEvent {
	var events []model.CalendarEvent
	for _, a := range appts {
		if !a.AddToCalendar {
			continue
		}
		events = append(events, AppointmentEvent(a))
	}
	return events
}

func compareEvents(a, b model.CalendarEvent) int {
	if c := cmp.Compare(a.Date, b.Date); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Time, b.Time); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// SortAscending orders events by date, then time, for calendar display.
func SortAscending(events []model.CalendarEvent) {
	slices.SortStableFunc(events, compareEvents)
}

// SortDescending orders events newest first, for history display.
func SortDescending(events []model.CalendarEvent) {
	slices.SortStableFunc(events, func(a, b model.CalendarEvent) int {
		return compareEvents(b, a)
	})
}

// InRange keeps events dated within [start, end] inclusive. Empty bounds are open.
func InRange(events []model.CalendarEvent, start, end string) []model.CalendarEvent {
	out := events[:0:0]
	for _, e := range events {
		if start != "" && e.Date < start {
			continue
		}
		if end != "" && e.Date > end {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ForDay returns the events scheduled on the calendar date of day.
func ForDay(events []model.CalendarEvent, day time.Time) []model.CalendarEvent {
	d := model.FormatDate(day)
	return InRange(events, d, d)
}
