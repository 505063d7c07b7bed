package model

type EventType string

const (
	EventMedication  EventType = "medication"
	EventAppointment EventType = "appointment"
	EventCheckup     EventType = "checkup"
)

// Occurrence statuses for medication events. Appointment events carry the
// appointment's own status.
const (
	OccurrenceDue     = "due"
	OccurrenceTaken   = "taken"
	OccurrenceMissed  = "missed"
	OccurrenceSkipped = "skipped"
)

// CalendarEvent is derived on every read from medications, history and
// appointments. It is never stored.
type CalendarEvent struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	DisplayTime   string    `json:"displayTime"`
	Type          EventType `json:"type"`
	Status        string    `json:"status"`
	Details       string    `json:"details"`
	MedicationID  int64     `json:"medicationId,omitempty"`
	AppointmentID int64     `json:"appointmentId,omitempty"`
}
