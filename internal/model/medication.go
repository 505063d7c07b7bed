package model

import "time"

// Frequency is an advisory dosing label. Occurrences are always daily.
type Frequency string

const (
	FrequencyDaily      Frequency = "daily"
	FrequencyTwiceDaily Frequency = "twice-daily"
	FrequencyWeekly     Frequency = "weekly"
	FrequencyMonthly    Frequency = "monthly"
	FrequencyAsNeeded   Frequency = "as-needed"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyTwiceDaily, FrequencyWeekly, FrequencyMonthly, FrequencyAsNeeded:
		return true
	}
	return false
}

// MedicationType selects the display icon in the presentation layer.
type MedicationType string

const (
	MedicationPill      MedicationType = "pill"
	MedicationCapsule   MedicationType = "capsule"
	MedicationLiquid    MedicationType = "liquid"
	MedicationInjection MedicationType = "injection"
)

func (t MedicationType) Valid() bool {
	switch t {
	case MedicationPill, MedicationCapsule, MedicationLiquid, MedicationInjection:
		return true
	}
	return false
}

// Medication is schedule metadata only. Adherence lives in MedicationHistory.
type Medication struct {
	ID           int64          `json:"id"`
	UserID       int64          `json:"userId"`
	Name         string         `json:"name"`
	Dosage       string         `json:"dosage"`
	Frequency    Frequency      `json:"frequency"`
	Type         MedicationType `json:"type"`
	Instructions string         `json:"instructions,omitempty"`
	StartDate    string         `json:"startDate"`
	EndDate      *string        `json:"endDate,omitempty"`
	ReminderTime string         `json:"reminderTime"`
	Active       bool           `json:"active"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

type HistoryStatus string

const (
	HistoryTaken   HistoryStatus = "taken"
	HistoryMissed  HistoryStatus = "missed"
	HistorySkipped HistoryStatus = "skipped"
)

func (s HistoryStatus) Valid() bool {
	return s == HistoryTaken || s == HistoryMissed || s == HistorySkipped
}

// MedicationHistory is one append-only adherence event.
type MedicationHistory struct {
	ID           int64         `json:"id"`
	UserID       int64         `json:"userId"`
	MedicationID int64         `json:"medicationId"`
	Date         string        `json:"date"`
	Time         string        `json:"time"`
	Status       HistoryStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
}
