package model

import "time"

type RecordType string

const (
	RecordLabResult    RecordType = "lab-result"
	RecordPrescription RecordType = "prescription"
	RecordImaging      RecordType = "imaging"
	RecordDischarge    RecordType = "discharge"
	RecordVaccination  RecordType = "vaccination"
	RecordOther        RecordType = "other"
)

func (t RecordType) Valid() bool {
	switch t {
	case RecordLabResult, RecordPrescription, RecordImaging, RecordDischarge, RecordVaccination, RecordOther:
		return true
	}
	return false
}

type HealthRecord struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	Title     string     `json:"title"`
	Type      RecordType `json:"type"`
	Provider  string     `json:"provider"`
	Date      string     `json:"date"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type ConditionType string

const (
	ConditionGeneral ConditionType = "condition"
	ConditionAllergy ConditionType = "allergy"
	ConditionChronic ConditionType = "chronic"
)

func (t ConditionType) Valid() bool {
	return t == ConditionGeneral || t == ConditionAllergy || t == ConditionChronic
}

type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

func (s Severity) Valid() bool {
	return s == SeverityMild || s == SeverityModerate || s == SeveritySevere
}

type Condition struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"userId"`
	Name          string        `json:"name"`
	Type          ConditionType `json:"type"`
	Severity      Severity      `json:"severity"`
	DiagnosedDate string        `json:"diagnosedDate,omitempty"`
	IsActive      bool          `json:"isActive"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}
