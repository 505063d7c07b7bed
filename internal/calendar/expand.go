// Package calendar derives calendar events from medication schedules,
// adherence history and appointments.
package calendar

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Rohit-1301/Health/internal/model"
	"github.com/Rohit-1301/Health/internal/recurrence"
)

// historyKey identifies all history entries for one medication on one day.
type historyKey struct {
	medicationID int64
	date         string
}

// dayStatus is the reconciled outcome for one (medication, day) pair.
type dayStatus struct {
	taken   bool
	missed  bool
	skipped bool
}

func (d dayStatus) occurrenceStatus() string {
	switch {
	case d.taken:
		return model.OccurrenceTaken
	case d.missed:
		return model.OccurrenceMissed
	case d.skipped:
		return model.OccurrenceSkipped
	}
	return model.OccurrenceDue
}

// indexHistory folds the history log into one status per (medication, day).
// Entries with an unparseable date are dropped and logged.
func indexHistory(history []model.MedicationHistory, logger *slog.Logger) map[historyKey]dayStatus {
	idx := make(map[historyKey]dayStatus, len(history))
	for _, h := range history {
		d, err := model.ParseDate(h.Date)
		if err != nil {
			logger.Warn("ignoring history entry with bad date",
				"history_id", h.ID, "medication_id", h.MedicationID, "date", h.Date, "error", err)
			continue
		}
		key := historyKey{medicationID: h.MedicationID, date: model.FormatDate(d)}
		st := idx[key]
		switch h.Status {
		case model.HistoryTaken:
			st.taken = true
		case model.HistoryMissed:
			st.missed = true
		case model.HistorySkipped:
			st.skipped = true
		}
		idx[key] = st
	}
	return idx
}

// OccurrenceID returns the stable identity of a medication occurrence.
func OccurrenceID(medicationID int64, date string) string {
	return strconv.FormatInt(medicationID, 10) + "-" + date
}

// Expand produces one event per medication per day in [start_date, end_date],
// with open-ended medications running to today plus the default horizon. The
// result carries no particular order. Medications with unparseable dates are
// skipped and logged. Expand reads only its arguments and is safe for
// concurrent use.
func Expand(meds []model.Medication, history []model.MedicationHistory, today time.Time, logger *slog.Logger) []model.CalendarEvent {
	if logger == nil {
		logger = slog.Default()
	}
	idx := indexHistory(history, logger)

	var events []model.CalendarEvent
	for _, m := range meds {
		start, end, err := scheduleBounds(m, today)
		if err != nil {
			var endDate string
			if m.EndDate != nil {
				endDate = *m.EndDate
			}
			logger.Warn("skipping medication with bad schedule dates",
				"medication_id", m.ID, "start_date", m.StartDate, "end_date", endDate, "error", err)
			continue
		}

		details := m.Dosage + " • " + string(m.Frequency)
		for day := range recurrence.Days(start, end) {
			date := model.FormatDate(day)
			events = append(events, model.CalendarEvent{
				ID:           OccurrenceID(m.ID, date),
				Title:        m.Name,
				Date:         date,
				Time:         m.ReminderTime,
				DisplayTime:  day.Format("01/02/2006") + " " + m.ReminderTime,
				Type:         model.EventMedication,
				Status:       idx[historyKey{medicationID: m.ID, date: date}].occurrenceStatus(),
				Details:      details,
				MedicationID: m.ID,
			})
		}
	}
	return events
}

func scheduleBounds(m model.Medication, today time.Time) (time.Time, time.Time, error) {
	start, err := model.ParseDate(m.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	var endPtr *time.Time
	if m.EndDate != nil && *m.EndDate != "" {
		end, err := model.ParseDate(*m.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("end date: %w", err)
		}
		endPtr = &end
	}
	return start, recurrence.EndOrHorizon(endPtr, today, recurrence.DefaultHorizon), nil
}
