package calendar

import (
	"log/slog"
	"math"
	"time"

	"github.com/Rohit-1301/Health/internal/model"
)

const (
	RatingExcellent        = "excellent"
	RatingGood             = "good"
	RatingNeedsImprovement = "needs improvement"
)

// Rate maps an adherence percentage to its rating label.
func Rate(percent int) string {
	switch {
	case percent >= 90:
		return RatingExcellent
	case percent >= 80:
		return RatingGood
	}
	return RatingNeedsImprovement
}

type MedicationAdherence struct {
	MedicationID int64  `json:"medicationId"`
	Name         string `json:"name"`
	Scheduled    int    `json:"scheduled"`
	Taken        int    `json:"taken"`
	Percent      int    `json:"percent"`
	Rating       string `json:"rating"`
}

// DayAdherence is one day of the trailing week.
type DayAdherence struct {
	Date      string `json:"date"`
	Weekday   string `json:"weekday"`
	Scheduled int    `json:"scheduled"`
	Taken     int    `json:"taken"`
	Percent   int    `json:"percent"`
}

type AdherenceReport struct {
	From         string                `json:"from"`
	To           string                `json:"to"`
	Scheduled    int                   `json:"scheduled"`
	Taken        int                   `json:"taken"`
	Percent      int                   `json:"percent"`
	Rating       string                `json:"rating"`
	ByMedication []MedicationAdherence `json:"byMedication"`
	Weekly       []DayAdherence        `json:"weekly"`
}

const weekDays = 7

// Adherence reports the share of scheduled doses recorded as taken over the
// days-long window ending today. Today's dose counts only once something has
// been recorded for it, so a dose that is not due yet never lowers the score.
// Medications with nothing scheduled in the window are left out and an empty
// window reports 0%. Weekly covers the seven days ending today, oldest first.
func Adherence(meds []model.Medication, history []model.MedicationHistory, today time.Time, days int, logger *slog.Logger) AdherenceReport {
	if days < 1 {
		days = 1
	}
	to := model.FormatDate(today)
	from := model.FormatDate(today.AddDate(0, 0, -(days - 1)))

	weekFrom := model.FormatDate(today.AddDate(0, 0, -(weekDays - 1)))
	start := from
	if weekFrom < start {
		start = weekFrom
	}
	var events []model.CalendarEvent
	for _, e := range InRange(Expand(meds, history, today, logger), start, to) {
		if e.Date == to && e.Status == model.OccurrenceDue {
			continue
		}
		events = append(events, e)
	}

	weekly := make([]DayAdherence, weekDays)
	dayIndex := make(map[string]int, weekDays)
	for i := range weekly {
		d := today.AddDate(0, 0, i-(weekDays-1))
		weekly[i] = DayAdherence{Date: model.FormatDate(d), Weekday: d.Weekday().String()}
		dayIndex[weekly[i].Date] = i
	}

	perMed := make(map[int64]*MedicationAdherence)
	for _, m := range meds {
		perMed[m.ID] = &MedicationAdherence{MedicationID: m.ID, Name: m.Name}
	}

	report := AdherenceReport{From: from, To: to}
	for _, e := range events {
		if i, ok := dayIndex[e.Date]; ok {
			weekly[i].Scheduled++
			if e.Status == model.OccurrenceTaken {
				weekly[i].Taken++
			}
		}
		if e.Date < from {
			continue
		}
		ma := perMed[e.MedicationID]
		ma.Scheduled++
		report.Scheduled++
		if e.Status == model.OccurrenceTaken {
			ma.Taken++
			report.Taken++
		}
	}

	report.Percent = percent(report.Taken, report.Scheduled)
	report.Rating = Rate(report.Percent)
	for _, m := range meds {
		ma := perMed[m.ID]
		if ma.Scheduled == 0 {
			continue
		}
		ma.Percent = percent(ma.Taken, ma.Scheduled)
		ma.Rating = Rate(ma.Percent)
		report.ByMedication = append(report.ByMedication, *ma)
	}
	for i := range weekly {
		weekly[i].Percent = percent(weekly[i].Taken, weekly[i].Scheduled)
	}
	report.Weekly = weekly
	return report
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) * 100 / float64(total)))
}
