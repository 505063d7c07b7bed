package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Rohit-1301/Health/internal/auth"
	"github.com/Rohit-1301/Health/internal/calendar"
	"github.com/Rohit-1301/Health/internal/model"
)

const (
	defaultAdherenceDays = 30
	maxAdherenceDays     = 365
)

type CalendarHandler struct {
	calendar *calendar.Service
	logger   *slog.Logger
}

func NewCalendarHandler(cal *calendar.Service, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{calendar: cal, logger: logger}
}

// Events handles GET /api/users/{user_id}/calendar?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *CalendarHandler) Events(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" || end == "" {
		writeError(w, http.StatusBadRequest, "start and end query parameters are required")
		return
	}
	s, err := model.ParseDate(start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be YYYY-MM-DD")
		return
	}
	e, err := model.ParseDate(end)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end must be YYYY-MM-DD")
		return
	}
	if e.Before(s) {
		writeError(w, http.StatusBadRequest, "end must not be before start")
		return
	}

	userID := auth.UserID(r.Context())
	events, err := h.calendar.Events(r.Context(), userID, start, end)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "build calendar", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load calendar")
		return
	}
	if events == nil {
		events = []model.CalendarEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

// Upcoming handles GET /api/users/{user_id}/reminders/upcoming
func (h *CalendarHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	appts, err := h.calendar.Upcoming(r.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list upcoming reminders", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load reminders")
		return
	}
	if appts == nil {
		appts = []model.Appointment{}
	}
	writeJSON(w, http.StatusOK, appts)
}

// Adherence handles GET /api/users/{user_id}/insights/adherence?days=30
func (h *CalendarHandler) Adherence(w http.ResponseWriter, r *http.Request) {
	days := defaultAdherenceDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxAdherenceDays {
			writeError(w, http.StatusBadRequest, "days must be between 1 and 365")
			return
		}
		days = n
	}

	userID := auth.UserID(r.Context())
	report, err := h.calendar.Adherence(r.Context(), userID, days)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "compute adherence", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute adherence")
		return
	}
	writeJSON(w, http.StatusOK, report)
}
