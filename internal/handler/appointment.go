package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Rohit-1301/Health/internal/auth"
	"github.com/Rohit-1301/Health/internal/model"
	"github.com/Rohit-1301/Health/internal/store"
	"github.com/Rohit-1301/Health/internal/websocket"
)

type AppointmentHandler struct {
	appts  *store.AppointmentStore
	feed   changeFeed
	logger *slog.Logger
}

func NewAppointmentHandler(as *store.AppointmentStore, hub *websocket.Hub, cal CacheInvalidator, logger *slog.Logger) *AppointmentHandler {
	return &AppointmentHandler{appts: as, feed: changeFeed{hub: hub, calendar: cal}, logger: logger}
}

// appointmentRequest is shared by create and update. On update, nil fields
// keep their stored value.
type appointmentRequest struct {
	DoctorName    *string                  `json:"doctorName"`
	Specialty     *string                  `json:"specialty"`
	Location      *string                  `json:"location"`
	Date          *string                  `json:"date"`
	Time          *string                  `json:"time"`
	Duration      *string                  `json:"duration"`
	Reason        *string                  `json:"reason"`
	Status        *model.AppointmentStatus `json:"status"`
	AddToCalendar *bool                    `json:"addToCalendar"`
	SetReminder   *bool                    `json:"setReminder"`
}

func (req *appointmentRequest) validate() string {
	if req.DoctorName != nil {
		*req.DoctorName = strings.TrimSpace(*req.DoctorName)
		if *req.DoctorName == "" {
			return "doctorName is required"
		}
	}
	if req.Date != nil {
		if _, err := model.ParseDate(*req.Date); err != nil {
			return "date must be YYYY-MM-DD"
		}
	}
	if req.Time != nil && !model.ValidTime(*req.Time) {
		return "time must be HH:MM"
	}
	if req.Duration != nil && *req.Duration != "" {
		if n, err := strconv.Atoi(*req.Duration); err != nil || n <= 0 {
			return "duration must be a positive number of minutes"
		}
	}
	if req.Status != nil && !req.Status.Valid() {
		return "invalid status"
	}
	return ""
}

func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	appts, err := h.appts.ListByUser(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list appointments", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list appointments")
		return
	}
	if appts == nil {
		appts = []model.Appointment{}
	}
	writeJSON(w, http.StatusOK, appts)
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req appointmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.DoctorName == nil || req.Date == nil || req.Time == nil {
		writeError(w, http.StatusBadRequest, "doctorName, date and time are required")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if req.Status != nil && req.Status.Terminal() {
		writeError(w, http.StatusBadRequest, "new appointments must be confirmed or pending")
		return
	}

	p := store.AppointmentParams{
		DoctorName:    *req.DoctorName,
		Specialty:     strings.TrimSpace(deref(req.Specialty)),
		Location:      strings.TrimSpace(deref(req.Location)),
		Date:          *req.Date,
		Time:          *req.Time,
		Duration:      deref(req.Duration),
		Reason:        strings.TrimSpace(deref(req.Reason)),
		Status:        deref(req.Status),
		AddToCalendar: req.AddToCalendar == nil || *req.AddToCalendar,
		SetReminder:   req.SetReminder == nil || *req.SetReminder,
	}

	a, err := h.appts.Create(r.Context(), userID, p)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "create appointment", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create appointment")
		return
	}

	h.feed.changed(userID, "appointment", "created", a.ID)
	writeJSON(w, http.StatusCreated, a)
}

// load resolves the {id} path value to one of the current user's
// appointments, writing the error response itself when it cannot.
func (h *AppointmentHandler) load(w http.ResponseWriter, r *http.Request) (*model.Appointment, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}
	a, err := h.appts.GetForUser(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "get appointment", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get appointment")
		return nil, false
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "appointment not found")
		return nil, false
	}
	return a, true
}

func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.load(w, r)
	if !ok {
		return
	}

	var req appointmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	u := store.AppointmentUpdate{
		DoctorName:    req.DoctorName,
		Specialty:     req.Specialty,
		Location:      req.Location,
		Date:          req.Date,
		Time:          req.Time,
		Duration:      req.Duration,
		Reason:        req.Reason,
		Status:        req.Status,
		AddToCalendar: req.AddToCalendar,
		SetReminder:   req.SetReminder,
	}
	a, err := h.appts.Update(r.Context(), existing.ID, u)
	h.respondStatusChange(w, r, existing, a, err, "updated")
}

// Cancel handles POST /api/users/{user_id}/appointments/{id}/cancel
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, model.AppointmentCancelled, "cancelled")
}

// Complete handles POST /api/users/{user_id}/appointments/{id}/complete
func (h *AppointmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, model.AppointmentCompleted, "completed")
}

func (h *AppointmentHandler) setStatus(w http.ResponseWriter, r *http.Request, status model.AppointmentStatus, action string) {
	existing, ok := h.load(w, r)
	if !ok {
		return
	}
	a, err := h.appts.SetStatus(r.Context(), existing.ID, status)
	h.respondStatusChange(w, r, existing, a, err, action)
}

func (h *AppointmentHandler) respondStatusChange(w http.ResponseWriter, r *http.Request, existing, a *model.Appointment, err error, action string) {
	if errors.Is(err, model.ErrStatusTransition) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "update appointment", "id", existing.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update appointment")
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "appointment not found")
		return
	}

	h.feed.changed(existing.UserID, "appointment", action, a.ID)
	writeJSON(w, http.StatusOK, a)
}

func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.appts.Delete(r.Context(), existing.ID); err != nil {
		h.logger.ErrorContext(r.Context(), "delete appointment", "id", existing.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete appointment")
		return
	}

	h.feed.changed(existing.UserID, "appointment", "deleted", existing.ID)
	w.WriteHeader(http.StatusNoContent)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
