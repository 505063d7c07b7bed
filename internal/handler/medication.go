package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Rohit-1301/Health/internal/auth"
	"github.com/Rohit-1301/Health/internal/model"
	"github.com/Rohit-1301/Health/internal/store"
	"github.com/Rohit-1301/Health/internal/websocket"
)

type MedicationHandler struct {
	meds    *store.MedicationStore
	history *store.HistoryStore
	feed    changeFeed
	loc     *time.Location
	now     func() time.Time
	logger  *slog.Logger
}

func NewMedicationHandler(ms *store.MedicationStore, hs *store.HistoryStore, hub *websocket.Hub, cal CacheInvalidator, loc *time.Location, logger *slog.Logger) *MedicationHandler {
	if loc == nil {
		loc = time.Local
	}
	return &MedicationHandler{
		meds:    ms,
		history: hs,
		feed:    changeFeed{hub: hub, calendar: cal},
		loc:     loc,
		now:     time.Now,
		logger:  logger,
	}
}

type medicationRequest struct {
	Name         *string               `json:"name"`
	Dosage       *string               `json:"dosage"`
	Frequency    *model.Frequency      `json:"frequency"`
	Type         *model.MedicationType `json:"type"`
	Instructions *string               `json:"instructions"`
	StartDate    *string               `json:"startDate"`
	EndDate      *string               `json:"endDate"`
	ReminderTime *string               `json:"reminderTime"`
	Active       *bool                 `json:"active"`
}

func (req *medicationRequest) validate() string {
	if req.Name != nil {
		*req.Name = strings.TrimSpace(*req.Name)
		if *req.Name == "" {
			return "name is required"
		}
	}
	if req.Frequency != nil && !req.Frequency.Valid() {
		return "invalid frequency"
	}
	if req.Type != nil && !req.Type.Valid() {
		return "invalid type"
	}
	if req.StartDate != nil {
		if _, err := model.ParseDate(*req.StartDate); err != nil {
			return "startDate must be YYYY-MM-DD"
		}
	}
	if req.EndDate != nil && *req.EndDate != "" {
		if _, err := model.ParseDate(*req.EndDate); err != nil {
			return "endDate must be YYYY-MM-DD"
		}
	}
	if req.ReminderTime != nil && !model.ValidTime(*req.ReminderTime) {
		return "reminderTime must be HH:MM"
	}
	return ""
}

func (h *MedicationHandler) List(w http.ResponseWriter, r *http.Request) {
	meds, err := h.meds.ListByUser(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list medications", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list medications")
		return
	}
	if meds == nil {
		meds = []model.Medication{}
	}
	writeJSON(w, http.StatusOK, meds)
}

func (h *MedicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req medicationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == nil || req.Dosage == nil || req.StartDate == nil {
		writeError(w, http.StatusBadRequest, "name, dosage and startDate are required")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var end *string
	if req.EndDate != nil && *req.EndDate != "" {
		end = req.EndDate
	}
	reminderTime := "08:00"
	if req.ReminderTime != nil {
		reminderTime = *req.ReminderTime
	}

	m, err := h.meds.Create(r.Context(), userID, store.MedicationParams{
		Name:         *req.Name,
		Dosage:       strings.TrimSpace(*req.Dosage),
		Frequency:    deref(req.Frequency),
		Type:         deref(req.Type),
		Instructions: strings.TrimSpace(deref(req.Instructions)),
		StartDate:    *req.StartDate,
		EndDate:      end,
		ReminderTime: reminderTime,
		Active:       req.Active == nil || *req.Active,
	})
	if errors.Is(err, model.ErrInvalidDateRange) {
		writeError(w, http.StatusBadRequest, "endDate must not be before startDate")
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "create medication", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create medication")
		return
	}

	h.feed.changed(userID, "medication", "created", m.ID)
	writeJSON(w, http.StatusCreated, m)
}

func (h *MedicationHandler) load(w http.ResponseWriter, r *http.Request) (*model.Medication, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}
	m, err := h.meds.GetForUser(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "get medication", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get medication")
		return nil, false
	}
	if m == nil {
		writeError(w, http.StatusNotFound, "medication not found")
		return nil, false
	}
	return m, true
}

func (h *MedicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Update applies a partial change. An empty endDate makes the medication
// open-ended.
func (h *MedicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.load(w, r)
	if !ok {
		return
	}

	var req medicationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	u := store.MedicationUpdate{
		Name:         req.Name,
		Dosage:       req.Dosage,
		Frequency:    req.Frequency,
		Type:         req.Type,
		Instructions: req.Instructions,
		StartDate:    req.StartDate,
		ReminderTime: req.ReminderTime,
		Active:       req.Active,
	}
	if req.EndDate != nil {
		if *req.EndDate == "" {
			u.ClearEndDate = true
		} else {
			u.EndDate = req.EndDate
		}
	}

	m, err := h.meds.Update(r.Context(), existing.ID, u)
	if errors.Is(err, model.ErrInvalidDateRange) {
		writeError(w, http.StatusBadRequest, "endDate must not be before startDate")
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "update medication", "id", existing.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update medication")
		return
	}
	if m == nil {
		writeError(w, http.StatusNotFound, "medication not found")
		return
	}

	h.feed.changed(existing.UserID, "medication", "updated", m.ID)
	writeJSON(w, http.StatusOK, m)
}

// Delete removes the medication and its history.
func (h *MedicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.meds.Delete(r.Context(), existing.ID); err != nil {
		h.logger.ErrorContext(r.Context(), "delete medication", "id", existing.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete medication")
		return
	}

	h.feed.changed(existing.UserID, "medication", "deleted", existing.ID)
	w.WriteHeader(http.StatusNoContent)
}

type markRequest struct {
	Status model.HistoryStatus `json:"status"`
	Date   string              `json:"date"`
}

// MarkTaken handles POST /api/users/{user_id}/medications/{id}/taken. The
// body is optional; by default a "taken" entry is logged for today at the
// current time.
func (h *MedicationHandler) MarkTaken(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.load(w, r)
	if !ok {
		return
	}

	var req markRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	now := h.now().In(h.loc)
	today := model.FormatDate(now)
	if req.Status == "" {
		req.Status = model.HistoryTaken
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "status must be taken, missed or skipped")
		return
	}
	if req.Date == "" {
		req.Date = today
	}
	if _, err := model.ParseDate(req.Date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if req.Date > today {
		writeError(w, http.StatusBadRequest, "date cannot be in the future")
		return
	}

	entry, err := h.history.Create(r.Context(), existing.UserID, existing.ID, req.Date, now.Format(model.TimeLayout), req.Status)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "record medication history", "id", existing.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record dose")
		return
	}

	h.feed.changed(existing.UserID, "medication", string(req.Status), existing.ID)
	writeJSON(w, http.StatusCreated, entry)
}

// History handles GET /api/users/{user_id}/medications/history, newest first.
// ?medication_id= narrows it to one medication.
func (h *MedicationHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var (
		entries []model.MedicationHistory
		err     error
	)
	if raw := r.URL.Query().Get("medication_id"); raw != "" {
		medID, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid medication_id")
			return
		}
		m, gerr := h.meds.GetForUser(r.Context(), userID, medID)
		if gerr != nil {
			h.logger.ErrorContext(r.Context(), "get medication", "id", medID, "error", gerr)
			writeError(w, http.StatusInternalServerError, "failed to list history")
			return
		}
		if m == nil {
			writeError(w, http.StatusNotFound, "medication not found")
			return
		}
		entries, err = h.history.ListByMedication(r.Context(), medID)
	} else {
		entries, err = h.history.ListByUser(r.Context(), userID)
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list medication history", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	if entries == nil {
		entries = []model.MedicationHistory{}
	}
	writeJSON(w, http.StatusOK, entries)
}
