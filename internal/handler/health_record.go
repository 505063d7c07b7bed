package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Rohit-1301/Health/internal/auth"
	"github.com/Rohit-1301/Health/internal/model"
	"github.com/Rohit-1301/Health/internal/store"
	"github.com/Rohit-1301/Health/internal/websocket"
)

type HealthRecordHandler struct {
	records *store.HealthRecordStore
	feed    changeFeed
	logger  *slog.Logger
}

func NewHealthRecordHandler(rs *store.HealthRecordStore, hub *websocket.Hub, logger *slog.Logger) *HealthRecordHandler {
	return &HealthRecordHandler{records: rs, feed: changeFeed{hub: hub}, logger: logger}
}

type healthRecordRequest struct {
	Title    string           `json:"title"`
	Type     model.RecordType `json:"type"`
	Provider string           `json:"provider"`
	Date     string           `json:"date"`
	Notes    string           `json:"notes"`
}

func (h *HealthRecordHandler) parseAndValidate(w http.ResponseWriter, r *http.Request) (*healthRecordRequest, bool) {
	var req healthRecordRequest
	if !decodeJSON(w, r, &req) {
		return nil, false
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return nil, false
	}
	if req.Type == "" {
		req.Type = model.RecordOther
	}
	if !req.Type.Valid() {
		writeError(w, http.StatusBadRequest, "invalid record type")
		return nil, false
	}
	if _, err := model.ParseDate(req.Date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return nil, false
	}
	req.Provider = strings.TrimSpace(req.Provider)
	req.Notes = strings.TrimSpace(req.Notes)
	return &req, true
}

func (h *HealthRecordHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.records.ListByUser(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list health records", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list health records")
		return
	}
	if records == nil {
		records = []model.HealthRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *HealthRecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseAndValidate(w, r)
	if !ok {
		return
	}

	userID := auth.UserID(r.Context())
	rec, err := h.records.Create(r.Context(), userID, req.Title, req.Type, req.Provider, req.Date, req.Notes)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "create health record", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create health record")
		return
	}

	h.feed.changed(userID, "health_record", "created", rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

func (h *HealthRecordHandler) load(w http.ResponseWriter, r *http.Request) (*model.HealthRecord, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}
	rec, err := h.records.GetForUser(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "get health record", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get health record")
		return nil, false
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "health record not found")
		return nil, false
	}
	return rec, true
}

func (h *HealthRecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *HealthRecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.load(w, r)
	if !ok {
		return
	}
	req, ok := h.parseAndValidate(w, r)
	if !ok {
		return
	}

	rec, err := h.records.Update(r.Context(), existing.UserID, existing.ID, req.Title, req.Type, req.Provider, req.Date, req.Notes)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "update health record", "id", existing.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update health record")
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "health record not found")
		return
	}

	h.feed.changed(existing.UserID, "health_record", "updated", rec.ID)
	writeJSON(w, http.StatusOK, rec)
}

func (h *HealthRecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.records.Delete(r.Context(), existing.UserID, existing.ID); err != nil {
		h.logger.ErrorContext(r.Context(), "delete health record", "id", existing.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete health record")
		return
	}

	h.feed.changed(existing.UserID, "health_record", "deleted", existing.ID)
	w.WriteHeader(http.StatusNoContent)
}
