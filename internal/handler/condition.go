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

type ConditionHandler struct {
	conditions *store.ConditionStore
	feed       changeFeed
	logger     *slog.Logger
}

func NewConditionHandler(cs *store.ConditionStore, hub *websocket.Hub, logger *slog.Logger) *ConditionHandler {
	return &ConditionHandler{conditions: cs, feed: changeFeed{hub: hub}, logger: logger}
}

type conditionRequest struct {
	Name          string              `json:"name"`
	Type          model.ConditionType `json:"type"`
	Severity      model.Severity      `json:"severity"`
	DiagnosedDate string              `json:"diagnosedDate"`
	IsActive      *bool               `json:"isActive"`
	Notes         string              `json:"notes"`
}

func (h *ConditionHandler) parseAndValidate(w http.ResponseWriter, r *http.Request) (store.ConditionParams, bool) {
	var req conditionRequest
	if !decodeJSON(w, r, &req) {
		return store.ConditionParams{}, false
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return store.ConditionParams{}, false
	}
	if req.Type != "" && !req.Type.Valid() {
		writeError(w, http.StatusBadRequest, "type must be condition, allergy or chronic")
		return store.ConditionParams{}, false
	}
	if req.Severity != "" && !req.Severity.Valid() {
		writeError(w, http.StatusBadRequest, "severity must be mild, moderate or severe")
		return store.ConditionParams{}, false
	}
	if req.DiagnosedDate != "" {
		if _, err := model.ParseDate(req.DiagnosedDate); err != nil {
			writeError(w, http.StatusBadRequest, "diagnosedDate must be YYYY-MM-DD")
			return store.ConditionParams{}, false
		}
	}

	return store.ConditionParams{
		Name:          req.Name,
		Type:          req.Type,
		Severity:      req.Severity,
		DiagnosedDate: req.DiagnosedDate,
		IsActive:      req.IsActive == nil || *req.IsActive,
		Notes:         strings.TrimSpace(req.Notes),
	}, true
}

func (h *ConditionHandler) List(w http.ResponseWriter, r *http.Request) {
	conds, err := h.conditions.ListByUser(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list conditions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list conditions")
		return
	}
	if conds == nil {
		conds = []model.Condition{}
	}
	writeJSON(w, http.StatusOK, conds)
}

func (h *ConditionHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := h.parseAndValidate(w, r)
	if !ok {
		return
	}

	userID := auth.UserID(r.Context())
	c, err := h.conditions.Create(r.Context(), userID, p)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "create condition", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create condition")
		return
	}

	h.feed.changed(userID, "condition", "created", c.ID)
	writeJSON(w, http.StatusCreated, c)
}

func (h *ConditionHandler) load(w http.ResponseWriter, r *http.Request) (*model.Condition, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}
	c, err := h.conditions.GetForUser(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "get condition", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get condition")
		return nil, false
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "condition not found")
		return nil, false
	}
	return c, true
}

func (h *ConditionHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ConditionHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.load(w, r)
	if !ok {
		return
	}
	p, ok := h.parseAndValidate(w, r)
	if !ok {
		return
	}
	if p.Type == "" {
		p.Type = existing.Type
	}
	if p.Severity == "" {
		p.Severity = existing.Severity
	}

	c, err := h.conditions.Update(r.Context(), existing.UserID, existing.ID, p)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "update condition", "id", existing.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update condition")
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "condition not found")
		return
	}

	h.feed.changed(existing.UserID, "condition", "updated", c.ID)
	writeJSON(w, http.StatusOK, c)
}

func (h *ConditionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.conditions.Delete(r.Context(), existing.UserID, existing.ID); err != nil {
		h.logger.ErrorContext(r.Context(), "delete condition", "id", existing.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete condition")
		return
	}

	h.feed.changed(existing.UserID, "condition", "deleted", existing.ID)
	w.WriteHeader(http.StatusNoContent)
}
