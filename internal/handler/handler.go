// Package handler serves the JSON API for a user's health data.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Rohit-1301/Health/internal/websocket"
)

// CacheInvalidator drops derived per-user state after a write.
type CacheInvalidator interface {
	Invalidate(userID int64)
}

// changeFeed tells a user's live clients about a write and drops their
// cached calendar.
type changeFeed struct {
	hub      *websocket.Hub
	calendar CacheInvalidator
}

func (f changeFeed) changed(userID int64, entity, action string, id int64) {
	if f.calendar != nil {
		f.calendar.Invalidate(userID)
	}
	if f.hub != nil {
		f.hub.SendToUser(userID, websocket.NewMessage(entity, action, id, nil))
	}
}

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}
