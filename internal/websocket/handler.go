package websocket

import (
	"log/slog"
	"net/http"
	"strconv"

	ws "github.com/coder/websocket"
)

// HandleWebSocket returns an HTTP handler that upgrades connections to
// WebSocket and runs them as Hub clients for the user named by the user_id
// query parameter.
func HandleWebSocket(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
		if err != nil || userID <= 0 {
			http.Error(w, "user_id query parameter required", http.StatusBadRequest)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.WarnContext(r.Context(), "websocket accept", "error", err)
			return
		}
		defer conn.CloseNow()

		logger.Debug("websocket connected", "user_id", userID)
		client := NewClient(hub, conn, userID)
		client.Run(r.Context())
		logger.Debug("websocket disconnected", "user_id", userID)
	}
}
