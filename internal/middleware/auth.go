package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Rohit-1301/Health/internal/auth"
	"github.com/Rohit-1301/Health/internal/model"
)

// UserGetter looks a user up by ID. It returns (nil, nil) when absent.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// RequireUser resolves the {user_id} path value to a stored user and puts it
// in the request context. Unknown users get 404; malformed IDs get 400.
func RequireUser(users UserGetter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseInt(r.PathValue("user_id"), 10, 64)
			if err != nil || id <= 0 {
				writeError(w, http.StatusBadRequest, "invalid user id")
				return
			}

			u, err := users.GetByID(r.Context(), id)
			if err != nil {
				logger.ErrorContext(r.Context(), "resolve user", "user_id", id, "error", err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if u == nil {
				writeError(w, http.StatusNotFound, "user not found")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), u)))
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
