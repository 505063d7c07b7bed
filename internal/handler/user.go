package handler

import (
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/Rohit-1301/Health/internal/auth"
	"github.com/Rohit-1301/Health/internal/model"
	"github.com/Rohit-1301/Health/internal/store"
)

type UserHandler struct {
	users  *store.UserStore
	logger *slog.Logger
}

func NewUserHandler(us *store.UserStore, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: us, logger: logger}
}

type createUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Create handles POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	existing, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "check user email", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}

	u, err := h.users.Create(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "create user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

// Get handles GET /api/users/{user_id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, u)
}

type updateUserRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"dateOfBirth"`
}

// Update handles PUT /api/users/{user_id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())

	var req updateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	name, phone, dob := u.Name, u.Phone, u.DateOfBirth
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
	}
	if req.Phone != nil {
		phone = strings.TrimSpace(*req.Phone)
	}
	if req.DateOfBirth != nil {
		dob = strings.TrimSpace(*req.DateOfBirth)
		if dob != "" {
			if _, err := model.ParseDate(dob); err != nil {
				writeError(w, http.StatusBadRequest, "dateOfBirth must be YYYY-MM-DD")
				return
			}
		}
	}

	updated, err := h.users.UpdateProfile(r.Context(), u.ID, name, phone, dob)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "update user", "user_id", u.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/users/{user_id}. Owned records go with the user.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if err := h.users.Delete(r.Context(), userID); err != nil {
		h.logger.ErrorContext(r.Context(), "delete user", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
