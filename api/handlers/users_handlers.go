package handlers

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"crimedesk/core/store"
	"crimedesk/core/utils"
)

type UsersHandler struct {
	users  store.UsersStore
	logger *utils.Logger
}

func NewUsersHandler(users store.UsersStore, logger *utils.Logger) *UsersHandler {
	return &UsersHandler{users: users, logger: logger}
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		users []store.User
		err   error
	)
	if role := strings.TrimSpace(r.URL.Query().Get("role")); role != "" {
		users, err = h.users.ListUsersByRole(r.Context(), role)
	} else {
		users, err = h.users.ListUsers(r.Context())
	}
	if err != nil {
		h.logger.Errorf("list users: %v", err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []store.User{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Users fetched successfully",
		"users":   users,
	})
}

type createUserRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	StationID *int64 `json:"station_id"`
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, errBadRequest, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" ||
		req.Password == "" || strings.TrimSpace(req.Role) == "" {
		http.Error(w, "name, email, password and role are required", http.StatusBadRequest)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Errorf("create user: hash: %v", err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}
	user := &store.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		StationID:    req.StationID,
	}
	if _, err := h.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			http.Error(w, "email already registered", http.StatusConflict)
			return
		}
		h.logger.Errorf("create user: %v", err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    user,
	})
}
