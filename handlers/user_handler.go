package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go-places/middleware"
	"go-places/models"
	"go-places/services"
	"go-places/utils/errors"
)

// UserStore is the slice of the user service the handler needs.
type UserStore interface {
	Signup(ctx context.Context, name, email, password, imagePath string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	GetUsers(ctx context.Context) ([]models.User, error)
}

type UserHandler struct {
	userService UserStore
}

func NewUserHandler(userService UserStore) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.GetUsers(r.Context())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// Signup expects a multipart form with a profile image handled by the
// upload middleware.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if name == "" || !strings.Contains(email, "@") || len(password) < 6 {
		middleware.WriteError(w, r, errors.ErrInvalidInput)
		return
	}

	imagePath := middleware.UploadedFilePath(r)
	if imagePath == "" {
		middleware.WriteError(w, r, errors.ErrInvalidInput)
		return
	}

	result, err := h.userService.Signup(r.Context(), name, email, password, imagePath)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, r, errors.ErrInvalidInput)
		return
	}
	if input.Email == "" || input.Password == "" {
		middleware.WriteError(w, r, errors.ErrInvalidInput)
		return
	}

	result, err := h.userService.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
