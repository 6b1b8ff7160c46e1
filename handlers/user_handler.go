package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"studyTrackerAPI/internal/user"
	"studyTrackerAPI/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req user.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.userService.Register(ctx, &req)
	if err != nil {
		respondWithServiceError(w, err, "register user")
		return
	}

	respondWithJSON(w, http.StatusCreated, u)
}

// readLogin accepts either a JSON body or an OAuth2 style password form.
func readLogin(r *http.Request) (user.LoginRequest, bool) {
	var req user.LoginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, false
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return req, false
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	}
	req.Username = strings.TrimSpace(req.Username)
	return req, req.Username != "" && req.Password != ""
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	req, ok := readLogin(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, err := h.userService.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrInactiveUser) {
			w.Header().Set("WWW-Authenticate", "Bearer")
		}
		respondWithServiceError(w, err, "log in")
		return
	}

	respondWithJSON(w, http.StatusOK, token)
}

// Logout is stateless; the client drops its token.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	token := r.URL.Query().Get("token")
	if token == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'token' is required")
		return
	}

	u, err := h.userService.VerifyEmail(ctx, token)
	if err != nil {
		respondWithServiceError(w, err, "verify email")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Email verified successfully",
		"user":    u,
	})
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, ctx)
	if !ok {
		return
	}

	u, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		respondWithServiceError(w, err, "load profile")
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, ctx)
	if !ok {
		return
	}

	var req user.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.userService.UpdateProfile(ctx, userID, &req)
	if err != nil {
		respondWithServiceError(w, err, "update profile")
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, ctx)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(ctx, userID); err != nil {
		respondWithServiceError(w, err, "delete account")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
