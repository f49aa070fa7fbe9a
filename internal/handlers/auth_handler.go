package handlers

import (
	"encoding/json"
	"net/http"

	"pizza-service/internal/middleware"
	"pizza-service/internal/models"
	"pizza-service/internal/services"

	"github.com/rs/zerolog"
)

type AuthHandler struct {
	userService    *services.UserService
	sessionService *services.SessionService
	logger         zerolog.Logger
}

func NewAuthHandler(userService *services.UserService, sessionService *services.SessionService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		sessionService: sessionService,
		logger:         logger,
	}
}

// Register handles POST /api/auth.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	user, err := h.userService.Register(&req)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Registration failed")
		respondWithDomainError(w, err)
		return
	}

	token, err := h.sessionService.Issue(r.Context(), user)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, models.AuthResponse{
		User:  user,
		Token: token,
	})
}

// Login handles PUT /api/auth.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	user, err := h.userService.Authenticate(&req)
	if err != nil {
		h.logger.Warn().Str("email", req.Email).Msg("Login failed")
		respondWithDomainError(w, err)
		return
	}

	token, err := h.sessionService.Issue(r.Context(), user)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, models.AuthResponse{
		User:  user,
		Token: token,
	})
}

// Logout handles DELETE /api/auth. It reads the bearer token itself so a
// dead token fails here rather than in the auth middleware.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "Authorization header is required")
		return
	}

	if err := h.sessionService.Revoke(r.Context(), token); err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "logout successful",
	})
}
