package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"agenda/internal/auth"
	"agenda/internal/services"
)

// UserHandler handles HTTP requests for registration, login, the own profile
// and the shared directory.
type UserHandler struct {
	service services.UserServiceProvider
	tokens  *auth.TokenService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, tokens *auth.TokenService) *UserHandler {
	return &UserHandler{service: service, tokens: tokens}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phone    *string `json:"phone"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfilePayload defines the structure for profile updates. Pointer fields
// distinguish "absent" from "set to empty".
type ProfilePayload struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Register(r.Context(), payload.Name, payload.Email, payload.Password, payload.Phone)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// Login handles user authentication and token issuance.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Email == "" || payload.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.service.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
		respondError(w, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		log.Error().Err(err).Int("user_id", user.ID).Msg("Failed to issue token")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GetMe retrieves the currently authenticated user from the token.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	user, err := h.service.GetByID(r.Context(), claims.UserID)
	if err != nil {
		log.Warn().Err(err).Int("user_id", claims.UserID).Msg("User from token not found")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// UpdateProfile handles partial updates of the caller's own profile.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var payload ProfilePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), claims.UserID, payload.Name, payload.Phone)
	if err != nil {
		log.Warn().Err(err).Int("user_id", claims.UserID).Msg("Failed to update profile")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// Directory lists every registered user, sorted by name. Available to any
// authenticated caller.
func (h *UserHandler) Directory(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list directory")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, users)
}
