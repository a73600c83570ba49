package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"agenda/internal/auth"
	"agenda/internal/services"
)

// ContactHandler handles HTTP requests for the caller's personal contacts.
type ContactHandler struct {
	service services.ContactServiceProvider
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service services.ContactServiceProvider) *ContactHandler {
	return &ContactHandler{service: service}
}

// ContactPayload defines the structure for contact create/update requests,
// using the original wire field names.
type ContactPayload struct {
	Name   string  `json:"nome"`
	Number string  `json:"numero"`
	Email  *string `json:"email"`
	Notes  *string `json:"observacoes"`
}

// Create handles adding a contact to the caller's phonebook.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var payload ContactPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	contact, err := h.service.Add(r.Context(), claims.UserID, payload.Name, payload.Number, payload.Email, payload.Notes)
	if err != nil {
		log.Warn().Err(err).Int("user_id", claims.UserID).Msg("Failed to add contact")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, contact)
}

// List handles listing the caller's contacts, optionally filtered by the
// search query parameter.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	contacts, err := h.service.List(r.Context(), claims.UserID, r.URL.Query().Get("search"))
	if err != nil {
		log.Error().Err(err).Int("user_id", claims.UserID).Msg("Failed to list contacts")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, contacts)
}

// Get handles retrieving a single contact by ID.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	contactID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	contact, err := h.service.Get(r.Context(), claims.UserID, contactID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, contact)
}

// Update handles replacing a contact's fields.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	contactID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	var payload ContactPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	contact, err := h.service.Update(r.Context(), claims.UserID, contactID, payload.Name, payload.Number, payload.Email, payload.Notes)
	if err != nil {
		log.Warn().Err(err).Int("user_id", claims.UserID).Int("contact_id", contactID).Msg("Failed to update contact")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, contact)
}

// Delete handles removing a contact from the caller's phonebook.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	contactID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	if err := h.service.Delete(r.Context(), claims.UserID, contactID); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
