package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

const minPasswordLen = 8

// Handler exposes the credential endpoints. Register and Login are
// public; Me runs behind AuthMiddleware.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type credentials struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// decodeCredentials parses the request body and applies the checks
// shared by both endpoints. A non-empty problem string describes the
// first validation failure.
func decodeCredentials(r *http.Request) (credentials, string) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		return c, "invalid request body"
	}
	c.Email = strings.TrimSpace(c.Email)
	if c.Email == "" || c.Password == "" {
		return c, "email and password are required"
	}
	return c, ""
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	creds, problem := decodeCredentials(r)
	switch {
	case problem != "":
	case strings.TrimSpace(creds.DisplayName) == "":
		problem = "displayName is required"
	case len(creds.Password) < minPasswordLen:
		problem = "password must be at least 8 characters"
	}
	if problem != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": problem})
		return
	}

	result, err := h.service.Register(r.Context(), creds.Email, creds.Password, creds.DisplayName)
	if err != nil {
		handleAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	creds, problem := decodeCredentials(r)
	if problem != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": problem})
		return
	}

	result, err := h.service.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		handleAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Me returns the profile of the authenticated caller.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		handleAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmailTaken):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "email already registered"})
	case errors.Is(err, ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	case errors.Is(err, ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	default:
		slog.Error("auth request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
