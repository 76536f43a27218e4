package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"carpool-service/pkg/jwt"
	"carpool-service/pkg/validation"
)

// Handler exposes auth HTTP endpoints.
type Handler struct {
	svc    *Service
	tokens *jwt.Manager
	log    *zap.Logger
}

// NewHandler wires a handler to the auth service.
func NewHandler(svc *Service, tokens *jwt.Manager, log *zap.Logger) *Handler {
	return &Handler{svc: svc, tokens: tokens, log: log}
}

// Routes returns a chi.Router with all auth routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	// Public
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(h.tokens.RequireAuth)
		r.Put("/users/{id}", h.UpdateProfile)
		r.Get("/users/{id}/stats", h.Stats)
	})

	return r
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}
	resp, err := h.svc.Register(r.Context(), req)
	if err != nil {
		h.writeError(w, err, "Error registering user")
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}
	resp, err := h.svc.Login(r.Context(), req)
	if err != nil {
		h.writeError(w, err, "Error logging in")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), claims.UserID, chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeError(w, err, "Error updating profile")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Profile updated successfully", "user": u})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err, "Error fetching user stats")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// writeError maps domain errors to the HTTP taxonomy.
func (h *Handler) writeError(w http.ResponseWriter, err error, internalMsg string) {
	var ve *validation.Error
	switch {
	case errors.Is(err, ErrNotSelf):
		writeJSON(w, http.StatusForbidden, map[string]string{"message": err.Error()})
	case errors.Is(err, ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"message": err.Error()})
	case errors.Is(err, ErrEmailExists),
		errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrInvalidCredentials),
		errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
	default:
		h.log.Error(internalMsg, zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": internalMsg,
			"error":   err.Error(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
