package reviews

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"carpool-service/pkg/jwt"
	"carpool-service/pkg/validation"
)

// Handler exposes review HTTP endpoints.
type Handler struct {
	svc    *Service
	tokens *jwt.Manager
	log    *zap.Logger
}

// NewHandler wires a handler to the review service.
func NewHandler(svc *Service, tokens *jwt.Manager, log *zap.Logger) *Handler {
	return &Handler{svc: svc, tokens: tokens, log: log}
}

// Routes returns a chi.Router with all review routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	// Public reads
	r.Get("/all", h.All)
	r.Get("/ride/{rideId}", h.ByRide)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(h.tokens.RequireAuth)
		r.Post("/", h.Create)
		r.Get("/user", h.ByUser)
		r.Get("/user/{userId}", h.ByUser)
		r.Get("/driver/{userId}", h.ByDriver)
		r.Get("/passenger/{userId}", h.ByPassenger)
	})

	return r
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	review, err := h.svc.Create(r.Context(), claims.UserID, req)
	if err != nil {
		h.writeError(w, err, "Error creating review")
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.svc.All(r.Context())
	if err != nil {
		h.writeError(w, err, "Error fetching all reviews")
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *Handler) ByRide(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.svc.ByRide(r.Context(), chi.URLParam(r, "rideId"))
	if err != nil {
		h.writeError(w, err, "Error fetching reviews")
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// ByUser returns the authenticated user's own reviews. The {userId} path
// variant exists for route compatibility and resolves to the same user.
func (h *Handler) ByUser(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())

	reviews, err := h.svc.ByReviewer(r.Context(), claims.UserID)
	if err != nil {
		h.writeError(w, err, "Error fetching user reviews")
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *Handler) ByDriver(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.svc.ByDriver(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.writeError(w, err, "Error fetching driver reviews")
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *Handler) ByPassenger(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.svc.ByPassenger(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.writeError(w, err, "Error fetching passenger reviews")
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// writeError maps domain errors to the HTTP taxonomy.
func (h *Handler) writeError(w http.ResponseWriter, err error, internalMsg string) {
	var ve *validation.Error
	switch {
	case errors.Is(err, ErrReviewNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"message": err.Error()})
	case errors.As(err, &ve):
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
