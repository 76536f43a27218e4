package rides

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"carpool-service/pkg/jwt"
	"carpool-service/pkg/validation"
)

// Handler exposes ride HTTP endpoints.
type Handler struct {
	svc    *Service
	tokens *jwt.Manager
	log    *zap.Logger
}

// NewHandler wires a handler to the ride service.
func NewHandler(svc *Service, tokens *jwt.Manager, log *zap.Logger) *Handler {
	return &Handler{svc: svc, tokens: tokens, log: log}
}

// Routes returns a chi.Router with all ride routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	// Public reads
	r.Get("/", h.List)
	r.Get("/search", h.Search)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(h.tokens.RequireAuth)
		r.Post("/", h.Create)
		r.Get("/user/{userId}/reviewable", h.Reviewable)
		r.Post("/join", h.Join)
		r.Post("/{id}/book", h.Book)
		r.Put("/{id}/cancel", h.Cancel)
	})

	// Must come after the specific routes.
	r.Get("/{id}", h.GetByID)

	return r
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	ride, err := h.svc.Create(r.Context(), claims.UserID, req)
	if err != nil {
		h.writeError(w, err, "Error creating ride")
		return
	}
	writeJSON(w, http.StatusCreated, ride)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rides, err := h.svc.List(r.Context())
	if err != nil {
		h.writeError(w, err, "Error fetching rides")
		return
	}
	writeJSON(w, http.StatusOK, rides)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	rides, err := h.svc.Search(r.Context(), r.URL.Query().Get("origin"), r.URL.Query().Get("destination"))
	if err != nil {
		h.writeError(w, err, "Error searching rides")
		return
	}
	writeJSON(w, http.StatusOK, rides)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	ride, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err, "Error fetching ride")
		return
	}
	writeJSON(w, http.StatusOK, ride)
}

func (h *Handler) Reviewable(w http.ResponseWriter, r *http.Request) {
	rides, err := h.svc.Reviewable(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.writeError(w, err, "Error fetching reviewable rides")
		return
	}
	writeJSON(w, http.StatusOK, rides)
}

func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())

	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	ride, err := h.svc.Book(r.Context(), chi.URLParam(r, "id"), claims.UserID, req.SeatsToBook)
	if err != nil {
		h.writeError(w, err, "Error booking ride")
		return
	}
	writeJSON(w, http.StatusOK, BookResponse{
		Message:     "Ride booked successfully",
		SeatsBooked: req.SeatsToBook,
		Ride:        ride,
	})
}

func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())

	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	ride, err := h.svc.Join(r.Context(), req.RideID, claims.UserID)
	if err != nil {
		h.writeError(w, err, "Error joining ride")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Successfully joined ride", "ride": ride})
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())

	ride, err := h.svc.Cancel(r.Context(), chi.URLParam(r, "id"), claims.UserID)
	if err != nil {
		h.writeError(w, err, "Error cancelling ride")
		return
	}
	writeJSON(w, http.StatusOK, CancelResponse{Message: "Ride cancelled successfully", Ride: ride})
}

// writeError maps domain errors to the HTTP taxonomy.
func (h *Handler) writeError(w http.ResponseWriter, err error, internalMsg string) {
	var ve *validation.Error
	var insufficient *InsufficientSeatsError
	switch {
	case errors.Is(err, ErrRideNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"message": err.Error()})
	case errors.Is(err, ErrNotDriver):
		writeJSON(w, http.StatusForbidden, map[string]string{"message": err.Error()})
	case errors.Is(err, ErrSelfBooking),
		errors.Is(err, ErrAlreadyBooked),
		errors.Is(err, ErrRideNotActive),
		errors.As(err, &insufficient),
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
