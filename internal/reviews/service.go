package reviews

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"carpool-service/pkg/validation"
)

// Service contains review business logic.
type Service struct {
	store Store
	log   *zap.Logger
}

// NewService creates a review service.
func NewService(store Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

// Create records a review by the authenticated user. The reviewed party
// defaults to the reviewer, keeping the testimonial behavior, but an
// explicit reviewedId is honored so peer review stays possible.
func (s *Service) Create(ctx context.Context, reviewerID string, req CreateRequest) (*Review, error) {
	if req.Rating == 0 || strings.TrimSpace(req.Comment) == "" || req.Role == "" {
		return nil, validation.Errorf("Rating, comment, and role are required")
	}
	if !validation.ValidateRating(req.Rating) {
		return nil, validation.Errorf("Rating must be an integer between 1 and 5")
	}
	if !validation.ValidateRole(req.Role) {
		return nil, validation.Errorf("Role must be either driver or passenger")
	}

	reviewedID := reviewerID
	if req.ReviewedID != "" {
		reviewedID = req.ReviewedID
	}
	var rideID *string
	if req.RideID != "" {
		rideID = &req.RideID
	}

	n := &NewReview{
		ID:         uuid.New().String(),
		ReviewerID: reviewerID,
		ReviewedID: reviewedID,
		RideID:     rideID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		Role:       req.Role,
	}
	if err := s.store.Create(ctx, n); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, n.ID)
}

// All returns every review, newest first.
func (s *Service) All(ctx context.Context) ([]*Review, error) {
	return s.store.All(ctx)
}

// ByRide returns the reviews attached to a ride.
func (s *Service) ByRide(ctx context.Context, rideID string) ([]*Review, error) {
	return s.store.ByRide(ctx, rideID)
}

// ByReviewer returns the reviews the user has written.
func (s *Service) ByReviewer(ctx context.Context, userID string) ([]*Review, error) {
	return s.store.ByReviewer(ctx, userID)
}

// ByDriver returns reviews about the user in their driver capacity.
// An empty list, not an error, when the user has no rides in that role.
func (s *Service) ByDriver(ctx context.Context, userID string) ([]*Review, error) {
	return s.store.ByDriver(ctx, userID)
}

// ByPassenger returns reviews about the user in their passenger capacity.
func (s *Service) ByPassenger(ctx context.Context, userID string) ([]*Review, error) {
	return s.store.ByPassenger(ctx, userID)
}
