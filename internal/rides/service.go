package rides

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"carpool-service/internal/events"
	"carpool-service/pkg/kafka"
	"carpool-service/pkg/metrics"
	"carpool-service/pkg/validation"
)

// Publisher sends domain events. Satisfied by *kafka.Client; nil disables publishing.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

// Service owns the ride lifecycle and the seat-booking engine.
type Service struct {
	store Store
	pub   Publisher
	log   *zap.Logger
}

// NewService creates a ride service.
func NewService(store Store, pub Publisher, log *zap.Logger) *Service {
	return &Service{store: store, pub: pub, log: log}
}

// Create validates and stores a new active ride owned by the driver.
func (s *Service) Create(ctx context.Context, driverID string, req CreateRequest) (*Ride, error) {
	if strings.TrimSpace(req.Origin) == "" || strings.TrimSpace(req.Destination) == "" {
		return nil, validation.Errorf("Origin and destination are required")
	}
	if strings.TrimSpace(req.Date) == "" || strings.TrimSpace(req.Time) == "" {
		return nil, validation.Errorf("Date and time are required")
	}
	if req.SeatsAvailable <= 0 {
		return nil, validation.Errorf("Seats available must be a positive number")
	}
	if req.Price <= 0 {
		return nil, validation.Errorf("Price must be a positive number")
	}

	ride := &Ride{
		ID:             uuid.New().String(),
		Driver:         UserRef{ID: driverID},
		Origin:         strings.TrimSpace(req.Origin),
		Destination:    strings.TrimSpace(req.Destination),
		Date:           strings.TrimSpace(req.Date),
		Time:           strings.TrimSpace(req.Time),
		SeatsAvailable: req.SeatsAvailable,
		Price:          req.Price,
		Description:    req.Description,
		Status:         StatusActive,
	}
	if err := s.store.Create(ctx, ride); err != nil {
		return nil, err
	}

	created, err := s.store.GetByID(ctx, ride.ID)
	if err != nil {
		return nil, err
	}

	s.publish(kafka.TopicRideCreated, created.ID, events.RideCreatedEvent{
		RideID:      created.ID,
		DriverID:    created.Driver.ID,
		Origin:      created.Origin,
		Destination: created.Destination,
		Seats:       created.SeatsAvailable,
		Price:       created.Price,
		CreatedAt:   created.CreatedAt.Format(time.RFC3339),
	})
	return created, nil
}

// GetByID fetches a single ride with identities resolved.
func (s *Service) GetByID(ctx context.Context, id string) (*Ride, error) {
	return s.store.GetByID(ctx, id)
}

// List returns every ride.
func (s *Service) List(ctx context.Context) ([]*Ride, error) {
	return s.store.List(ctx)
}

// Search matches rides by case-insensitive substring on origin and/or destination.
func (s *Service) Search(ctx context.Context, origin, destination string) ([]*Ride, error) {
	return s.store.Search(ctx, strings.TrimSpace(origin), strings.TrimSpace(destination))
}

// Reviewable returns completed rides the user participated in, tagged with role.
func (s *Service) Reviewable(ctx context.Context, userID string) ([]*ReviewableRide, error) {
	return s.store.Reviewable(ctx, userID)
}

// Book claims seatsToBook seats on a ride for the acting user.
//
// Preconditions run against a fresh read; the store then re-enforces the
// seat count and duplicate membership atomically at write time, so a race
// between two bookings for the last seats leaves exactly one winner and
// can never drive seats_available negative.
func (s *Service) Book(ctx context.Context, rideID, actorID string, seatsToBook int) (*Ride, error) {
	ride, err := s.store.GetByID(ctx, rideID)
	if err != nil {
		metrics.RecordBookingRejected("not_found")
		return nil, err
	}
	if seatsToBook < MinSeatsPerBooking || seatsToBook > MaxSeatsPerBooking {
		metrics.RecordBookingRejected("invalid_request")
		return nil, validation.Errorf("seatsToBook must be between %d and %d", MinSeatsPerBooking, MaxSeatsPerBooking)
	}
	if ride.Driver.ID == actorID {
		metrics.RecordBookingRejected("self_booking")
		return nil, ErrSelfBooking
	}
	for _, p := range ride.Passengers {
		if p.ID == actorID {
			metrics.RecordBookingRejected("already_booked")
			return nil, ErrAlreadyBooked
		}
	}
	if ride.Status != StatusActive {
		metrics.RecordBookingRejected("not_active")
		return nil, ErrRideNotActive
	}
	if ride.SeatsAvailable < seatsToBook {
		metrics.RecordBookingRejected("insufficient_seats")
		return nil, &InsufficientSeatsError{Remaining: ride.SeatsAvailable}
	}

	booked, err := s.store.BookSeats(ctx, rideID, actorID, seatsToBook)
	if err != nil {
		metrics.RecordBookingRejected(rejectionReason(err))
		return nil, err
	}
	metrics.BookingsAccepted.Inc()

	s.publish(kafka.TopicRideBooked, booked.ID, events.RideBookedEvent{
		RideID:         booked.ID,
		DriverID:       booked.Driver.ID,
		PassengerID:    actorID,
		SeatsBooked:    seatsToBook,
		SeatsRemaining: booked.SeatsAvailable,
		BookedAt:       time.Now().Format(time.RFC3339),
	})
	return booked, nil
}

// Join is the legacy single-seat booking path. It funnels into the same
// atomic booking primitive, which removes the old read-then-write race
// by construction.
func (s *Service) Join(ctx context.Context, rideID, actorID string) (*Ride, error) {
	return s.Book(ctx, rideID, actorID, 1)
}

// Cancel transitions an active ride to cancelled. Driver-only. Seats are
// not refunded and passenger rows stay in place; a second cancel fails
// because the ride is no longer active.
func (s *Service) Cancel(ctx context.Context, rideID, actorID string) (*Ride, error) {
	ride, err := s.store.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.Driver.ID != actorID {
		return nil, ErrNotDriver
	}

	cancelled, err := s.store.Cancel(ctx, rideID)
	if err != nil {
		return nil, err
	}

	passengerIDs := make([]string, 0, len(cancelled.Passengers))
	for _, p := range cancelled.Passengers {
		passengerIDs = append(passengerIDs, p.ID)
	}
	s.publish(kafka.TopicRideCancelled, cancelled.ID, events.RideCancelledEvent{
		RideID:      cancelled.ID,
		DriverID:    cancelled.Driver.ID,
		Passengers:  passengerIDs,
		CancelledAt: time.Now().Format(time.RFC3339),
	})
	return cancelled, nil
}

func rejectionReason(err error) string {
	var insufficient *InsufficientSeatsError
	switch {
	case errors.Is(err, ErrAlreadyBooked):
		return "already_booked"
	case errors.Is(err, ErrSelfBooking):
		return "self_booking"
	case errors.Is(err, ErrRideNotActive):
		return "not_active"
	case errors.As(err, &insufficient):
		return "insufficient_seats"
	default:
		return "error"
	}
}

func (s *Service) publish(topic, key string, ev any) {
	if s.pub == nil {
		return
	}
	go func() {
		if err := s.pub.Publish(context.Background(), topic, key, ev); err != nil {
			s.log.Error("failed to publish event", zap.String("topic", topic), zap.Error(err))
		}
	}()
}
