package rides

import "time"

// Ride lifecycle states. Transitions are one-way: active→completed and
// active→cancelled; nothing leaves a terminal state.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Booking size limits for a single booking call.
const (
	MinSeatsPerBooking = 1
	MaxSeatsPerBooking = 10
)

// UserRef is the public projection of a user embedded in ride payloads.
// The password hash never appears here.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Ride represents a driver-offered trip with a fixed seat inventory.
// Passengers holds one entry per booked seat, so the same user appears
// once for every seat they booked.
type Ride struct {
	ID             string    `json:"id"`
	Driver         UserRef   `json:"driver"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	SeatsAvailable int       `json:"seatsAvailable"`
	Price          float64   `json:"price"`
	Description    string    `json:"description"`
	Status         string    `json:"status"`
	Passengers     []UserRef `json:"passengers"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ReviewableRide is a completed ride the user took part in, tagged with
// the role they held.
type ReviewableRide struct {
	Ride
	UserRole string `json:"userRole"`
}

// CreateRequest is the body for POST /rides.
type CreateRequest struct {
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	SeatsAvailable int     `json:"seatsAvailable"`
	Price          float64 `json:"price"`
	Description    string  `json:"description"`
}

// BookRequest is the body for POST /rides/{id}/book.
type BookRequest struct {
	SeatsToBook int `json:"seatsToBook"`
}

// JoinRequest is the body for the legacy POST /rides/join endpoint.
type JoinRequest struct {
	RideID string `json:"rideId"`
}

// BookResponse is returned on a successful booking.
type BookResponse struct {
	Message     string `json:"message"`
	SeatsBooked int    `json:"seatsBooked"`
	Ride        *Ride  `json:"ride"`
}

// CancelResponse is returned on a successful cancellation.
type CancelResponse struct {
	Message string `json:"message"`
	Ride    *Ride  `json:"ride"`
}
