package rides

import (
	"errors"
	"fmt"
)

// Domain errors surfaced to the HTTP boundary. Messages are user-facing.
var (
	ErrRideNotFound  = errors.New("Ride not found")
	ErrSelfBooking   = errors.New("You cannot book your own ride")
	ErrAlreadyBooked = errors.New("Already booked this ride")
	ErrNotDriver     = errors.New("Only the driver can cancel the ride")
	ErrRideNotActive = errors.New("Ride is not active")
)

// InsufficientSeatsError reports the exact number of seats still available
// when a booking asks for more than the ride can take.
type InsufficientSeatsError struct {
	Remaining int
}

func (e *InsufficientSeatsError) Error() string {
	if e.Remaining == 0 {
		return "No seats available"
	}
	return fmt.Sprintf("Not enough seats available: %d remaining", e.Remaining)
}
