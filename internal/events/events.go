package events

// RideCreatedEvent is published to ride.created.
type RideCreatedEvent struct {
	RideID      string  `json:"ride_id"`
	DriverID    string  `json:"driver_id"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Seats       int     `json:"seats"`
	Price       float64 `json:"price"`
	CreatedAt   string  `json:"created_at"`
}

// RideBookedEvent is published to ride.booked.
type RideBookedEvent struct {
	RideID         string `json:"ride_id"`
	DriverID       string `json:"driver_id"`
	PassengerID    string `json:"passenger_id"`
	SeatsBooked    int    `json:"seats_booked"`
	SeatsRemaining int    `json:"seats_remaining"`
	BookedAt       string `json:"booked_at"`
}

// RideCancelledEvent is published to ride.cancelled.
type RideCancelledEvent struct {
	RideID      string   `json:"ride_id"`
	DriverID    string   `json:"driver_id"`
	Passengers  []string `json:"passengers"`
	CancelledAt string   `json:"cancelled_at"`
}
