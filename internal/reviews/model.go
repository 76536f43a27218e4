package reviews

import "time"

// Roles a reviewer can rate themselves in.
const (
	RoleDriver    = "driver"
	RolePassenger = "passenger"
)

// UserRef is the public projection of a user embedded in review payloads.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RideRef is the slim ride projection attached to a review.
type RideRef struct {
	ID          string `json:"id"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
}

// Review is a free-form rating. Reviews are immutable once created.
type Review struct {
	ID        string    `json:"id"`
	Reviewer  UserRef   `json:"reviewer"`
	Reviewed  UserRef   `json:"reviewed"`
	Ride      *RideRef  `json:"ride,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateRequest is the body for POST /reviews. The reviewed user defaults
// to the reviewer when reviewedId is absent; the ride reference is optional.
type CreateRequest struct {
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	Role       string `json:"role"`
	RideID     string `json:"rideId,omitempty"`
	ReviewedID string `json:"reviewedId,omitempty"`
}

// NewReview is the record handed to the store on creation.
type NewReview struct {
	ID         string
	ReviewerID string
	ReviewedID string
	RideID     *string
	Rating     int
	Comment    string
	Role       string
}
