package auth

import "time"

// User represents an account. The password hash is never serialized.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone,omitempty"`
	Address      string     `json:"address,omitempty"`
	DOB          *time.Time `json:"dob,omitempty"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned on register / login.
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

// UpdateProfileRequest is the body for PUT /auth/users/{id}. Absent fields
// are left untouched; an explicitly empty dob clears it.
type UpdateProfileRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	DOB     *string `json:"dob,omitempty"`
}

// Stats is the payload for GET /auth/users/{id}/stats.
type Stats struct {
	TotalRides    int       `json:"totalRides"`
	TotalEarnings float64   `json:"totalEarnings"`
	AverageRating float64   `json:"averageRating"`
	MemberSince   time.Time `json:"memberSince"`
}
