package auth

import "errors"

// Domain errors surfaced to the HTTP boundary. Messages are user-facing.
var (
	// ErrEmailExists is the register-time uniqueness conflict.
	ErrEmailExists = errors.New("User with this email already exists")
	// ErrEmailTaken is the profile-update uniqueness conflict.
	ErrEmailTaken = errors.New("Email is already taken")
	// ErrInvalidCredentials is deliberately uniform for unknown email and
	// wrong password, to resist user enumeration.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrUserNotFound       = errors.New("User not found")
	ErrNotSelf            = errors.New("You can only update your own profile")
)
