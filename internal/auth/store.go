package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the persistence surface the auth service depends on.
type Store interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, u *User) error
	Stats(ctx context.Context, userID string) (*Stats, error)
}

// PGStore is the PostgreSQL-backed Store.
type PGStore struct {
	db *pgxpool.Pool
}

// NewPGStore creates a user store backed by the given pool.
func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

const userColumns = `id, name, email, phone, address, dob, password_hash, created_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Address, &u.DOB, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. The unique index on lower(email) enforces
// case-insensitive email uniqueness at write time.
func (s *PGStore) Create(ctx context.Context, u *User) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash) VALUES ($1,$2,$3,$4)`,
		u.ID, u.Name, u.Email, u.PasswordHash)
	if isUniqueViolation(err) {
		return ErrEmailExists
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByEmail fetches a user by lowercased email.
func (s *PGStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email)=LOWER($1)`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user by email: %w", err)
	}
	return u, nil
}

// GetByID fetches a user by primary key.
func (s *PGStore) GetByID(ctx context.Context, id string) (*User, error) {
	u, err := scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

// Update writes the mutable profile fields.
func (s *PGStore) Update(ctx context.Context, u *User) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET name=$1, email=$2, phone=$3, address=$4, dob=$5, updated_at=NOW() WHERE id=$6`,
		u.Name, u.Email, u.Phone, u.Address, u.DOB, u.ID)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Stats aggregates ride participation, driver earnings, and the average
// rating the user has received.
func (s *PGStore) Stats(ctx context.Context, userID string) (*Stats, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	st := &Stats{MemberSince: u.CreatedAt}

	var driverRides, passengerRides int
	err = s.db.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM rides WHERE driver_id=$1),
			(SELECT COUNT(DISTINCT ride_id) FROM ride_passengers WHERE user_id=$1)`,
		userID).Scan(&driverRides, &passengerRides)
	if err != nil {
		return nil, fmt.Errorf("count rides: %w", err)
	}
	st.TotalRides = driverRides + passengerRides

	err = s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(r.price * booked.seats), 0)
		 FROM rides r
		 JOIN (SELECT ride_id, COUNT(*) AS seats FROM ride_passengers GROUP BY ride_id) booked
		   ON booked.ride_id = r.id
		 WHERE r.driver_id=$1`,
		userID).Scan(&st.TotalEarnings)
	if err != nil {
		return nil, fmt.Errorf("sum earnings: %w", err)
	}

	err = s.db.QueryRow(ctx,
		`SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE reviewed_id=$1`,
		userID).Scan(&st.AverageRating)
	if err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}

	return st, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
