package rides

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the persistence surface the ride service depends on.
type Store interface {
	Create(ctx context.Context, r *Ride) error
	GetByID(ctx context.Context, id string) (*Ride, error)
	List(ctx context.Context) ([]*Ride, error)
	Search(ctx context.Context, origin, destination string) ([]*Ride, error)
	// BookSeats atomically decrements seats_available and appends one
	// passenger row per seat. The decrement is conditioned on the ride
	// being active with enough seats left at write time, so concurrent
	// bookings for the last seats resolve with exactly one winner.
	BookSeats(ctx context.Context, rideID, userID string, seats int) (*Ride, error)
	Cancel(ctx context.Context, rideID string) (*Ride, error)
	Reviewable(ctx context.Context, userID string) ([]*ReviewableRide, error)
}

// PGStore is the PostgreSQL-backed Store.
type PGStore struct {
	db *pgxpool.Pool
}

// NewPGStore creates a ride store backed by the given pool.
func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

const rideColumns = `r.id, r.origin, r.destination, r.date, r."time", r.seats_available,
	r.price, r.description, r.status, r.created_at,
	u.id, u.name, u.email, u.phone`

func scanRide(row pgx.Row) (*Ride, error) {
	var r Ride
	err := row.Scan(&r.ID, &r.Origin, &r.Destination, &r.Date, &r.Time, &r.SeatsAvailable,
		&r.Price, &r.Description, &r.Status, &r.CreatedAt,
		&r.Driver.ID, &r.Driver.Name, &r.Driver.Email, &r.Driver.Phone)
	if err != nil {
		return nil, err
	}
	r.Passengers = []UserRef{}
	return &r, nil
}

// Create inserts a new ride. The caller sets the driver reference.
func (s *PGStore) Create(ctx context.Context, r *Ride) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO rides (id, driver_id, origin, destination, date, "time", seats_available, price, description, status)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		r.ID, r.Driver.ID, r.Origin, r.Destination, r.Date, r.Time,
		r.SeatsAvailable, r.Price, r.Description, r.Status)
	if err != nil {
		return fmt.Errorf("insert ride: %w", err)
	}
	return nil
}

// GetByID fetches a ride with the driver and the full passenger list resolved.
func (s *PGStore) GetByID(ctx context.Context, id string) (*Ride, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+rideColumns+` FROM rides r JOIN users u ON u.id = r.driver_id WHERE r.id=$1`, id)
	r, err := scanRide(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select ride: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT u.id, u.name, u.email
		 FROM ride_passengers p JOIN users u ON u.id = p.user_id
		 WHERE p.ride_id=$1 ORDER BY p.id`, id)
	if err != nil {
		return nil, fmt.Errorf("select passengers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p UserRef
		if err := rows.Scan(&p.ID, &p.Name, &p.Email); err != nil {
			return nil, fmt.Errorf("scan passenger: %w", err)
		}
		r.Passengers = append(r.Passengers, p)
	}
	return r, rows.Err()
}

// List returns all rides with driver identity resolved.
func (s *PGStore) List(ctx context.Context) ([]*Ride, error) {
	return s.queryRides(ctx,
		`SELECT `+rideColumns+` FROM rides r JOIN users u ON u.id = r.driver_id ORDER BY r.created_at DESC`)
}

// Search matches origin and/or destination by case-insensitive substring.
func (s *PGStore) Search(ctx context.Context, origin, destination string) ([]*Ride, error) {
	return s.queryRides(ctx,
		`SELECT `+rideColumns+` FROM rides r JOIN users u ON u.id = r.driver_id
		 WHERE r.origin ILIKE '%' || $1 || '%' AND r.destination ILIKE '%' || $2 || '%'
		 ORDER BY r.created_at DESC`,
		origin, destination)
}

func (s *PGStore) queryRides(ctx context.Context, query string, args ...any) ([]*Ride, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select rides: %w", err)
	}
	defer rows.Close()

	out := []*Ride{}
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ride: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// BookSeats performs the booking as a single transaction. The conditional
// UPDATE is the correctness point: it only matches while the ride is active
// with seats_available >= seats, and the row lock it takes serializes the
// duplicate-passenger re-check and the passenger inserts that follow.
func (s *PGStore) BookSeats(ctx context.Context, rideID, userID string, seats int) (*Ride, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin booking tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var remaining int
	var driverID string
	err = tx.QueryRow(ctx,
		`UPDATE rides SET seats_available = seats_available - $1
		 WHERE id=$2 AND status=$3 AND seats_available >= $1
		 RETURNING seats_available, driver_id`,
		seats, rideID, StatusActive).Scan(&remaining, &driverID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, s.bookFailure(ctx, rideID)
	}
	if err != nil {
		return nil, fmt.Errorf("decrement seats: %w", err)
	}

	if driverID == userID {
		return nil, ErrSelfBooking
	}

	var already bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM ride_passengers WHERE ride_id=$1 AND user_id=$2)`,
		rideID, userID).Scan(&already)
	if err != nil {
		return nil, fmt.Errorf("check existing booking: %w", err)
	}
	if already {
		return nil, ErrAlreadyBooked
	}

	for i := 0; i < seats; i++ {
		if _, err := tx.Exec(ctx,
			`INSERT INTO ride_passengers (ride_id, user_id) VALUES ($1,$2)`, rideID, userID); err != nil {
			return nil, fmt.Errorf("insert passenger: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking: %w", err)
	}
	return s.GetByID(ctx, rideID)
}

// bookFailure decides why the conditional update matched nothing.
func (s *PGStore) bookFailure(ctx context.Context, rideID string) error {
	var status string
	var available int
	err := s.db.QueryRow(ctx,
		`SELECT status, seats_available FROM rides WHERE id=$1`, rideID).Scan(&status, &available)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrRideNotFound
	}
	if err != nil {
		return fmt.Errorf("inspect ride: %w", err)
	}
	if status != StatusActive {
		return ErrRideNotActive
	}
	return &InsufficientSeatsError{Remaining: available}
}

// Cancel transitions an active ride to cancelled. Seats are not refunded
// and passenger rows stay in place.
func (s *PGStore) Cancel(ctx context.Context, rideID string) (*Ride, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE rides SET status=$1 WHERE id=$2 AND status=$3`,
		StatusCancelled, rideID, StatusActive)
	if err != nil {
		return nil, fmt.Errorf("cancel ride: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := s.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM rides WHERE id=$1)`, rideID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("inspect ride: %w", err)
		}
		if !exists {
			return nil, ErrRideNotFound
		}
		return nil, ErrRideNotActive
	}
	return s.GetByID(ctx, rideID)
}

// Reviewable returns completed rides where the user was driver or passenger,
// tagged with the role held.
func (s *PGStore) Reviewable(ctx context.Context, userID string) ([]*ReviewableRide, error) {
	asDriver, err := s.queryRides(ctx,
		`SELECT `+rideColumns+` FROM rides r JOIN users u ON u.id = r.driver_id
		 WHERE r.driver_id=$1 AND r.status=$2 ORDER BY r.created_at DESC`,
		userID, StatusCompleted)
	if err != nil {
		return nil, err
	}

	asPassenger, err := s.queryRides(ctx,
		`SELECT DISTINCT `+rideColumns+` FROM rides r
		 JOIN users u ON u.id = r.driver_id
		 JOIN ride_passengers p ON p.ride_id = r.id
		 WHERE p.user_id=$1 AND r.status=$2`,
		userID, StatusCompleted)
	if err != nil {
		return nil, err
	}

	out := []*ReviewableRide{}
	for _, r := range asDriver {
		out = append(out, &ReviewableRide{Ride: *r, UserRole: "driver"})
	}
	for _, r := range asPassenger {
		out = append(out, &ReviewableRide{Ride: *r, UserRole: "passenger"})
	}
	return out, nil
}
