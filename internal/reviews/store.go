package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrReviewNotFound is returned when a review id resolves to nothing.
var ErrReviewNotFound = errors.New("Review not found")

// Store is the persistence surface the review service depends on.
type Store interface {
	Create(ctx context.Context, n *NewReview) error
	GetByID(ctx context.Context, id string) (*Review, error)
	All(ctx context.Context) ([]*Review, error)
	ByRide(ctx context.Context, rideID string) ([]*Review, error)
	ByReviewer(ctx context.Context, userID string) ([]*Review, error)
	// ByDriver returns reviews attached to rides the user drove, where the
	// user is the reviewed party. ByPassenger is the passenger-side twin.
	ByDriver(ctx context.Context, userID string) ([]*Review, error)
	ByPassenger(ctx context.Context, userID string) ([]*Review, error)
}

// PGStore is the PostgreSQL-backed Store.
type PGStore struct {
	db *pgxpool.Pool
}

// NewPGStore creates a review store backed by the given pool.
func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

const reviewQuery = `
	SELECT v.id, v.rating, v.comment, v.role, v.created_at,
	       rer.id, rer.name, rer.email,
	       red.id, red.name, red.email,
	       r.id, r.origin, r.destination, r.date
	FROM reviews v
	JOIN users rer ON rer.id = v.reviewer_id
	JOIN users red ON red.id = v.reviewed_id
	LEFT JOIN rides r ON r.id = v.ride_id`

func scanReview(row pgx.Row) (*Review, error) {
	var v Review
	var rideID, origin, destination, date *string
	err := row.Scan(&v.ID, &v.Rating, &v.Comment, &v.Role, &v.CreatedAt,
		&v.Reviewer.ID, &v.Reviewer.Name, &v.Reviewer.Email,
		&v.Reviewed.ID, &v.Reviewed.Name, &v.Reviewed.Email,
		&rideID, &origin, &destination, &date)
	if err != nil {
		return nil, err
	}
	if rideID != nil {
		v.Ride = &RideRef{ID: *rideID, Origin: *origin, Destination: *destination, Date: *date}
	}
	return &v, nil
}

// Create inserts a review.
func (s *PGStore) Create(ctx context.Context, n *NewReview) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO reviews (id, reviewer_id, reviewed_id, ride_id, rating, comment, role)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		n.ID, n.ReviewerID, n.ReviewedID, n.RideID, n.Rating, n.Comment, n.Role)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// GetByID fetches a review with identities resolved.
func (s *PGStore) GetByID(ctx context.Context, id string) (*Review, error) {
	v, err := scanReview(s.db.QueryRow(ctx, reviewQuery+` WHERE v.id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select review: %w", err)
	}
	return v, nil
}

// All returns every review, newest first.
func (s *PGStore) All(ctx context.Context) ([]*Review, error) {
	return s.query(ctx, reviewQuery+` ORDER BY v.created_at DESC`)
}

// ByRide returns the reviews attached to a ride.
func (s *PGStore) ByRide(ctx context.Context, rideID string) ([]*Review, error) {
	return s.query(ctx, reviewQuery+` WHERE v.ride_id=$1 ORDER BY v.created_at DESC`, rideID)
}

// ByReviewer returns the reviews a user has written, newest first.
func (s *PGStore) ByReviewer(ctx context.Context, userID string) ([]*Review, error) {
	return s.query(ctx, reviewQuery+` WHERE v.reviewer_id=$1 ORDER BY v.created_at DESC`, userID)
}

// ByDriver returns reviews on the user's driven rides where they are reviewed.
func (s *PGStore) ByDriver(ctx context.Context, userID string) ([]*Review, error) {
	return s.query(ctx, reviewQuery+`
		WHERE v.reviewed_id=$1 AND r.driver_id=$1
		ORDER BY v.created_at DESC`, userID)
}

// ByPassenger returns reviews on rides the user rode in where they are reviewed.
func (s *PGStore) ByPassenger(ctx context.Context, userID string) ([]*Review, error) {
	return s.query(ctx, reviewQuery+`
		WHERE v.reviewed_id=$1
		  AND EXISTS (SELECT 1 FROM ride_passengers p WHERE p.ride_id = r.id AND p.user_id=$1)
		ORDER BY v.created_at DESC`, userID)
}

func (s *PGStore) query(ctx context.Context, query string, args ...any) ([]*Review, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select reviews: %w", err)
	}
	defer rows.Close()

	out := []*Review{}
	for rows.Next() {
		v, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
