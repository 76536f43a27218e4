package reviews

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carpool-service/pkg/validation"
)

// fakeReviewStore is an in-memory Store. Ride membership for the
// driver/passenger queries is configured through driverRides and
// passengerRides.
type fakeReviewStore struct {
	mu             sync.Mutex
	reviews        map[string]*Review
	driverRides    map[string][]string // userID → ride ids driven
	passengerRides map[string][]string // userID → ride ids ridden
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{
		reviews:        map[string]*Review{},
		driverRides:    map[string][]string{},
		passengerRides: map[string][]string{},
	}
}

func (f *fakeReviewStore) Create(_ context.Context, n *NewReview) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := &Review{
		ID:        n.ID,
		Reviewer:  UserRef{ID: n.ReviewerID},
		Reviewed:  UserRef{ID: n.ReviewedID},
		Rating:    n.Rating,
		Comment:   n.Comment,
		Role:      n.Role,
		CreatedAt: time.Now(),
	}
	if n.RideID != nil {
		v.Ride = &RideRef{ID: *n.RideID}
	}
	f.reviews[n.ID] = v
	return nil
}

func (f *fakeReviewStore) GetByID(_ context.Context, id string) (*Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.reviews[id]
	if !ok {
		return nil, ErrReviewNotFound
	}
	out := *v
	return &out, nil
}

func (f *fakeReviewStore) All(_ context.Context) ([]*Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*Review{}
	for _, v := range f.reviews {
		c := *v
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeReviewStore) ByRide(_ context.Context, rideID string) ([]*Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*Review{}
	for _, v := range f.reviews {
		if v.Ride != nil && v.Ride.ID == rideID {
			c := *v
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeReviewStore) ByReviewer(_ context.Context, userID string) ([]*Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*Review{}
	for _, v := range f.reviews {
		if v.Reviewer.ID == userID {
			c := *v
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeReviewStore) ByDriver(ctx context.Context, userID string) ([]*Review, error) {
	return f.byRole(userID, f.driverRides[userID])
}

func (f *fakeReviewStore) ByPassenger(ctx context.Context, userID string) ([]*Review, error) {
	return f.byRole(userID, f.passengerRides[userID])
}

func (f *fakeReviewStore) byRole(userID string, rideIDs []string) ([]*Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := map[string]bool{}
	for _, id := range rideIDs {
		ids[id] = true
	}
	out := []*Review{}
	for _, v := range f.reviews {
		if v.Reviewed.ID == userID && v.Ride != nil && ids[v.Ride.ID] {
			c := *v
			out = append(out, &c)
		}
	}
	return out, nil
}

func newTestService(store Store) *Service {
	return NewService(store, zap.NewNop())
}

func TestCreateReview_DefaultsToSelf(t *testing.T) {
	store := newFakeReviewStore()
	svc := newTestService(store)

	review, err := svc.Create(context.Background(), "user-1", CreateRequest{
		Rating: 5, Comment: "Smooth trip, friendly passengers", Role: RoleDriver,
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", review.Reviewer.ID)
	assert.Equal(t, "user-1", review.Reviewed.ID)
	assert.Nil(t, review.Ride)
}

func TestCreateReview_ExplicitReviewedAndRide(t *testing.T) {
	store := newFakeReviewStore()
	svc := newTestService(store)

	review, err := svc.Create(context.Background(), "user-1", CreateRequest{
		Rating: 4, Comment: "Great driver", Role: RolePassenger,
		ReviewedID: "driver-9", RideID: "ride-7",
	})
	require.NoError(t, err)
	assert.Equal(t, "driver-9", review.Reviewed.ID)
	require.NotNil(t, review.Ride)
	assert.Equal(t, "ride-7", review.Ride.ID)
}

func TestCreateReview_Validation(t *testing.T) {
	svc := newTestService(newFakeReviewStore())
	ctx := context.Background()

	cases := []struct {
		name string
		req  CreateRequest
	}{
		{"missing rating", CreateRequest{Comment: "ok", Role: RoleDriver}},
		{"missing comment", CreateRequest{Rating: 3, Role: RoleDriver}},
		{"blank comment", CreateRequest{Rating: 3, Comment: "   ", Role: RoleDriver}},
		{"missing role", CreateRequest{Rating: 3, Comment: "ok"}},
		{"rating too high", CreateRequest{Rating: 6, Comment: "ok", Role: RoleDriver}},
		{"rating too low", CreateRequest{Rating: -1, Comment: "ok", Role: RoleDriver}},
		{"bad role", CreateRequest{Rating: 3, Comment: "ok", Role: "owner"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "user-1", tc.req)
			var ve *validation.Error
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestCreateReview_NoDuplicatePrevention(t *testing.T) {
	store := newFakeReviewStore()
	svc := newTestService(store)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), "user-1", CreateRequest{
			Rating: 5, Comment: "again", Role: RolePassenger,
		})
		require.NoError(t, err)
	}
	all, err := svc.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestReviewsByRole(t *testing.T) {
	store := newFakeReviewStore()
	svc := newTestService(store)

	store.driverRides["driver-1"] = []string{"ride-1"}
	store.passengerRides["user-2"] = []string{"ride-1"}

	_, err := svc.Create(context.Background(), "user-2", CreateRequest{
		Rating: 5, Comment: "great car", Role: RolePassenger,
		ReviewedID: "driver-1", RideID: "ride-1",
	})
	require.NoError(t, err)

	asDriver, err := svc.ByDriver(context.Background(), "driver-1")
	require.NoError(t, err)
	require.Len(t, asDriver, 1)
	assert.Equal(t, "driver-1", asDriver[0].Reviewed.ID)

	// A user with no rides in the role gets an empty list, not an error.
	none, err := svc.ByDriver(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Empty(t, none)

	none, err = svc.ByPassenger(context.Background(), "stranger")
	require.NoError(t, err)
	assert.Empty(t, none)
}
