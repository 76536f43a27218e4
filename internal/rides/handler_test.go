package rides

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carpool-service/pkg/config"
	"carpool-service/pkg/jwt"
)

func newTestHandler(t *testing.T, store Store) (*Handler, *jwt.Manager) {
	t.Helper()
	tokens, err := jwt.NewManager(&config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", Expiration: time.Hour},
	})
	require.NoError(t, err)
	svc := NewService(store, nil, zap.NewNop())
	return NewHandler(svc, tokens, zap.NewNop()), tokens
}

func bearerToken(t *testing.T, tokens *jwt.Manager, userID string) string {
	t.Helper()
	tok, err := tokens.Generate(userID, userID+"@example.com")
	require.NoError(t, err)
	return "Bearer " + tok
}

func doJSON(t *testing.T, h http.Handler, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBookEndpoint_RequiresAuth(t *testing.T) {
	store := newFakeStore()
	h, _ := newTestHandler(t, store)
	router := h.Routes()

	rec := doJSON(t, router, http.MethodPost, "/some-ride/book", "", BookRequest{SeatsToBook: 1})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access denied")
}

func TestBookEndpoint_Succeeds(t *testing.T) {
	store := newFakeStore()
	h, tokens := newTestHandler(t, store)
	router := h.Routes()
	ride := seedRide(t, store, "driver-1", 3)

	rec := doJSON(t, router, http.MethodPost, "/"+ride.ID+"/book",
		bearerToken(t, tokens, "user-1"), BookRequest{SeatsToBook: 2})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp BookResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Ride booked successfully", resp.Message)
	assert.Equal(t, 2, resp.SeatsBooked)
	assert.Equal(t, 1, resp.Ride.SeatsAvailable)
	assert.Len(t, resp.Ride.Passengers, 2)
}

func TestBookEndpoint_ErrorStatuses(t *testing.T) {
	store := newFakeStore()
	h, tokens := newTestHandler(t, store)
	router := h.Routes()
	ride := seedRide(t, store, "driver-1", 1)

	// Driver booking their own ride.
	rec := doJSON(t, router, http.MethodPost, "/"+ride.ID+"/book",
		bearerToken(t, tokens, "driver-1"), BookRequest{SeatsToBook: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "You cannot book your own ride")

	// Unknown ride, even with a bad seat count.
	rec = doJSON(t, router, http.MethodPost, "/missing/book",
		bearerToken(t, tokens, "user-1"), BookRequest{SeatsToBook: 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/missing/book",
		bearerToken(t, tokens, "user-1"), BookRequest{SeatsToBook: 11})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Seat count out of range.
	rec = doJSON(t, router, http.MethodPost, "/"+ride.ID+"/book",
		bearerToken(t, tokens, "user-1"), BookRequest{SeatsToBook: 11})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Not enough seats.
	rec = doJSON(t, router, http.MethodPost, "/"+ride.ID+"/book",
		bearerToken(t, tokens, "user-1"), BookRequest{SeatsToBook: 1})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/"+ride.ID+"/book",
		bearerToken(t, tokens, "user-2"), BookRequest{SeatsToBook: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No seats available")
}

func TestCancelEndpoint(t *testing.T) {
	store := newFakeStore()
	h, tokens := newTestHandler(t, store)
	router := h.Routes()
	ride := seedRide(t, store, "driver-1", 2)

	rec := doJSON(t, router, http.MethodPut, "/"+ride.ID+"/cancel",
		bearerToken(t, tokens, "user-1"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/"+ride.ID+"/cancel",
		bearerToken(t, tokens, "driver-1"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CancelResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StatusCancelled, resp.Ride.Status)
}

func TestListAndGetEndpoints_Public(t *testing.T) {
	store := newFakeStore()
	h, _ := newTestHandler(t, store)
	router := h.Routes()
	ride := seedRide(t, store, "driver-1", 2)

	rec := doJSON(t, router, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/"+ride.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got Ride
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, ride.ID, got.ID)

	rec = doJSON(t, router, http.MethodGet, "/search?origin=ahmed&destination=", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var found []Ride
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	assert.Len(t, found, 1)
}

func TestJoinEndpoint(t *testing.T) {
	store := newFakeStore()
	h, tokens := newTestHandler(t, store)
	router := h.Routes()
	ride := seedRide(t, store, "driver-1", 2)

	rec := doJSON(t, router, http.MethodPost, "/join",
		bearerToken(t, tokens, "user-1"), JoinRequest{RideID: ride.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Successfully joined ride")

	current, err := store.GetByID(context.Background(), ride.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, current.SeatsAvailable)
}

func TestExpiredToken(t *testing.T) {
	store := newFakeStore()
	h, _ := newTestHandler(t, store)
	router := h.Routes()

	expired, err := jwt.NewManager(&config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", Expiration: -time.Minute},
	})
	require.NoError(t, err)
	tok, err := expired.Generate("user-1", "user-1@example.com")
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/some-ride/book", "Bearer "+tok, BookRequest{SeatsToBook: 1})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token expired")
}
