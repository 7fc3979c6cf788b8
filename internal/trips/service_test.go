package trips

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caminoapp/camino-backend/internal/models"
	"github.com/caminoapp/camino-backend/pkg/apperr"
)

type fakeStore struct {
	trips map[string]*models.Trip
}

func newFakeStore() *fakeStore {
	return &fakeStore{trips: make(map[string]*models.Trip)}
}

func (f *fakeStore) Create(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.NewString()
	}
	copied := *trip
	f.trips[trip.ID] = &copied
	return nil
}

func (f *fakeStore) FindByID(ctx context.Context, id string) (*models.Trip, error) {
	trip, ok := f.trips[id]
	if !ok {
		return nil, apperr.NotFound("trip not found")
	}
	copied := *trip
	return &copied, nil
}

func (f *fakeStore) FindByStatusIn(ctx context.Context, statuses []models.TripStatus) ([]models.Trip, error) {
	var out []models.Trip
	for _, trip := range f.trips {
		for _, s := range statuses {
			if trip.Status == s {
				out = append(out, *trip)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) FindByIDsInStatus(ctx context.Context, ids []string, statuses []models.TripStatus) ([]models.Trip, error) {
	var out []models.Trip
	for _, id := range ids {
		trip, ok := f.trips[id]
		if !ok {
			continue
		}
		for _, s := range statuses {
			if trip.Status == s {
				out = append(out, *trip)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) FindByPassenger(ctx context.Context, passengerID string) ([]models.Trip, error) {
	var out []models.Trip
	for _, trip := range f.trips {
		if trip.PassengerID == passengerID {
			out = append(out, *trip)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id string, from, to models.TripStatus) (*models.Trip, error) {
	trip, ok := f.trips[id]
	if !ok {
		return nil, apperr.NotFound("trip not found")
	}
	if trip.Status != from {
		return nil, apperr.Conflict("trip was updated concurrently")
	}
	trip.Status = to
	copied := *trip
	return &copied, nil
}

func validInput(passengerID string) CreateInput {
	return CreateInput{
		PassengerID:    passengerID,
		PickupLat:      40.7128,
		PickupLng:      -74.0060,
		PickupAddress:  "Times Square",
		DropoffLat:     40.6413,
		DropoffLng:     -73.7781,
		DropoffAddress: "JFK Airport",
		ProposedPrice:  25.0,
	}
}

func TestService_Create(t *testing.T) {
	svc := NewService(newFakeStore(), nil)

	trip, err := svc.Create(context.Background(), validInput("p1"))
	require.NoError(t, err)

	assert.Equal(t, models.TripStatusCreated, trip.Status)
	assert.Nil(t, trip.DriverID)
	assert.Nil(t, trip.FinalPrice)
	assert.Equal(t, models.ServiceTypeTrip, trip.Type)
}

func TestService_Create_Invalid(t *testing.T) {
	svc := NewService(newFakeStore(), nil)

	tests := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"zero price", func(in *CreateInput) { in.ProposedPrice = 0 }},
		{"negative price", func(in *CreateInput) { in.ProposedPrice = -3 }},
		{"latitude out of range", func(in *CreateInput) { in.PickupLat = 91 }},
		{"longitude out of range", func(in *CreateInput) { in.DropoffLng = -181 }},
		{"missing pickup address", func(in *CreateInput) { in.PickupAddress = "" }},
		{"unknown service type", func(in *CreateInput) { in.Type = "flight" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput("p1")
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), in)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		})
	}
}

func TestService_FindNearby(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	near, err := svc.Create(context.Background(), validInput("p1"))
	require.NoError(t, err)

	farInput := validInput("p2")
	farInput.PickupLat = 34.0522
	farInput.PickupLng = -118.2437
	_, err = svc.Create(context.Background(), farInput)
	require.NoError(t, err)

	found, err := svc.FindNearby(context.Background(), 40.713, -74.006, 5)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, near.ID, found[0].ID)
	assert.Less(t, found[0].DistanceKm, 5.0)
}

func TestService_FindNearby_ExcludesClosedTrips(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	trip, err := svc.Create(context.Background(), validInput("p1"))
	require.NoError(t, err)
	store.trips[trip.ID].Status = models.TripStatusCompleted

	found, err := svc.FindNearby(context.Background(), 40.713, -74.006, 5)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestService_FindNearby_SortedByDistance(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	farther := validInput("p1")
	farther.PickupLat = 40.75
	_, err := svc.Create(context.Background(), farther)
	require.NoError(t, err)

	closer := validInput("p2")
	closer.PickupLat = 40.715
	closerTrip, err := svc.Create(context.Background(), closer)
	require.NoError(t, err)

	found, err := svc.FindNearby(context.Background(), 40.7128, -74.0060, 10)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, closerTrip.ID, found[0].ID)
	assert.LessOrEqual(t, found[0].DistanceKm, found[1].DistanceKm)
}

type fakeIndex struct {
	ids     []string
	nearby  []string
	errNext error
}

func (f *fakeIndex) Add(ctx context.Context, tripID string, lat, lng float64) error {
	f.ids = append(f.ids, tripID)
	return nil
}

func (f *fakeIndex) Remove(ctx context.Context, tripID string) error {
	return nil
}

func (f *fakeIndex) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]string, error) {
	if f.errNext != nil {
		return nil, f.errNext
	}
	return f.nearby, nil
}

func TestService_FindNearby_EmptyIndexFallsBackToStore(t *testing.T) {
	store := newFakeStore()

	// Trip written while the index was away: the store knows it, the
	// index does not.
	seeded := NewService(store, nil)
	trip, err := seeded.Create(context.Background(), validInput("p1"))
	require.NoError(t, err)

	svc := NewService(store, &fakeIndex{nearby: nil})
	found, err := svc.FindNearby(context.Background(), 40.713, -74.006, 5)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, trip.ID, found[0].ID)
}

func TestService_FindNearby_IndexErrorFallsBackToStore(t *testing.T) {
	store := newFakeStore()
	seeded := NewService(store, nil)
	trip, err := seeded.Create(context.Background(), validInput("p1"))
	require.NoError(t, err)

	svc := NewService(store, &fakeIndex{errNext: errors.New("connection refused")})
	found, err := svc.FindNearby(context.Background(), 40.713, -74.006, 5)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, trip.ID, found[0].ID)
}

func TestService_WarmIndex_SeedsOpenTripsOnly(t *testing.T) {
	store := newFakeStore()
	seeded := NewService(store, nil)

	open, err := seeded.Create(context.Background(), validInput("p1"))
	require.NoError(t, err)
	closed, err := seeded.Create(context.Background(), validInput("p2"))
	require.NoError(t, err)
	store.trips[closed.ID].Status = models.TripStatusCompleted

	index := &fakeIndex{}
	svc := NewService(store, index)
	require.NoError(t, svc.WarmIndex(context.Background()))

	assert.Equal(t, []string{open.ID}, index.ids)
}

func TestService_FindNearby_Idempotent(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	_, err := svc.Create(context.Background(), validInput("p1"))
	require.NoError(t, err)

	first, err := svc.FindNearby(context.Background(), 40.713, -74.006, 5)
	require.NoError(t, err)
	second, err := svc.FindNearby(context.Background(), 40.713, -74.006, 5)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestService_FindNearby_InvalidRadius(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	_, err := svc.FindNearby(context.Background(), 40.713, -74.006, 0)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestService_UpdateStatus(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	trip, err := svc.Create(context.Background(), validInput("p1"))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), trip.ID, models.TripStatusPublished, "p1")
	require.NoError(t, err)
	assert.Equal(t, models.TripStatusPublished, updated.Status)
}

func TestService_UpdateStatus_IllegalTransition(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	trip, err := svc.Create(context.Background(), validInput("p1"))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), trip.ID, models.TripStatusCompleted, "p1")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
}

func TestService_UpdateStatus_AssignRejected(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	trip, err := svc.Create(context.Background(), validInput("p1"))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), trip.ID, models.TripStatusAssigned, "p1")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
}

func TestService_UpdateStatus_NonParticipant(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	trip, err := svc.Create(context.Background(), validInput("p1"))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), trip.ID, models.TripStatusPublished, "stranger")
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestService_UpdateStatus_CancelKeepsFields(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	trip, err := svc.Create(context.Background(), validInput("p1"))
	require.NoError(t, err)

	cancelled, err := svc.UpdateStatus(context.Background(), trip.ID, models.TripStatusCancelled, "p1")
	require.NoError(t, err)
	assert.Equal(t, models.TripStatusCancelled, cancelled.Status)
	assert.Equal(t, trip.ProposedPrice, cancelled.ProposedPrice)
	assert.Equal(t, trip.PickupAddress, cancelled.PickupAddress)
}

func TestService_UpdateStatus_NotFound(t *testing.T) {
	svc := NewService(newFakeStore(), nil)

	_, err := svc.UpdateStatus(context.Background(), "missing", models.TripStatusPublished, "p1")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
