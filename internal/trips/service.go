package trips

import (
	"context"
	"sort"

	"github.com/caminoapp/camino-backend/internal/models"
	"github.com/caminoapp/camino-backend/pkg/apperr"
	"github.com/caminoapp/camino-backend/pkg/utils"
)

// Store is the persistence port the trip lifecycle requires.
type Store interface {
	Create(ctx context.Context, trip *models.Trip) error
	FindByID(ctx context.Context, id string) (*models.Trip, error)
	FindByStatusIn(ctx context.Context, statuses []models.TripStatus) ([]models.Trip, error)
	FindByIDsInStatus(ctx context.Context, ids []string, statuses []models.TripStatus) ([]models.Trip, error)
	FindByPassenger(ctx context.Context, passengerID string) ([]models.Trip, error)
	UpdateStatus(ctx context.Context, id string, from, to models.TripStatus) (*models.Trip, error)
}

// Index is an optional geo index over open trip pickups. It is a fast path
// only: candidates are always re-verified against the store and any index
// failure falls back to a full scan.
type Index interface {
	Add(ctx context.Context, tripID string, lat, lng float64) error
	Remove(ctx context.Context, tripID string) error
	Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]string, error)
}

// Service owns the trip state machine.
type Service struct {
	store Store
	index Index
}

func NewService(store Store, index Index) *Service {
	return &Service{store: store, index: index}
}

// OpenStatuses are the statuses in which a trip is discoverable by drivers
// and still accepting offers.
var OpenStatuses = []models.TripStatus{models.TripStatusCreated, models.TripStatusPublished}

// CreateInput carries the fields a passenger supplies when requesting a trip.
type CreateInput struct {
	PassengerID    string
	PickupLat      float64
	PickupLng      float64
	PickupAddress  string
	DropoffLat     float64
	DropoffLng     float64
	DropoffAddress string
	ProposedPrice  float64
	HasPets        bool
	MoreThanFour   bool
	Notes          string
	Type           models.ServiceType
}

func (in CreateInput) validate() error {
	fields := map[string]string{}
	if in.PassengerID == "" {
		fields["passenger_id"] = "required"
	}
	if in.ProposedPrice <= 0 {
		fields["proposed_price"] = "must be positive"
	}
	if in.PickupLat < -90 || in.PickupLat > 90 || in.DropoffLat < -90 || in.DropoffLat > 90 {
		fields["lat"] = "must be between -90 and 90"
	}
	if in.PickupLng < -180 || in.PickupLng > 180 || in.DropoffLng < -180 || in.DropoffLng > 180 {
		fields["lng"] = "must be between -180 and 180"
	}
	if in.PickupAddress == "" {
		fields["pickup_address"] = "required"
	}
	if in.DropoffAddress == "" {
		fields["dropoff_address"] = "required"
	}
	if in.Type != "" && !in.Type.IsValid() {
		fields["type"] = "must be 'trip' or 'delivery'"
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid trip", fields)
	}
	return nil
}

// Create produces a new trip in status CREATED with no driver and no final
// price bound.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Trip, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	serviceType := in.Type
	if serviceType == "" {
		serviceType = models.ServiceTypeTrip
	}

	trip := &models.Trip{
		PassengerID:    in.PassengerID,
		PickupLat:      in.PickupLat,
		PickupLng:      in.PickupLng,
		PickupAddress:  in.PickupAddress,
		DropoffLat:     in.DropoffLat,
		DropoffLng:     in.DropoffLng,
		DropoffAddress: in.DropoffAddress,
		ProposedPrice:  in.ProposedPrice,
		Status:         models.TripStatusCreated,
		HasPets:        in.HasPets,
		MoreThanFour:   in.MoreThanFour,
		Notes:          in.Notes,
		Type:           serviceType,
	}

	if err := s.store.Create(ctx, trip); err != nil {
		return nil, err
	}

	if s.index != nil {
		// Fast-path index only; a failure here never fails the request.
		_ = s.index.Add(ctx, trip.ID, trip.PickupLat, trip.PickupLng)
	}
	return trip, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Trip, error) {
	return s.store.FindByID(ctx, id)
}

func (s *Service) HistoryByPassenger(ctx context.Context, passengerID string) ([]models.Trip, error) {
	return s.store.FindByPassenger(ctx, passengerID)
}

// NearbyTrip pairs a trip with its distance from the query point.
type NearbyTrip struct {
	models.Trip
	DistanceKm float64 `json:"distance_km"`
}

// FindNearby returns open trips whose pickup lies within radiusKm of the
// center, closest first. The boundary is inclusive.
func (s *Service) FindNearby(ctx context.Context, lat, lng, radiusKm float64) ([]NearbyTrip, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, apperr.Validation("invalid coordinates", map[string]string{"lat_lng": "out of range"})
	}
	if radiusKm <= 0 {
		return nil, apperr.Validation("invalid radius", map[string]string{"radius": "must be positive"})
	}

	candidates, err := s.openCandidates(ctx, lat, lng, radiusKm)
	if err != nil {
		return nil, err
	}

	nearby := make([]NearbyTrip, 0, len(candidates))
	for _, trip := range candidates {
		distance := utils.HaversineDistance(lat, lng, trip.PickupLat, trip.PickupLng)
		if distance <= radiusKm {
			nearby = append(nearby, NearbyTrip{Trip: trip, DistanceKm: distance})
		}
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})
	return nearby, nil
}

// openCandidates prefers geo index candidates, re-verified against the
// store; any index trouble falls back to scanning all open trips. An empty
// answer also falls through: the index cannot tell "nothing nearby" apart
// from "never seeded", and the store is authoritative either way.
func (s *Service) openCandidates(ctx context.Context, lat, lng, radiusKm float64) ([]models.Trip, error) {
	if s.index != nil {
		ids, err := s.index.Nearby(ctx, lat, lng, radiusKm)
		if err == nil && len(ids) > 0 {
			return s.store.FindByIDsInStatus(ctx, ids, OpenStatuses)
		}
	}
	return s.store.FindByStatusIn(ctx, OpenStatuses)
}

// WarmIndex reseeds the geo index from the store's open trips. Run at
// startup so a restarted or flushed index catches up with trips created
// while it was away.
func (s *Service) WarmIndex(ctx context.Context) error {
	if s.index == nil {
		return nil
	}
	open, err := s.store.FindByStatusIn(ctx, OpenStatuses)
	if err != nil {
		return err
	}
	for i := range open {
		if err := s.index.Add(ctx, open[i].ID, open[i].PickupLat, open[i].PickupLng); err != nil {
			return err
		}
	}
	return nil
}

// UpdateStatus applies a generic lifecycle transition. actorID, when
// non-empty, must be the trip's passenger or its assigned driver.
func (s *Service) UpdateStatus(ctx context.Context, tripID string, next models.TripStatus, actorID string) (*models.Trip, error) {
	if !next.IsValid() {
		return nil, apperr.Validation("invalid status", map[string]string{"status": "unknown value"})
	}

	trip, err := s.store.FindByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if actorID != "" && !isParticipant(trip, actorID) {
		return nil, apperr.Forbidden("only trip participants can update its status")
	}
	if next == models.TripStatusAssigned {
		// Assignment only happens through offer acceptance.
		return nil, apperr.InvalidState("trips are assigned by accepting an offer")
	}
	if !trip.Status.CanTransitionTo(next) {
		return nil, apperr.InvalidState("cannot transition trip from " + string(trip.Status) + " to " + string(next))
	}

	updated, err := s.store.UpdateStatus(ctx, tripID, trip.Status, next)
	if err != nil {
		return nil, err
	}

	if s.index != nil && !updated.Status.AcceptsOffers() {
		_ = s.index.Remove(ctx, tripID)
	}
	return updated, nil
}

// RemoveFromIndex drops a trip from the geo index once it stops accepting
// offers through a path other than UpdateStatus, such as offer acceptance.
func (s *Service) RemoveFromIndex(ctx context.Context, tripID string) {
	if s.index != nil {
		_ = s.index.Remove(ctx, tripID)
	}
}

func isParticipant(trip *models.Trip, actorID string) bool {
	if trip.PassengerID == actorID {
		return true
	}
	return trip.DriverID != nil && *trip.DriverID == actorID
}
