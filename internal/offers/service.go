package offers

import (
	"context"

	"github.com/caminoapp/camino-backend/internal/models"
	"github.com/caminoapp/camino-backend/pkg/apperr"
	"github.com/caminoapp/camino-backend/pkg/utils"
)

// Store is the offer ledger port. Accept is transactional: it marks the
// offer accepted and assigns the trip under a row lock, so at most one
// offer per trip ever wins.
type Store interface {
	Create(ctx context.Context, offer *models.Offer) error
	FindByID(ctx context.Context, id string) (*models.Offer, error)
	FindByTrip(ctx context.Context, tripID string) ([]models.Offer, error)
	Accept(ctx context.Context, offerID, actorID string) (*models.Offer, *models.Trip, error)
}

// TripStore is the slice of trip persistence offers need.
type TripStore interface {
	FindByID(ctx context.Context, id string) (*models.Trip, error)
}

// Service keeps the ledger of driver offers against open trips.
type Service struct {
	store Store
	trips TripStore
}

func NewService(store Store, trips TripStore) *Service {
	return &Service{store: store, trips: trips}
}

// SubmitInput carries a driver's bid on a trip. DriverLat/DriverLng are the
// driver's current position, used to derive an ETA when none is given.
type SubmitInput struct {
	TripID        string
	DriverID      string
	Price         float64
	EstimatedTime *int
	DriverLat     *float64
	DriverLng     *float64
}

func (in SubmitInput) validate() error {
	fields := map[string]string{}
	if in.TripID == "" {
		fields["trip_id"] = "required"
	}
	if in.DriverID == "" {
		fields["driver_id"] = "required"
	}
	if in.Price <= 0 {
		fields["price"] = "must be positive"
	}
	if in.EstimatedTime != nil && *in.EstimatedTime < 0 {
		fields["estimated_time"] = "must not be negative"
	}
	if in.DriverLat != nil && (*in.DriverLat < -90 || *in.DriverLat > 90) {
		fields["driver_lat"] = "must be between -90 and 90"
	}
	if in.DriverLng != nil && (*in.DriverLng < -180 || *in.DriverLng > 180) {
		fields["driver_lng"] = "must be between -180 and 180"
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid offer", fields)
	}
	return nil
}

// Submit records a driver's offer against a trip that still accepts offers.
// An offer whose price differs from the passenger's proposal is marked as a
// counter-offer.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.Offer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	trip, err := s.trips.FindByID(ctx, in.TripID)
	if err != nil {
		return nil, err
	}
	if !trip.Status.AcceptsOffers() {
		return nil, apperr.InvalidState("trip is not accepting offers")
	}
	if trip.PassengerID == in.DriverID {
		return nil, apperr.Forbidden("cannot offer on your own trip")
	}

	estimated := in.EstimatedTime
	if estimated == nil && in.DriverLat != nil && in.DriverLng != nil {
		eta := utils.CalculateETA(
			utils.HaversineDistance(*in.DriverLat, *in.DriverLng, trip.PickupLat, trip.PickupLng), 0)
		estimated = &eta
	}

	offer := &models.Offer{
		TripID:         in.TripID,
		DriverID:       in.DriverID,
		Price:          in.Price,
		EstimatedTime:  estimated,
		IsCounterOffer: in.Price != trip.ProposedPrice,
	}
	if err := s.store.Create(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

// ListByTrip returns all offers recorded against the trip, newest first.
func (s *Service) ListByTrip(ctx context.Context, tripID string) ([]models.Offer, error) {
	if _, err := s.trips.FindByID(ctx, tripID); err != nil {
		return nil, err
	}
	return s.store.FindByTrip(ctx, tripID)
}

// Accept marks the offer accepted and assigns its driver and price to the
// trip. actorID must be the trip's passenger. Concurrent accepts on the same
// trip are serialized by the store; the loser sees a conflict.
func (s *Service) Accept(ctx context.Context, offerID, actorID string) (*models.Offer, *models.Trip, error) {
	if offerID == "" {
		return nil, nil, apperr.Validation("invalid offer", map[string]string{"offer_id": "required"})
	}
	return s.store.Accept(ctx, offerID, actorID)
}
