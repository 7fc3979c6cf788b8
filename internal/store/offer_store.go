package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/caminoapp/camino-backend/internal/models"
	"github.com/caminoapp/camino-backend/pkg/apperr"
)

// OfferStore persists offers in Postgres through GORM.
type OfferStore struct {
	db *gorm.DB
}

func NewOfferStore(db *gorm.DB) *OfferStore {
	return &OfferStore{db: db}
}

func (s *OfferStore) Create(ctx context.Context, offer *models.Offer) error {
	if err := s.db.WithContext(ctx).Create(offer).Error; err != nil {
		return apperr.Internal("failed to create offer", err)
	}
	return s.db.WithContext(ctx).Preload("Driver").First(offer, "id = ?", offer.ID).Error
}

func (s *OfferStore) FindByID(ctx context.Context, id string) (*models.Offer, error) {
	var offer models.Offer
	err := s.db.WithContext(ctx).Preload("Driver").First(&offer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("offer not found")
		}
		return nil, apperr.Internal("failed to fetch offer", err)
	}
	return &offer, nil
}

func (s *OfferStore) FindByTrip(ctx context.Context, tripID string) ([]models.Offer, error) {
	var offers []models.Offer
	err := s.db.WithContext(ctx).
		Preload("Driver").
		Where("trip_id = ?", tripID).
		Order("created_at DESC").
		Find(&offers).Error
	if err != nil {
		return nil, apperr.Internal("failed to fetch offers", err)
	}
	return offers, nil
}

// Accept marks the offer accepted and assigns its driver and price to the
// trip, in one transaction. The trip row is locked FOR UPDATE so concurrent
// acceptances on the same trip serialize: the first commits, the second
// observes ASSIGNED and fails with a conflict. actorID, when non-empty, must
// match the trip's passenger.
func (s *OfferStore) Accept(ctx context.Context, offerID, actorID string) (*models.Offer, *models.Trip, error) {
	var offer models.Offer
	var trip models.Trip

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&offer, "id = ?", offerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("offer not found")
			}
			return apperr.Internal("failed to fetch offer", err)
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&trip, "id = ?", offer.TripID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("trip not found")
			}
			return apperr.Internal("failed to fetch trip", err)
		}

		if actorID != "" && trip.PassengerID != actorID {
			return apperr.Forbidden("only the trip owner can accept an offer")
		}
		if offer.IsAccepted {
			return apperr.InvalidState("offer already accepted")
		}
		if !trip.Status.AcceptsOffers() {
			if trip.Status == models.TripStatusAssigned {
				return apperr.Conflict("trip already assigned")
			}
			return apperr.InvalidState("trip is not accepting offers")
		}

		if err := tx.Model(&models.Offer{}).
			Where("id = ?", offer.ID).
			Update("is_accepted", true).Error; err != nil {
			return apperr.Internal("failed to accept offer", err)
		}

		if err := tx.Model(&models.Trip{}).
			Where("id = ?", trip.ID).
			Updates(map[string]interface{}{
				"driver_id":   offer.DriverID,
				"final_price": offer.Price,
				"status":      models.TripStatusAssigned,
			}).Error; err != nil {
			return apperr.Internal("failed to assign driver", err)
		}

		offer.IsAccepted = true
		trip.DriverID = &offer.DriverID
		trip.FinalPrice = &offer.Price
		trip.Status = models.TripStatusAssigned
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	// Best effort reload for the response payload; the committed state above
	// is already correct.
	if loaded, err := s.FindByID(ctx, offer.ID); err == nil {
		offer = *loaded
	}
	return &offer, &trip, nil
}
