package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/caminoapp/camino-backend/internal/models"
	"github.com/caminoapp/camino-backend/pkg/apperr"
)

// TripStore persists trips in Postgres through GORM.
type TripStore struct {
	db *gorm.DB
}

func NewTripStore(db *gorm.DB) *TripStore {
	return &TripStore{db: db}
}

func (s *TripStore) Create(ctx context.Context, trip *models.Trip) error {
	if err := s.db.WithContext(ctx).Create(trip).Error; err != nil {
		return apperr.Internal("failed to create trip", err)
	}
	return s.preloadUsers(ctx, trip)
}

func (s *TripStore) FindByID(ctx context.Context, id string) (*models.Trip, error) {
	var trip models.Trip
	err := s.db.WithContext(ctx).
		Preload("Passenger").
		Preload("Driver").
		First(&trip, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("trip not found")
		}
		return nil, apperr.Internal("failed to fetch trip", err)
	}
	return &trip, nil
}

func (s *TripStore) FindByStatusIn(ctx context.Context, statuses []models.TripStatus) ([]models.Trip, error) {
	var trips []models.Trip
	err := s.db.WithContext(ctx).
		Preload("Passenger").
		Where("status IN ?", statuses).
		Find(&trips).Error
	if err != nil {
		return nil, apperr.Internal("failed to fetch trips", err)
	}
	return trips, nil
}

// FindByIDsInStatus loads the given trips, keeping only those still in one
// of the wanted statuses. Used to re-verify geo index candidates against the
// authoritative store.
func (s *TripStore) FindByIDsInStatus(ctx context.Context, ids []string, statuses []models.TripStatus) ([]models.Trip, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var trips []models.Trip
	err := s.db.WithContext(ctx).
		Preload("Passenger").
		Where("id IN ? AND status IN ?", ids, statuses).
		Find(&trips).Error
	if err != nil {
		return nil, apperr.Internal("failed to fetch trips", err)
	}
	return trips, nil
}

func (s *TripStore) FindByPassenger(ctx context.Context, passengerID string) ([]models.Trip, error) {
	var trips []models.Trip
	err := s.db.WithContext(ctx).
		Preload("Driver").
		Where("passenger_id = ?", passengerID).
		Order("created_at DESC").
		Find(&trips).Error
	if err != nil {
		return nil, apperr.Internal("failed to fetch passenger trips", err)
	}
	return trips, nil
}

func (s *TripStore) FindAll(ctx context.Context) ([]models.Trip, error) {
	var trips []models.Trip
	err := s.db.WithContext(ctx).
		Preload("Passenger").
		Preload("Driver").
		Order("created_at DESC").
		Find(&trips).Error
	if err != nil {
		return nil, apperr.Internal("failed to fetch trips", err)
	}
	return trips, nil
}

// UpdateStatus moves a trip from one status to another with a conditional
// write. If the row is no longer in the expected status the update matches
// nothing and the caller lost a race.
func (s *TripStore) UpdateStatus(ctx context.Context, id string, from, to models.TripStatus) (*models.Trip, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Trip{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return nil, apperr.Internal("failed to update trip status", result.Error)
	}
	if result.RowsAffected == 0 {
		// Either the id is unknown or another request changed the status
		// first. Re-read to tell the two apart.
		trip, err := s.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, apperr.Conflict("trip status changed concurrently, now " + string(trip.Status))
	}
	return s.FindByID(ctx, id)
}

func (s *TripStore) preloadUsers(ctx context.Context, trip *models.Trip) error {
	return s.db.WithContext(ctx).
		Preload("Passenger").
		Preload("Driver").
		First(trip, "id = ?", trip.ID).Error
}
