package database

import (
	"gorm.io/gorm"

	"github.com/caminoapp/camino-backend/internal/models"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Trip{},
		&models.Offer{},
	)
	if err != nil {
		return err
	}

	// Enum-style check constraints. AutoMigrate doesn't manage these, so
	// recreate them idempotently.
	db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_role_check`)
	if err := db.Exec(`ALTER TABLE users ADD CONSTRAINT users_role_check CHECK (role IN ('passenger', 'driver', 'admin'))`).Error; err != nil {
		return err
	}

	db.Exec(`ALTER TABLE trips DROP CONSTRAINT IF EXISTS trips_status_check`)
	if err := db.Exec(`ALTER TABLE trips ADD CONSTRAINT trips_status_check CHECK (status IN ('CREATED', 'PUBLISHED', 'ASSIGNED', 'IN_PROGRESS', 'COMPLETED', 'CANCELLED'))`).Error; err != nil {
		return err
	}

	db.Exec(`ALTER TABLE trips DROP CONSTRAINT IF EXISTS trips_type_check`)
	if err := db.Exec(`ALTER TABLE trips ADD CONSTRAINT trips_type_check CHECK (type IN ('trip', 'delivery'))`).Error; err != nil {
		return err
	}

	db.Exec(`ALTER TABLE trips DROP CONSTRAINT IF EXISTS trips_proposed_price_check`)
	if err := db.Exec(`ALTER TABLE trips ADD CONSTRAINT trips_proposed_price_check CHECK (proposed_price > 0)`).Error; err != nil {
		return err
	}

	db.Exec(`ALTER TABLE offers DROP CONSTRAINT IF EXISTS offers_price_check`)
	if err := db.Exec(`ALTER TABLE offers ADD CONSTRAINT offers_price_check CHECK (price > 0)`).Error; err != nil {
		return err
	}

	// At most one accepted offer per trip, enforced at the storage layer as
	// a backstop behind the row-locked accept transaction.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS offers_one_accepted_per_trip ON offers (trip_id) WHERE is_accepted`).Error; err != nil {
		return err
	}

	return nil
}
