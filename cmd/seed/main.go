package main

import (
	"github.com/caminoapp/camino-backend/internal/config"
	"github.com/caminoapp/camino-backend/internal/database"
	"github.com/caminoapp/camino-backend/internal/models"
	"github.com/caminoapp/camino-backend/pkg/logger"
	"gorm.io/gorm/clause"
)

// Seeds a handful of demo accounts, all with password "password123".
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer log.Sync()

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		log.Fatal("failed to initialize database", logger.Err(err))
	}

	seedUsers := []models.User{
		{Email: "admin@camino.local", Name: "Administrador", Role: models.RoleAdmin, Phone: "+1234567890", RatingAvg: 5.0},
		{Email: "passenger1@demo.com", Name: "Juan Pérez", Role: models.RolePassenger, Phone: "+1234567891", RatingAvg: 4.8},
		{Email: "passenger2@demo.com", Name: "María García", Role: models.RolePassenger, Phone: "+1234567892", RatingAvg: 4.5},
		{Email: "driver1@demo.com", Name: "Carlos Rodríguez", Role: models.RoleDriver, Phone: "+1234567893", RatingAvg: 4.9},
		{Email: "driver2@demo.com", Name: "Ana Martínez", Role: models.RoleDriver, Phone: "+1234567894", RatingAvg: 4.7},
	}

	for i := range seedUsers {
		user := &seedUsers[i]
		user.Password = "password123"
		user.IsActive = true
		if err := user.HashPassword(); err != nil {
			log.Fatal("failed to hash password", logger.Err(err))
		}

		// Existing accounts are left untouched.
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).Create(user)
		if result.Error != nil {
			log.Fatal("failed to seed user", logger.String("email", user.Email), logger.Err(result.Error))
		}

		log.Info("seeded user", logger.String("email", user.Email), logger.String("role", string(user.Role)))
	}
}
