package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/caminoapp/camino-backend/internal/config"
	"github.com/caminoapp/camino-backend/internal/events"
	"github.com/caminoapp/camino-backend/internal/middleware"
	"github.com/caminoapp/camino-backend/internal/models"
	"github.com/caminoapp/camino-backend/internal/observability"
	"github.com/caminoapp/camino-backend/internal/services"
	"github.com/caminoapp/camino-backend/internal/trips"
)

type CreateTripInput struct {
	PassengerID    string  `json:"passengerId"`
	PickupLat      float64 `json:"pickupLat"`
	PickupLng      float64 `json:"pickupLng"`
	PickupAddress  string  `json:"pickupAddress" binding:"required"`
	DropoffLat     float64 `json:"dropoffLat"`
	DropoffLng     float64 `json:"dropoffLng"`
	DropoffAddress string  `json:"dropoffAddress" binding:"required"`
	ProposedPrice  float64 `json:"proposedPrice" binding:"required"`
	HasPets        bool    `json:"hasPets"`
	MoreThanFour   bool    `json:"moreThanFour"`
	Notes          string  `json:"notes"`
	Type           string  `json:"type"`
}

func CreateTrip(svc *trips.Service, hub *services.Hub, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateTripInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		userID := c.GetString(middleware.ContextUserID)
		// Identity comes from the session; a mismatched body id is rejected,
		// never trusted.
		if input.PassengerID != "" && input.PassengerID != userID {
			c.JSON(403, gin.H{"error": "Cannot create trips for another user"})
			return
		}

		trip, err := svc.Create(c.Request.Context(), trips.CreateInput{
			PassengerID:    userID,
			PickupLat:      input.PickupLat,
			PickupLng:      input.PickupLng,
			PickupAddress:  input.PickupAddress,
			DropoffLat:     input.DropoffLat,
			DropoffLng:     input.DropoffLng,
			DropoffAddress: input.DropoffAddress,
			ProposedPrice:  input.ProposedPrice,
			HasPets:        input.HasPets,
			MoreThanFour:   input.MoreThanFour,
			Notes:          input.Notes,
			Type:           models.ServiceType(input.Type),
		})
		if err != nil {
			respondError(c, err)
			return
		}

		observability.TripsCreatedTotal.WithLabelValues(string(trip.Type)).Inc()
		hub.NotifyTripCreated(trip)
		pub.Publish(c.Request.Context(), events.TripCreated, trip.ID, events.TripToPayload(trip))

		c.JSON(201, gin.H{"trip": trip})
	}
}

func GetTrip(svc *trips.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		trip, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"trip": trip})
	}
}

func NearbyTrips(svc *trips.Service, nearbyCfg config.NearbyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, err := strconv.ParseFloat(c.Query("lat"), 64)
		if err != nil {
			c.JSON(400, gin.H{"error": "lat query parameter is required"})
			return
		}
		lng, err := strconv.ParseFloat(c.Query("lng"), 64)
		if err != nil {
			c.JSON(400, gin.H{"error": "lng query parameter is required"})
			return
		}

		radiusKm := nearbyCfg.DefaultRadiusKm
		if raw := c.Query("radius"); raw != "" {
			radiusKm, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				c.JSON(400, gin.H{"error": "radius must be a number"})
				return
			}
		}
		if radiusKm > nearbyCfg.MaxRadiusKm {
			radiusKm = nearbyCfg.MaxRadiusKm
		}

		nearby, err := svc.FindNearby(c.Request.Context(), lat, lng, radiusKm)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"trips": nearby, "radiusKm": radiusKm})
	}
}

func TripHistory(svc *trips.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(middleware.ContextUserID)
		history, err := svc.HistoryByPassenger(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"trips": history})
	}
}

type UpdateTripStatusInput struct {
	Status string `json:"status" binding:"required"`
}

func UpdateTripStatus(svc *trips.Service, hub *services.Hub, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateTripStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		userID := c.GetString(middleware.ContextUserID)
		trip, err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), models.TripStatus(input.Status), userID)
		if err != nil {
			respondError(c, err)
			return
		}

		observability.TripStatusTotal.WithLabelValues(string(trip.Status)).Inc()
		hub.NotifyTripStatus(trip)
		pub.Publish(c.Request.Context(), events.TripStatusChanged, trip.ID, events.TripToPayload(trip))

		c.JSON(200, gin.H{"trip": trip})
	}
}
