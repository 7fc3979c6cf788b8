package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/caminoapp/camino-backend/internal/events"
	"github.com/caminoapp/camino-backend/internal/middleware"
	"github.com/caminoapp/camino-backend/internal/observability"
	"github.com/caminoapp/camino-backend/internal/offers"
	"github.com/caminoapp/camino-backend/internal/services"
	"github.com/caminoapp/camino-backend/internal/trips"
	"github.com/caminoapp/camino-backend/pkg/apperr"
)

type SubmitOfferInput struct {
	TripID        string   `json:"tripId" binding:"required"`
	Price         float64  `json:"price" binding:"required"`
	EstimatedTime *int     `json:"estimatedTime"`
	DriverLat     *float64 `json:"driverLat"`
	DriverLng     *float64 `json:"driverLng"`
}

func SubmitOffer(svc *offers.Service, tripSvc *trips.Service, hub *services.Hub, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SubmitOfferInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		driverID := c.GetString(middleware.ContextUserID)
		offer, err := svc.Submit(c.Request.Context(), offers.SubmitInput{
			TripID:        input.TripID,
			DriverID:      driverID,
			Price:         input.Price,
			EstimatedTime: input.EstimatedTime,
			DriverLat:     input.DriverLat,
			DriverLng:     input.DriverLng,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		observability.OffersSubmittedTotal.Inc()
		if trip, err := tripSvc.Get(c.Request.Context(), offer.TripID); err == nil {
			hub.NotifyOfferReceived(trip.PassengerID, offer)
		}
		pub.Publish(c.Request.Context(), events.OfferSubmitted, offer.TripID, events.OfferToPayload(offer))

		c.JSON(201, gin.H{"offer": offer})
	}
}

func ListOffersByTrip(svc *offers.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := svc.ListByTrip(c.Request.Context(), c.Param("tripId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"offers": result})
	}
}

func AcceptOffer(svc *offers.Service, tripSvc *trips.Service, hub *services.Hub, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetString(middleware.ContextUserID)
		offer, trip, err := svc.Accept(c.Request.Context(), c.Param("id"), actorID)
		if err != nil {
			if apperr.IsKind(err, apperr.KindConflict) {
				observability.AcceptConflictsTotal.Inc()
			}
			respondError(c, err)
			return
		}

		observability.OffersAcceptedTotal.Inc()
		tripSvc.RemoveFromIndex(c.Request.Context(), trip.ID)
		if trip.FinalPrice != nil {
			hub.NotifyOfferAccepted(offer.DriverID, offer, *trip.FinalPrice)
		}
		hub.NotifyTripStatus(trip)
		pub.Publish(c.Request.Context(), events.OfferAccepted, trip.ID, events.OfferToPayload(offer))

		c.JSON(200, gin.H{"offer": offer, "trip": trip})
	}
}
