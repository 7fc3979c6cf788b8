package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/caminoapp/camino-backend/internal/models"
	"github.com/caminoapp/camino-backend/internal/pricing"
)

// EstimatePrice suggests a fare for a given distance and service type. The
// figure is advisory; passengers propose whatever price they like.
func EstimatePrice() gin.HandlerFunc {
	return func(c *gin.Context) {
		distanceKm, err := strconv.ParseFloat(c.Query("distanceKm"), 64)
		if err != nil {
			c.JSON(400, gin.H{"error": "distanceKm query parameter is required"})
			return
		}

		serviceType := models.ServiceType(c.DefaultQuery("type", string(models.ServiceTypeTrip)))
		estimate, err := pricing.Estimate(distanceKm, serviceType)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{
			"estimate":   estimate,
			"distanceKm": distanceKm,
			"type":       serviceType,
		})
	}
}
