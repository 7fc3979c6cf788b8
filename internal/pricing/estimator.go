package pricing

import (
	"math"

	"github.com/caminoapp/camino-backend/internal/models"
	"github.com/caminoapp/camino-backend/pkg/apperr"
)

// Tariff is a flat base fare plus a per-kilometer rate.
type Tariff struct {
	Base  float64
	PerKm float64
}

var tariffs = map[models.ServiceType]Tariff{
	models.ServiceTypeTrip:     {Base: 5.0, PerKm: 1.5},
	models.ServiceTypeDelivery: {Base: 7.0, PerKm: 2.0},
}

// Estimate suggests a price for a trip of the given length. The passenger's
// proposed price always wins; this is advisory only.
func Estimate(distanceKm float64, serviceType models.ServiceType) (float64, error) {
	if distanceKm < 0 {
		return 0, apperr.Validation("invalid distance", map[string]string{"distance_km": "must not be negative"})
	}
	tariff, ok := tariffs[serviceType]
	if !ok {
		return 0, apperr.Validation("invalid service type", map[string]string{"type": "must be 'trip' or 'delivery'"})
	}
	return round1(tariff.Base + tariff.PerKm*distanceKm), nil
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
