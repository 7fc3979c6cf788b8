package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caminoapp/camino-backend/internal/models"
	"github.com/caminoapp/camino-backend/pkg/apperr"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		name        string
		distanceKm  float64
		serviceType models.ServiceType
		expected    float64
	}{
		{name: "trip base fare only", distanceKm: 0, serviceType: models.ServiceTypeTrip, expected: 5.0},
		{name: "trip 10km", distanceKm: 10, serviceType: models.ServiceTypeTrip, expected: 20.0},
		{name: "delivery base fare only", distanceKm: 0, serviceType: models.ServiceTypeDelivery, expected: 7.0},
		{name: "delivery 10km", distanceKm: 10, serviceType: models.ServiceTypeDelivery, expected: 27.0},
		{name: "rounds to one decimal", distanceKm: 3.33, serviceType: models.ServiceTypeTrip, expected: 10.0},
		{name: "fractional result keeps one decimal", distanceKm: 1.1, serviceType: models.ServiceTypeTrip, expected: 6.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Estimate(tt.distanceKm, tt.serviceType)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEstimate_NegativeDistance(t *testing.T) {
	_, err := Estimate(-1, models.ServiceTypeTrip)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestEstimate_UnknownServiceType(t *testing.T) {
	_, err := Estimate(5, models.ServiceType("flight"))
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}
