package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance_ZeroForSamePoint(t *testing.T) {
	assert.Equal(t, 0.0, HaversineDistance(40.7128, -74.0060, 40.7128, -74.0060))
}

func TestHaversineDistance_Symmetric(t *testing.T) {
	a := HaversineDistance(40.7128, -74.0060, 34.0522, -118.2437)
	b := HaversineDistance(34.0522, -118.2437, 40.7128, -74.0060)
	assert.InDelta(t, a, b, 1e-9)
}

func TestHaversineDistance_KnownPairs(t *testing.T) {
	tests := []struct {
		name       string
		lat1, lng1 float64
		lat2, lng2 float64
		expectedKm float64
		toleranceKm float64
	}{
		{
			name: "New York to Los Angeles",
			lat1: 40.7128, lng1: -74.0060,
			lat2: 34.0522, lng2: -118.2437,
			expectedKm:  3936,
			toleranceKm: 20,
		},
		{
			name: "one degree of latitude",
			lat1: 0, lng1: 0,
			lat2: 1, lng2: 0,
			expectedKm:  111.19,
			toleranceKm: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineDistance(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			assert.InDelta(t, tt.expectedKm, got, tt.toleranceKm)
		})
	}
}

func TestIsWithinRadius_BoundaryIsInclusive(t *testing.T) {
	// One degree of latitude at the equator.
	distance := HaversineDistance(0, 0, 1, 0)

	assert.True(t, IsWithinRadius(0, 0, 1, 0, distance))
	assert.True(t, IsWithinRadius(0, 0, 1, 0, distance+0.001))
	assert.False(t, IsWithinRadius(0, 0, 1, 0, distance-0.001))
}

func TestCalculateETA_MinimumOneMinute(t *testing.T) {
	assert.Equal(t, 1, CalculateETA(0, 30))
	assert.Equal(t, 1, CalculateETA(0.1, 30))
}

func TestCalculateETA_UsesDefaultSpeedWhenZero(t *testing.T) {
	// 15 km at the 30 km/h default is half an hour.
	assert.Equal(t, 30, CalculateETA(15, 0))
}
