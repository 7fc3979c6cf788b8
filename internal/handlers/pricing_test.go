package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pricingRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/pricing/estimate", EstimatePrice())
	return r
}

func TestEstimatePrice(t *testing.T) {
	r := pricingRouter()

	tests := []struct {
		name     string
		query    string
		expected float64
	}{
		{"trip default type", "distanceKm=10", 20.0},
		{"trip explicit", "distanceKm=0&type=trip", 5.0},
		{"delivery", "distanceKm=10&type=delivery", 27.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/pricing/estimate?"+tt.query, nil)
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)

			var body struct {
				Estimate float64 `json:"estimate"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.expected, body.Estimate)
		})
	}
}

func TestEstimatePrice_BadRequests(t *testing.T) {
	r := pricingRouter()

	tests := []struct {
		name  string
		query string
	}{
		{"missing distance", ""},
		{"non-numeric distance", "distanceKm=far"},
		{"negative distance", "distanceKm=-2"},
		{"unknown type", "distanceKm=5&type=flight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/pricing/estimate?"+tt.query, nil)
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
