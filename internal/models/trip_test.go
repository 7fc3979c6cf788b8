package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTripStatus_CanTransitionTo(t *testing.T) {
	allowed := map[TripStatus][]TripStatus{
		TripStatusCreated:    {TripStatusPublished, TripStatusAssigned, TripStatusCancelled},
		TripStatusPublished:  {TripStatusAssigned, TripStatusCancelled},
		TripStatusAssigned:   {TripStatusInProgress, TripStatusCancelled},
		TripStatusInProgress: {TripStatusCompleted},
		TripStatusCompleted:  {},
		TripStatusCancelled:  {},
	}

	all := []TripStatus{
		TripStatusCreated, TripStatusPublished, TripStatusAssigned,
		TripStatusInProgress, TripStatusCompleted, TripStatusCancelled,
	}

	for from, nexts := range allowed {
		legal := map[TripStatus]bool{}
		for _, n := range nexts {
			legal[n] = true
		}
		for _, to := range all {
			assert.Equal(t, legal[to], from.CanTransitionTo(to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestTripStatus_CancelNotAllowedOnceInProgress(t *testing.T) {
	assert.False(t, TripStatusInProgress.CanTransitionTo(TripStatusCancelled))
	assert.False(t, TripStatusCompleted.CanTransitionTo(TripStatusInProgress))
}

func TestTripStatus_IsTerminal(t *testing.T) {
	assert.True(t, TripStatusCompleted.IsTerminal())
	assert.True(t, TripStatusCancelled.IsTerminal())
	assert.False(t, TripStatusAssigned.IsTerminal())
}

func TestTripStatus_AcceptsOffers(t *testing.T) {
	assert.True(t, TripStatusCreated.AcceptsOffers())
	assert.True(t, TripStatusPublished.AcceptsOffers())
	assert.False(t, TripStatusAssigned.AcceptsOffers())
	assert.False(t, TripStatusInProgress.AcceptsOffers())
	assert.False(t, TripStatusCompleted.AcceptsOffers())
	assert.False(t, TripStatusCancelled.AcceptsOffers())
}

func TestServiceType_IsValid(t *testing.T) {
	assert.True(t, ServiceTypeTrip.IsValid())
	assert.True(t, ServiceTypeDelivery.IsValid())
	assert.False(t, ServiceType("flight").IsValid())
}
