package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TripStatus string

const (
	TripStatusCreated    TripStatus = "CREATED"
	TripStatusPublished  TripStatus = "PUBLISHED"
	TripStatusAssigned   TripStatus = "ASSIGNED"
	TripStatusInProgress TripStatus = "IN_PROGRESS"
	TripStatusCompleted  TripStatus = "COMPLETED"
	TripStatusCancelled  TripStatus = "CANCELLED"
)

// IsValid reports whether the status is one of the known statuses.
func (s TripStatus) IsValid() bool {
	switch s {
	case TripStatusCreated, TripStatusPublished, TripStatusAssigned,
		TripStatusInProgress, TripStatusCompleted, TripStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s TripStatus) IsTerminal() bool {
	return s == TripStatusCompleted || s == TripStatusCancelled
}

// CanTransitionTo reports whether the status transition is legal. Transitions
// are monotonic; the only side branch is cancellation, which is reachable
// from CREATED, PUBLISHED and ASSIGNED but not from IN_PROGRESS.
func (s TripStatus) CanTransitionTo(next TripStatus) bool {
	switch s {
	case TripStatusCreated:
		return next == TripStatusPublished || next == TripStatusAssigned || next == TripStatusCancelled
	case TripStatusPublished:
		return next == TripStatusAssigned || next == TripStatusCancelled
	case TripStatusAssigned:
		return next == TripStatusInProgress || next == TripStatusCancelled
	case TripStatusInProgress:
		return next == TripStatusCompleted
	}
	return false
}

// AcceptsOffers reports whether drivers may still bid on a trip in this
// status. A trip stops accepting offers once assigned.
func (s TripStatus) AcceptsOffers() bool {
	return s == TripStatusCreated || s == TripStatusPublished
}

type ServiceType string

const (
	ServiceTypeTrip     ServiceType = "trip"
	ServiceTypeDelivery ServiceType = "delivery"
)

// IsValid reports whether the service type is known.
func (t ServiceType) IsValid() bool {
	return t == ServiceTypeTrip || t == ServiceTypeDelivery
}

type Trip struct {
	ID          string `json:"id" gorm:"type:uuid;primaryKey"`
	PassengerID string `json:"passenger_id" gorm:"column:passenger_id;type:uuid;not null;index"`
	Passenger   *User  `json:"passenger,omitempty" gorm:"foreignKey:PassengerID"`
	DriverID    *string `json:"driver_id" gorm:"column:driver_id;type:uuid"`
	Driver      *User   `json:"driver,omitempty" gorm:"foreignKey:DriverID"`

	PickupLat      float64 `json:"pickup_lat" gorm:"column:pickup_lat;not null"`
	PickupLng      float64 `json:"pickup_lng" gorm:"column:pickup_lng;not null"`
	PickupAddress  string  `json:"pickup_address" gorm:"column:pickup_address;not null"`
	DropoffLat     float64 `json:"dropoff_lat" gorm:"column:dropoff_lat;not null"`
	DropoffLng     float64 `json:"dropoff_lng" gorm:"column:dropoff_lng;not null"`
	DropoffAddress string  `json:"dropoff_address" gorm:"column:dropoff_address;not null"`

	ProposedPrice float64    `json:"proposed_price" gorm:"column:proposed_price;not null"`
	FinalPrice    *float64   `json:"final_price" gorm:"column:final_price"`
	Status        TripStatus `json:"status" gorm:"column:status;not null;default:'CREATED';index"`

	HasPets      bool        `json:"has_pets" gorm:"column:has_pets;not null;default:false"`
	MoreThanFour bool        `json:"more_than_four" gorm:"column:more_than_four;not null;default:false"`
	Notes        string      `json:"notes,omitempty" gorm:"column:notes"`
	Type         ServiceType `json:"type" gorm:"column:type;not null;default:'trip'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Trip) TableName() string {
	return "trips"
}

// BeforeCreate assigns a UUID primary key.
func (t *Trip) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
