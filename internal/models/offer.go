package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Offer is a driver's bid against an open trip. Offers are append-only:
// the only mutation ever applied is acceptance, and at most one offer per
// trip may be accepted.
type Offer struct {
	ID       string `json:"id" gorm:"type:uuid;primaryKey"`
	TripID   string `json:"trip_id" gorm:"column:trip_id;type:uuid;not null;index"`
	Trip     *Trip  `json:"trip,omitempty" gorm:"foreignKey:TripID"`
	DriverID string `json:"driver_id" gorm:"column:driver_id;type:uuid;not null"`
	Driver   *User  `json:"driver,omitempty" gorm:"foreignKey:DriverID"`

	Price          float64 `json:"price" gorm:"column:price;not null"`
	EstimatedTime  *int    `json:"estimated_time" gorm:"column:estimated_time"` // minutes to pickup
	IsCounterOffer bool    `json:"is_counter_offer" gorm:"column:is_counter_offer;not null;default:false"`
	IsAccepted     bool    `json:"is_accepted" gorm:"column:is_accepted;not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Offer) TableName() string {
	return "offers"
}

// BeforeCreate assigns a UUID primary key.
func (o *Offer) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
