package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Estimate is the staff's preliminary, non-binding price for a booking.
type Estimate struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	BookingID     uuid.UUID       `gorm:"column:booking_id;type:uuid;not null;uniqueIndex"`
	Description   string          `gorm:"column:description;not null"`
	EstimatedCost decimal.Decimal `gorm:"column:estimated_cost;type:numeric(12,2);not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (e *Estimate) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
