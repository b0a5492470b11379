package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Motorcycle is a customer-owned vehicle; license plates are unique shop-wide.
type Motorcycle struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID   uuid.UUID `gorm:"column:customer_id;type:uuid;not null;index"`
	Brand        string    `gorm:"column:brand;not null"`
	Model        string    `gorm:"column:model;not null"`
	LicensePlate string    `gorm:"column:license_plate;not null;uniqueIndex"`
	Year         *int      `gorm:"column:year"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (m *Motorcycle) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
