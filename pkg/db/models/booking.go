package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/enums"
)

// Booking is a customer's requested repair slot.
type Booking struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID   uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	MotorcycleID uuid.UUID           `gorm:"column:motorcycle_id;type:uuid;not null"`
	BookingTime  time.Time           `gorm:"column:booking_time;not null"`
	SymptomNote  *string             `gorm:"column:symptom_note"`
	Status       enums.BookingStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Customer     *Customer           `gorm:"foreignKey:CustomerID"`
	Motorcycle   *Motorcycle         `gorm:"foreignKey:MotorcycleID"`
	RepairJob    *RepairJob          `gorm:"foreignKey:BookingID"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (b *Booking) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
