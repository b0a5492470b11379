package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/enums"
)

// RepairJob is the unit of repair work, created exactly once per confirmed booking.
type RepairJob struct {
	ID                uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	BookingID         uuid.UUID          `gorm:"column:booking_id;type:uuid;not null;uniqueIndex"`
	QuotationID       *uuid.UUID         `gorm:"column:quotation_id;type:uuid"`
	AssignedStaffID   *uuid.UUID         `gorm:"column:assigned_staff_id;type:uuid"`
	Status            enums.RepairStatus `gorm:"column:status;type:text;not null;default:'created'"`
	Progress          int                `gorm:"column:progress;not null;default:0"`
	LaborCost         decimal.Decimal    `gorm:"column:labor_cost;type:numeric(12,2);not null;default:0"`
	CustomerConfirmed bool               `gorm:"column:customer_confirmed;not null;default:false"`
	Note              *string            `gorm:"column:note"`
	StartDate         *time.Time         `gorm:"column:start_date"`
	EndDate           *time.Time         `gorm:"column:end_date"`
	Booking           *Booking           `gorm:"foreignKey:BookingID"`
	Parts             []RepairPart       `gorm:"foreignKey:RepairJobID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *RepairJob) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
