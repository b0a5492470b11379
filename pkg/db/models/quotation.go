package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/enums"
)

// Quotation is the finalized bill for a booking, rebuilt from actual
// consumption at completion and delivery.
type Quotation struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	BookingID   uuid.UUID             `gorm:"column:booking_id;type:uuid;not null;uniqueIndex"`
	TotalAmount decimal.Decimal       `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Status      enums.QuotationStatus `gorm:"column:status;type:text;not null;default:'pending_customer_approval'"`
	Items       []QuotationItem       `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (q *Quotation) BeforeCreate(*gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// QuotationItem is a single bill line: a consumed part or the labor charge.
// Labor lines carry a nil PartID and zero quantity.
type QuotationItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	QuotationID uuid.UUID       `gorm:"column:quotation_id;type:uuid;not null;index"`
	Description string          `gorm:"column:description;not null"`
	PartID      *uuid.UUID      `gorm:"column:part_id;type:uuid"`
	Quantity    int             `gorm:"column:quantity;not null;default:0"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (q *QuotationItem) BeforeCreate(*gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
