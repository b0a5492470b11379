package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RepairPart records a part drawn from inventory for a job. UnitPrice and
// PriceTotal are frozen at consumption time; later catalog edits must not
// change historical totals.
type RepairPart struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	RepairJobID uuid.UUID       `gorm:"column:repair_job_id;type:uuid;not null;index"`
	PartID      uuid.UUID       `gorm:"column:part_id;type:uuid;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	PriceTotal  decimal.Decimal `gorm:"column:price_total;type:numeric(12,2);not null"`
	Part        *Part           `gorm:"foreignKey:PartID"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (r *RepairPart) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
