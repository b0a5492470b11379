package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/enums"
)

// Payment is the money owed for a delivered repair job, one per job.
type Payment struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	RepairJobID uuid.UUID           `gorm:"column:repair_job_id;type:uuid;not null;uniqueIndex"`
	Amount      decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Method      enums.PaymentMethod `gorm:"column:method;type:text;not null;default:'cash'"`
	Status      enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	PaidAt      *time.Time          `gorm:"column:paid_at"`
	RepairJob   *RepairJob          `gorm:"foreignKey:RepairJobID"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Payment) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
