package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/enums"
)

// LoyaltyPoints is a customer's reward balance, upserted on first earn.
type LoyaltyPoints struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID  uuid.UUID `gorm:"column:customer_id;type:uuid;not null;uniqueIndex"`
	TotalPoints int       `gorm:"column:total_points;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (l *LoyaltyPoints) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// PointTransaction is the append-only audit trail behind a loyalty balance.
type PointTransaction struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	LoyaltyPointsID uuid.UUID            `gorm:"column:loyalty_points_id;type:uuid;not null;index"`
	PaymentID       *uuid.UUID           `gorm:"column:payment_id;type:uuid"`
	EventType       enums.PointEventType `gorm:"column:event_type;type:text;not null"`
	Points          int                  `gorm:"column:points;not null"`
	Description     *string              `gorm:"column:description"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
}

func (p *PointTransaction) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
