package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is the shop-facing profile tied 1:1 to a user account.
type Customer struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	FullName    string         `gorm:"column:full_name;not null"`
	Phone       string         `gorm:"column:phone;not null"`
	Motorcycles []Motorcycle   `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Loyalty     *LoyaltyPoints `gorm:"foreignKey:CustomerID"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
