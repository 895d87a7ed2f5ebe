package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItem is one (user, product) row. The pair is unique; adding the same
// product again increments Quantity instead of inserting a second row.
type CartItem struct {
	ID        string           `gorm:"primaryKey;size:36" json:"id"`
	UserID    string           `gorm:"size:36;not null;uniqueIndex:idx_cart_items_user_product" json:"user_id"`
	ProductID string           `gorm:"size:36;not null;uniqueIndex:idx_cart_items_user_product" json:"product_id"`
	Quantity  int              `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice *decimal.Decimal `gorm:"type:numeric(10,2)" json:"unit_price,omitempty"` // price when first added
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
