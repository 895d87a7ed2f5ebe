package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID            string           `gorm:"primaryKey;size:36" json:"id"`
	Name          string           `gorm:"not null" json:"name"`
	Price         decimal.Decimal  `gorm:"type:numeric(10,2);not null" json:"price"`
	OriginalPrice *decimal.Decimal `gorm:"type:numeric(10,2)" json:"original_price,omitempty"` // shown struck through when set
	Image         string           `gorm:"not null" json:"image"`
	TeamSlug      string           `gorm:"index;not null" json:"team_slug"`
	IsNew         bool             `gorm:"not null;default:false" json:"is_new"`
	IsBestseller  bool             `gorm:"not null;default:false" json:"is_bestseller"`
	Rating        float64          `gorm:"not null;default:0" json:"rating"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// BeforeCreate assigns a uuid when the caller did not pick one.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
