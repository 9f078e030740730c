package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	dbtypes "github.com/amcruz/storefront-backend/pkg/db/types"
)

// Product is the canonical catalog listing.
type Product struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Name        string             `gorm:"column:name;size:100;not null"`
	Description string             `gorm:"column:description;not null"`
	Price       decimal.Decimal    `gorm:"column:price;type:numeric(12,2);not null"`
	CategoryID  *uuid.UUID         `gorm:"column:category_id;type:uuid;index"`
	Stock       int                `gorm:"column:stock;not null;default:0"`
	Images      dbtypes.StringList `gorm:"column:images;type:jsonb;not null;default:'[]'"`
	Rating      float64            `gorm:"column:rating;not null;default:0"`
	ReviewCount int                `gorm:"column:review_count;not null;default:0"`
	Reviews     []Review           `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
