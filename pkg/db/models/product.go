package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/mobimart/mobimart-backend/pkg/types"
)

// Product represents a phone listing in the primary catalog.
type Product struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string          `gorm:"column:name;not null"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Image        string          `gorm:"column:image;not null;default:''"`
	Images       pq.StringArray  `gorm:"column:images;type:text[]"`
	Category     string          `gorm:"column:category;not null;index"`
	Brand        *string         `gorm:"column:brand"`
	Color        *string         `gorm:"column:color"`
	Ratings      types.Ratings   `gorm:"column:ratings;type:jsonb"`
	InStock      bool            `gorm:"column:in_stock;not null;default:true"`
	Stock        int             `gorm:"column:stock;not null;default:0"`
	IsOffer      bool            `gorm:"column:is_offer;not null;default:false"`
	IsBestSeller bool            `gorm:"column:is_best_seller;not null;default:false"`
	Badge        *string         `gorm:"column:badge"`
	Description  *string         `gorm:"column:description"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
