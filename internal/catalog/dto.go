package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mobimart/mobimart-backend/pkg/db/models"
	"github.com/mobimart/mobimart-backend/pkg/enums"
	"github.com/mobimart/mobimart-backend/pkg/types"
)

// ProductDTO is the read shape for a phone listing.
type ProductDTO struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image"`
	Images       []string        `json:"images,omitempty"`
	Category     string          `json:"category"`
	Brand        *string         `json:"brand,omitempty"`
	Color        *string         `json:"color,omitempty"`
	Ratings      types.Ratings   `json:"ratings,omitempty"`
	RatingAvg    float64         `json:"rating_avg"`
	InStock      bool            `json:"in_stock"`
	Stock        int             `json:"stock"`
	IsOffer      bool            `json:"is_offer"`
	IsBestSeller bool            `json:"is_best_seller"`
	Badge        *string         `json:"badge,omitempty"`
	Description  *string         `json:"description,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// AccessoryDTO is the read shape for an accessory listing.
type AccessoryDTO struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image"`
	Images       []string        `json:"images,omitempty"`
	Category     string          `json:"category"`
	Brand        *string         `json:"brand,omitempty"`
	Color        *string         `json:"color,omitempty"`
	Rating       float64         `json:"rating"`
	InStock      bool            `json:"in_stock"`
	Stock        int             `json:"stock"`
	IsOffer      bool            `json:"is_offer"`
	IsBestSeller bool            `json:"is_best_seller"`
	Badge        *string         `json:"badge,omitempty"`
	Description  *string         `json:"description,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ItemSummary is the hydrated view of a catalog entry used when cart and
// wishlist rows are joined back to their source listing.
type ItemSummary struct {
	Ref      types.ItemRef   `json:"ref"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Category string          `json:"category"`
	InStock  bool            `json:"in_stock"`
}

// PageMeta carries cursor pagination metadata for catalog listings.
type PageMeta struct {
	Total   int    `json:"total"`
	Current string `json:"current,omitempty"`
	Next    string `json:"next,omitempty"`
}

// ProductsPageDTO is one page of products.
type ProductsPageDTO struct {
	Products   []ProductDTO `json:"products"`
	Pagination PageMeta     `json:"pagination"`
}

// AccessoriesPageDTO is one page of accessories.
type AccessoriesPageDTO struct {
	Accessories []AccessoryDTO `json:"accessories"`
	Pagination  PageMeta       `json:"pagination"`
}

// ListFilter narrows catalog listings.
type ListFilter struct {
	Category        string
	OffersOnly      bool
	BestSellersOnly bool
}

func productToDTO(p models.Product) ProductDTO {
	return ProductDTO{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		Image:        p.Image,
		Images:       p.Images,
		Category:     p.Category,
		Brand:        p.Brand,
		Color:        p.Color,
		Ratings:      p.Ratings,
		RatingAvg:    p.Ratings.Average(),
		InStock:      p.InStock,
		Stock:        p.Stock,
		IsOffer:      p.IsOffer,
		IsBestSeller: p.IsBestSeller,
		Badge:        p.Badge,
		Description:  p.Description,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func accessoryToDTO(a models.Accessory) AccessoryDTO {
	return AccessoryDTO{
		ID:           a.ID,
		Name:         a.Name,
		Price:        a.Price,
		Image:        a.Image,
		Images:       a.Images,
		Category:     a.Category,
		Brand:        a.Brand,
		Color:        a.Color,
		Rating:       a.Rating,
		InStock:      a.InStock,
		Stock:        a.Stock,
		IsOffer:      a.IsOffer,
		IsBestSeller: a.IsBestSeller,
		Badge:        a.Badge,
		Description:  a.Description,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func productSummary(p models.Product) ItemSummary {
	return ItemSummary{
		Ref:      types.ItemRef{Kind: enums.ItemKindProduct, ID: p.ID},
		Name:     p.Name,
		Price:    p.Price,
		Image:    p.Image,
		Category: p.Category,
		InStock:  p.InStock,
	}
}

func accessorySummary(a models.Accessory) ItemSummary {
	return ItemSummary{
		Ref:      types.ItemRef{Kind: enums.ItemKindAccessory, ID: a.ID},
		Name:     a.Name,
		Price:    a.Price,
		Image:    a.Image,
		Category: a.Category,
		InStock:  a.InStock,
	}
}
