package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amcruz/storefront-backend/pkg/db/models"
)

// ProductDTO is the wire shape shared by the storefront and admin product
// endpoints. Price is serialized as a decimal string to avoid float drift.
type ProductDTO struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	CategoryID  *uuid.UUID       `json:"category_id,omitempty"`
	Category    *CategorySummary `json:"category,omitempty"`
	Stock       int              `json:"stock"`
	Images      []string         `json:"images"`
	Rating      float64          `json:"rating"`
	ReviewCount int              `json:"review_count"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// CategorySummary is the denormalized category slice embedded in product
// reads so storefront cards render without a second request.
type CategorySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// ProductListDTO is the assembled listing page.
type ProductListDTO struct {
	Products      []ProductDTO `json:"products"`
	Page          int          `json:"page"`
	TotalPages    int          `json:"total_pages"`
	TotalProducts int64        `json:"total_products"`
}

func toDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		CategoryID:  product.CategoryID,
		Stock:       product.Stock,
		Images:      append([]string{}, product.Images...),
		Rating:      product.Rating,
		ReviewCount: product.ReviewCount,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	return dto
}

func toListDTO(rows []models.Product, page, totalPages int, total int64) *ProductListDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return &ProductListDTO{
		Products:      out,
		Page:          page,
		TotalPages:    totalPages,
		TotalProducts: total,
	}
}
