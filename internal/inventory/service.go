package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amcruz/storefront-backend/pkg/db"
	"github.com/amcruz/storefront-backend/pkg/db/models"
	pkgerrors "github.com/amcruz/storefront-backend/pkg/errors"
	"github.com/amcruz/storefront-backend/pkg/pagination"
)

// Sort tokens for the stock overview listing.
const (
	SortStockAsc = "stock-asc"
	SortNameAsc  = "name-asc"
)

// Service exposes the admin stock overview and the delta adjustment flow.
type Service interface {
	ListStock(ctx context.Context, input ListStockInput) (*StockListDTO, error)
	AdjustStock(ctx context.Context, productID uuid.UUID, delta int) (*StockDTO, error)
}

// ListStockInput carries the stock listing knobs.
type ListStockInput struct {
	Sort  string
	Page  int
	Limit int
}

// StockDTO is one product's stock line.
type StockDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StockListDTO is one page of the stock overview.
type StockListDTO struct {
	Items         []StockDTO `json:"items"`
	Page          int        `json:"page"`
	TotalPages    int        `json:"total_pages"`
	TotalProducts int64      `json:"total_products"`
}

type service struct {
	dbClient *db.Client
}

// NewService constructs an inventory service instance.
func NewService(dbClient *db.Client) (Service, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{dbClient: dbClient}, nil
}

func (s *service) ListStock(ctx context.Context, input ListStockInput) (*StockListDTO, error) {
	params := pagination.Params{Page: input.Page, Limit: input.Limit}.Normalize()

	conn := s.dbClient.DB().WithContext(ctx).Model(&models.Product{})

	var total int64
	if err := conn.Count(&total).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}

	qb := s.dbClient.DB().WithContext(ctx).Model(&models.Product{})
	switch input.Sort {
	case SortNameAsc:
		qb = qb.Order("name ASC")
	default:
		qb = qb.Order("stock ASC")
	}
	qb = qb.Order("id ASC").Offset(params.Offset()).Limit(params.Limit)

	var rows []models.Product
	if err := qb.Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock")
	}

	items := make([]StockDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, StockDTO{
			ProductID: row.ID,
			Name:      row.Name,
			Stock:     row.Stock,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return &StockListDTO{
		Items:         items,
		Page:          params.Page,
		TotalPages:    pagination.PageCount(total, params.Limit),
		TotalProducts: total,
	}, nil
}

// AdjustStock applies a signed delta with a single guarded UPDATE, so two
// concurrent adjustments can never drive the stock below zero. A delta that
// would go negative is rejected outright rather than clamped.
func (s *service) AdjustStock(ctx context.Context, productID uuid.UUID, delta int) (*StockDTO, error) {
	conn := s.dbClient.DB().WithContext(ctx)

	result := conn.Model(&models.Product{}).
		Where("id = ? AND stock + ? >= 0", productID, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "adjust stock")
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := conn.Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if count == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "adjustment would make stock negative").
			WithDetails(map[string]int{"delta": delta})
	}

	var product models.Product
	if err := conn.First(&product, "id = ?", productID).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
	}
	return &StockDTO{
		ProductID: product.ID,
		Name:      product.Name,
		Stock:     product.Stock,
		UpdatedAt: product.UpdatedAt,
	}, nil
}
