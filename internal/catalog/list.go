package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/amcruz/storefront-backend/pkg/db/models"
	"github.com/amcruz/storefront-backend/pkg/pagination"
)

// ListQuery bundles the three pipeline stages for one listing request.
type ListQuery struct {
	Filters    Filters
	Sort       Sort
	Pagination pagination.Params
}

// ListResult is the assembled page: the record slice plus the pagination
// metadata the UIs render.
type ListResult struct {
	Products      []models.Product
	Page          int
	TotalPages    int
	TotalProducts int64
}

// List counts the matching products, fetches the requested page slice, and
// assembles the result. A page past the end yields an empty slice, not an
// error; any storage failure propagates untouched.
func List(ctx context.Context, conn *gorm.DB, query ListQuery) (*ListResult, error) {
	params := query.Pagination.Normalize()

	filtered := func(tx *gorm.DB) *gorm.DB {
		return query.Filters.Apply(tx)
	}

	var total int64
	if err := conn.WithContext(ctx).Model(&models.Product{}).Scopes(filtered).Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Product
	qb := query.Sort.Apply(conn.WithContext(ctx).Model(&models.Product{}).Scopes(filtered))
	if err := qb.Offset(params.Offset()).Limit(params.Limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	return &ListResult{
		Products:      rows,
		Page:          params.Page,
		TotalPages:    pagination.PageCount(total, params.Limit),
		TotalProducts: total,
	}, nil
}
