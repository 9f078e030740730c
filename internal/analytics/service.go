package analytics

import (
	"context"
	"fmt"
	"math"

	"github.com/amcruz/storefront-backend/pkg/db"
	"github.com/amcruz/storefront-backend/pkg/db/models"
	pkgerrors "github.com/amcruz/storefront-backend/pkg/errors"
)

// LowStockThreshold marks products the admin dashboard should flag for a
// restock.
const LowStockThreshold = 5

// Service exposes the admin dashboard summary.
type Service interface {
	Summary(ctx context.Context) (*SummaryDTO, error)
}

// SummaryDTO aggregates the storefront's headline numbers.
type SummaryDTO struct {
	TotalProducts   int64   `json:"total_products"`
	TotalCategories int64   `json:"total_categories"`
	TotalCustomers  int64   `json:"total_customers"`
	TotalReviews    int64   `json:"total_reviews"`
	AverageRating   float64 `json:"average_rating"`
	OutOfStock      int64   `json:"out_of_stock"`
	LowStock        int64   `json:"low_stock"`
}

type customerCounter interface {
	CountCustomers(ctx context.Context) (int64, error)
}

type service struct {
	dbClient  *db.Client
	customers customerCounter
}

// NewService constructs an analytics service instance.
func NewService(dbClient *db.Client, customers customerCounter) (Service, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer counter required")
	}
	return &service{dbClient: dbClient, customers: customers}, nil
}

func (s *service) Summary(ctx context.Context) (*SummaryDTO, error) {
	conn := s.dbClient.DB().WithContext(ctx)
	summary := &SummaryDTO{}

	if err := conn.Model(&models.Product{}).Count(&summary.TotalProducts).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	if err := conn.Model(&models.Category{}).Count(&summary.TotalCategories).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count categories")
	}
	if err := conn.Model(&models.Review{}).Count(&summary.TotalReviews).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count reviews")
	}

	customers, err := s.customers.CountCustomers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count customers")
	}
	summary.TotalCustomers = customers

	var mean *float64
	err = conn.Model(&models.Review{}).
		Select("AVG(rating)").
		Scan(&mean).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "average rating")
	}
	if mean != nil {
		summary.AverageRating = math.Round(*mean*10) / 10
	}

	err = conn.Model(&models.Product{}).
		Where("stock = 0").
		Count(&summary.OutOfStock).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count out of stock")
	}

	err = conn.Model(&models.Product{}).
		Where("stock > 0 AND stock < ?", LowStockThreshold).
		Count(&summary.LowStock).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count low stock")
	}

	return summary, nil
}
