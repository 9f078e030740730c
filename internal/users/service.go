package users

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/amcruz/storefront-backend/pkg/errors"
	"github.com/amcruz/storefront-backend/pkg/pagination"
)

// Service exposes the back-office customer directory.
type Service interface {
	ListCustomers(ctx context.Context, params pagination.Params) (*CustomerListDTO, error)
}

// CustomerDTO is the wire shape for one customer row.
type CustomerDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerListDTO is one page of customers.
type CustomerListDTO struct {
	Customers      []CustomerDTO `json:"customers"`
	Page           int           `json:"page"`
	TotalPages     int           `json:"total_pages"`
	TotalCustomers int64         `json:"total_customers"`
}

type service struct {
	repo *Repository
}

// NewService constructs a customer directory service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListCustomers(ctx context.Context, params pagination.Params) (*CustomerListDTO, error) {
	params = params.Normalize()

	rows, total, err := s.repo.ListCustomers(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}

	customers := make([]CustomerDTO, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, CustomerDTO{
			ID:        row.ID,
			Email:     row.Email,
			Name:      row.Name,
			IsActive:  row.IsActive,
			CreatedAt: row.CreatedAt,
		})
	}

	return &CustomerListDTO{
		Customers:      customers,
		Page:           params.Page,
		TotalPages:     pagination.PageCount(total, params.Limit),
		TotalCustomers: total,
	}, nil
}
