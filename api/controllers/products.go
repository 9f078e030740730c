package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amcruz/storefront-backend/api/responses"
	"github.com/amcruz/storefront-backend/api/validators"
	productsvc "github.com/amcruz/storefront-backend/internal/products"
	pkgerrors "github.com/amcruz/storefront-backend/pkg/errors"
	"github.com/amcruz/storefront-backend/pkg/logger"
)

// ListProducts serves the storefront catalog page: keyword, category slug,
// price bounds, sort token, page and limit all come from the query string.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := validators.ParsePagination(r)
		input := productsvc.ListInput{
			Keyword:      validators.SanitizeString(r.URL.Query().Get("search"), 200),
			CategorySlug: validators.SanitizeString(r.URL.Query().Get("category"), 120),
			PriceMin:     validators.ParsePriceBound(r, "min_price"),
			PriceMax:     validators.ParsePriceBound(r, "max_price"),
			Sort:         r.URL.Query().Get("sort"),
			Page:         params.Page,
			Limit:        params.Limit,
		}

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetProduct serves one product detail.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminCreateProduct handles product creation.
func AdminCreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminUpdateProduct handles partial product mutation.
func AdminUpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminDeleteProduct removes a product and its reviews.
func AdminDeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type createProductRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description"`
	Price       string   `json:"price" validate:"required"`
	CategoryID  *string  `json:"category_id,omitempty" validate:"omitempty,uuid"`
	Stock       int      `json:"stock" validate:"min=0"`
	Images      []string `json:"images,omitempty" validate:"omitempty,dive,required"`
}

func (p createProductRequest) toCreateInput() (productsvc.CreateProductInput, error) {
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return productsvc.CreateProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal number")
	}

	input := productsvc.CreateProductInput{
		Name:        validators.SanitizeString(p.Name, 100),
		Description: validators.SanitizeString(p.Description, 0),
		Price:       price,
		Stock:       p.Stock,
		Images:      p.Images,
	}
	if p.CategoryID != nil {
		id, err := uuid.Parse(*p.CategoryID)
		if err != nil {
			return productsvc.CreateProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "category_id must be a valid id")
		}
		input.CategoryID = &id
	}
	return input, nil
}

type updateProductRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,max=100"`
	Description *string   `json:"description,omitempty"`
	Price       *string   `json:"price,omitempty"`
	CategoryID  *string   `json:"category_id,omitempty" validate:"omitempty,uuid"`
	Stock       *int      `json:"stock,omitempty" validate:"omitempty,min=0"`
	Images      *[]string `json:"images,omitempty"`
}

func (p updateProductRequest) toUpdateInput() (productsvc.UpdateProductInput, error) {
	input := productsvc.UpdateProductInput{
		Name:        p.Name,
		Description: p.Description,
		Stock:       p.Stock,
		Images:      p.Images,
	}
	if p.Price != nil {
		price, err := decimal.NewFromString(*p.Price)
		if err != nil {
			return productsvc.UpdateProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal number")
		}
		input.Price = &price
	}
	if p.CategoryID != nil {
		id, err := uuid.Parse(*p.CategoryID)
		if err != nil {
			return productsvc.UpdateProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "category_id must be a valid id")
		}
		input.CategoryID = &id
	}
	return input, nil
}

// pathUUID reads and parses a UUID route parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid id in path").
			WithDetails(map[string]string{"param": name})
	}
	return id, nil
}
