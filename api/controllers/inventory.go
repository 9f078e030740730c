package controllers

import (
	"net/http"

	"github.com/amcruz/storefront-backend/api/responses"
	"github.com/amcruz/storefront-backend/api/validators"
	inventorysvc "github.com/amcruz/storefront-backend/internal/inventory"
	"github.com/amcruz/storefront-backend/pkg/logger"
)

type adjustStockRequest struct {
	Delta int `json:"delta" validate:"ne=0"`
}

// AdminListStock serves the back-office stock table, lowest stock first by
// default.
func AdminListStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := validators.ParsePagination(r)

		result, err := svc.ListStock(r.Context(), inventorysvc.ListStockInput{
			Sort:  r.URL.Query().Get("sort"),
			Page:  params.Page,
			Limit: params.Limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminAdjustStock applies a signed delta to one product's stock. Deltas
// that would take stock below zero are rejected.
func AdminAdjustStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adjustStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stock, err := svc.AdjustStock(r.Context(), productID, payload.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stock)
	}
}
