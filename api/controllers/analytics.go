package controllers

import (
	"net/http"

	"github.com/amcruz/storefront-backend/api/responses"
	analyticssvc "github.com/amcruz/storefront-backend/internal/analytics"
	"github.com/amcruz/storefront-backend/pkg/logger"
)

// AdminSummary serves the dashboard headline numbers.
func AdminSummary(svc analyticssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
