package controllers

import (
	"net/http"

	"github.com/amcruz/storefront-backend/api/responses"
	"github.com/amcruz/storefront-backend/api/validators"
	usersvc "github.com/amcruz/storefront-backend/internal/users"
	"github.com/amcruz/storefront-backend/pkg/logger"
)

// AdminListCustomers serves the back-office customer directory, newest
// first.
func AdminListCustomers(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.ListCustomers(r.Context(), validators.ParsePagination(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
