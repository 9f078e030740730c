package controllers

import (
	"context"
	"net/http"

	"github.com/amcruz/storefront-backend/api/responses"
	pkgerrors "github.com/amcruz/storefront-backend/pkg/errors"
	"github.com/amcruz/storefront-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Health reports readiness of the datasources the API depends on.
func Health(db pinger, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"api": "ok"}

		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
			status["database"] = "ok"
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
			status["redis"] = "ok"
		}

		responses.WriteSuccess(w, status)
	}
}
