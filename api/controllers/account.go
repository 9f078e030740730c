package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/amcruz/storefront-backend/api/middleware"
	"github.com/amcruz/storefront-backend/api/responses"
	"github.com/amcruz/storefront-backend/api/validators"
	authsvc "github.com/amcruz/storefront-backend/internal/auth"
	pkgerrors "github.com/amcruz/storefront-backend/pkg/errors"
	"github.com/amcruz/storefront-backend/pkg/logger"
)

type updateAccountRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,max=100"`
	CurrentPassword *string `json:"current_password,omitempty"`
	NewPassword     *string `json:"new_password,omitempty" validate:"omitempty,min=8"`
}

// authedUserID resolves the caller's id seeded by the auth middleware.
func authedUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return id, nil
}

// GetAccount returns the authenticated user's profile.
func GetAccount(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := svc.GetAccount(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, account)
	}
}

// UpdateAccount mutates the authenticated user's profile. A password change
// must carry the current password.
func UpdateAccount(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateAccountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := svc.UpdateAccount(r.Context(), userID, authsvc.UpdateAccountInput{
			Name:            payload.Name,
			CurrentPassword: payload.CurrentPassword,
			NewPassword:     payload.NewPassword,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, account)
	}
}
