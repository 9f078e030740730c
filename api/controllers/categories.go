package controllers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/amcruz/storefront-backend/api/responses"
	"github.com/amcruz/storefront-backend/api/validators"
	categorysvc "github.com/amcruz/storefront-backend/internal/categories"
	pkgerrors "github.com/amcruz/storefront-backend/pkg/errors"
	"github.com/amcruz/storefront-backend/pkg/logger"
)

const maxCategoryFormBytes = 10 << 20

type uploadSaver interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}

// ListCategories serves the storefront navigation. Only active categories
// are returned; hidden ones stay behind the admin listing.
func ListCategories(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats, err := svc.ListCategories(r.Context(), false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cats)
	}
}

// AdminListCategories serves the back-office category table, inactive
// categories included.
func AdminListCategories(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats, err := svc.ListCategories(r.Context(), true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cats)
	}
}

// GetCategory serves one category by id.
func GetCategory(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cat, err := svc.GetCategory(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cat)
	}
}

// AdminCreateCategory accepts multipart/form-data with name, description,
// is_active and an optional image file. The image is saved before the
// category row so a failed insert leaves only an orphan for the sweeper.
func AdminCreateCategory(svc categorysvc.Service, uploads uploadSaver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxCategoryFormBytes); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "expected multipart form data"))
			return
		}

		input := categorysvc.CreateCategoryInput{
			Name:        validators.SanitizeString(r.FormValue("name"), 100),
			Description: validators.SanitizeString(r.FormValue("description"), 500),
			IsActive:    true,
		}
		if raw := r.FormValue("is_active"); raw != "" {
			active, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "is_active must be a boolean"))
				return
			}
			input.IsActive = active
		}

		key, err := saveFormImage(r, uploads)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Image = key

		cat, err := svc.CreateCategory(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, cat)
	}
}

// AdminUpdateCategory accepts the same multipart form as creation. Absent
// fields leave the category untouched.
func AdminUpdateCategory(svc categorysvc.Service, uploads uploadSaver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(maxCategoryFormBytes); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "expected multipart form data"))
			return
		}

		var input categorysvc.UpdateCategoryInput
		if _, ok := r.Form["name"]; ok {
			name := validators.SanitizeString(r.FormValue("name"), 100)
			input.Name = &name
		}
		if _, ok := r.Form["description"]; ok {
			desc := validators.SanitizeString(r.FormValue("description"), 500)
			input.Description = &desc
		}
		if raw := r.FormValue("is_active"); raw != "" {
			active, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "is_active must be a boolean"))
				return
			}
			input.IsActive = &active
		}

		key, err := saveFormImage(r, uploads)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Image = key

		cat, err := svc.UpdateCategory(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cat)
	}
}

// AdminDeleteCategory removes a category that has no products.
func AdminDeleteCategory(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCategory(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// saveFormImage stores the optional "image" form file and returns its key.
// A form without that file returns (nil, nil).
func saveFormImage(r *http.Request, uploads uploadSaver) (*string, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read image upload")
	}
	defer file.Close()

	if uploads == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "upload storage unavailable")
	}
	key, err := uploads.Save(r.Context(), header.Filename, file)
	if err != nil {
		return nil, err
	}
	return &key, nil
}
