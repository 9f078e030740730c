package categories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/amcruz/storefront-backend/pkg/db"
	"github.com/amcruz/storefront-backend/pkg/db/models"
	pkgerrors "github.com/amcruz/storefront-backend/pkg/errors"
	"github.com/amcruz/storefront-backend/pkg/logger"
	"github.com/amcruz/storefront-backend/pkg/slug"
)

// Service exposes category reads for the storefront and CRUD for admins.
type Service interface {
	ListCategories(ctx context.Context, includeInactive bool) ([]CategoryDTO, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*CategoryDTO, error)
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// CreateCategoryInput holds the validated payload to create a category.
// Image, when set, is the storage key of an already-saved upload.
type CreateCategoryInput struct {
	Name        string
	Description string
	Image       *string
	IsActive    bool
}

// UpdateCategoryInput holds optional mutation values for a category.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	Image       *string
	IsActive    *bool
}

type productCounter interface {
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

type imageStore interface {
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo     *Repository
	products productCounter
	images   imageStore
	logg     *logger.Logger
}

// NewService constructs a category service instance. The image store may be
// nil when uploads are disabled; replaced images are then left in place.
func NewService(repo *Repository, products productCounter, images imageStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product counter required")
	}
	return &service{repo: repo, products: products, images: images, logg: logg}, nil
}

func (s *service) ListCategories(ctx context.Context, includeInactive bool) ([]CategoryDTO, error) {
	rows, err := s.repo.List(ctx, !includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return toDTOs(rows), nil
}

func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return toDTO(category), nil
}

func (s *service) GetCategoryBySlug(ctx context.Context, categorySlug string) (*CategoryDTO, error) {
	category, err := s.repo.FindBySlug(ctx, categorySlug)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return toDTO(category), nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	if err := validateCategoryFields(input.Name, input.Description); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        input.Name,
		Slug:        slug.Make(input.Name),
		Description: input.Description,
		Image:       input.Image,
		IsActive:    input.IsActive,
	}
	if _, err := s.repo.Create(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "idx_categories") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return toDTO(category), nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	var replacedImage *string
	if input.Name != nil {
		if err := validateCategoryFields(*input.Name, ""); err != nil {
			return nil, err
		}
		category.Name = *input.Name
		category.Slug = slug.Make(*input.Name)
	}
	if input.Description != nil {
		if len(*input.Description) > 500 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "description must be at most 500 characters")
		}
		category.Description = *input.Description
	}
	if input.Image != nil {
		if category.Image != nil && *category.Image != *input.Image {
			replacedImage = category.Image
		}
		category.Image = input.Image
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if _, err := s.repo.Update(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "idx_categories") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}

	s.removeImage(ctx, replacedImage)
	return toDTO(category), nil
}

// DeleteCategory refuses to remove a category that products still reference
// so listings never dangle.
func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	count, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count category products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category still has products").
			WithDetails(map[string]int64{"product_count": count})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}

	s.removeImage(ctx, category.Image)
	return nil
}

// removeImage deletes a stored image best effort. Failures are logged and
// swallowed; the upload sweeper collects anything left behind.
func (s *service) removeImage(ctx context.Context, key *string) {
	if key == nil || *key == "" || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, *key); err != nil && s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("failed to remove category image %s: %v", *key, err))
	}
}

func validateCategoryFields(name, description string) error {
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if len(name) > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "name must be at most 100 characters")
	}
	if slug.Make(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name must contain letters or digits")
	}
	if len(description) > 500 {
		return pkgerrors.New(pkgerrors.CodeValidation, "description must be at most 500 characters")
	}
	return nil
}
