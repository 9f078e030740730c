package reviews

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amcruz/storefront-backend/pkg/db"
	"github.com/amcruz/storefront-backend/pkg/db/models"
	pkgerrors "github.com/amcruz/storefront-backend/pkg/errors"
	"github.com/amcruz/storefront-backend/pkg/pagination"
)

// Service exposes review reads and the authenticated submit/remove flow.
// Each user holds at most one review per product; resubmitting replaces it.
type Service interface {
	ListReviews(ctx context.Context, productID uuid.UUID, params pagination.Params) (*ReviewListDTO, error)
	SubmitReview(ctx context.Context, input SubmitReviewInput) (*ReviewDTO, error)
	DeleteReview(ctx context.Context, productID, userID uuid.UUID) error
}

// SubmitReviewInput holds the validated payload for a review upsert.
type SubmitReviewInput struct {
	ProductID uuid.UUID
	UserID    uuid.UUID
	UserName  string
	Rating    int
	Comment   string
}

// ReviewDTO is the wire shape for review reads.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewListDTO is one page of a product's reviews.
type ReviewListDTO struct {
	Reviews      []ReviewDTO `json:"reviews"`
	Page         int         `json:"page"`
	TotalPages   int         `json:"total_pages"`
	TotalReviews int64       `json:"total_reviews"`
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a review service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("review repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) ListReviews(ctx context.Context, productID uuid.UUID, params pagination.Params) (*ReviewListDTO, error) {
	if err := s.ensureProductExists(ctx, s.dbClient.DB(), productID); err != nil {
		return nil, err
	}

	params = params.Normalize()
	rows, total, err := s.repo.ListByProduct(ctx, productID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}

	out := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return &ReviewListDTO{
		Reviews:      out,
		Page:         params.Page,
		TotalPages:   pagination.PageCount(total, params.Limit),
		TotalReviews: total,
	}, nil
}

// SubmitReview upserts the caller's review and recomputes the product's mean
// rating inside one transaction, so the denormalized rating and count can
// never drift from the review rows.
func (s *service) SubmitReview(ctx context.Context, input SubmitReviewInput) (*ReviewDTO, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if len(input.Comment) > 2000 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment must be at most 2000 characters")
	}

	var review *models.Review
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.ensureProductExists(ctx, tx, input.ProductID); err != nil {
			return err
		}

		repo := s.repo.WithTx(tx)
		existing, err := repo.FindByProductAndUser(ctx, input.ProductID, input.UserID)
		switch {
		case err == nil:
			existing.Rating = input.Rating
			existing.Comment = input.Comment
			existing.UserName = input.UserName
			if _, err := repo.Update(ctx, existing); err != nil {
				return err
			}
			review = existing
		case db.IsNotFound(err):
			review = &models.Review{
				ProductID: input.ProductID,
				UserID:    input.UserID,
				UserName:  input.UserName,
				Rating:    input.Rating,
				Comment:   input.Comment,
			}
			if _, err := repo.Create(ctx, review); err != nil {
				if db.IsUniqueViolation(err, "idx_reviews_product_user") {
					return pkgerrors.New(pkgerrors.CodeConflict, "review was submitted concurrently")
				}
				return err
			}
		default:
			return err
		}

		return s.recomputeRating(ctx, tx, input.ProductID)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit review")
	}
	return toDTO(review), nil
}

// DeleteReview removes the caller's own review and recomputes the product
// aggregate in the same transaction.
func (s *service) DeleteReview(ctx context.Context, productID, userID uuid.UUID) error {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.FindByProductAndUser(ctx, productID, userID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
			}
			return err
		}
		if err := repo.Delete(ctx, existing.ID); err != nil {
			return err
		}
		return s.recomputeRating(ctx, tx, productID)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return typed
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	return nil
}

// recomputeRating refreshes the product's denormalized rating and count from
// the review rows. The mean is rounded to one decimal place.
func (s *service) recomputeRating(ctx context.Context, tx *gorm.DB, productID uuid.UUID) error {
	count, mean, err := s.repo.WithTx(tx).Aggregate(ctx, productID)
	if err != nil {
		return err
	}
	rounded := math.Round(mean*10) / 10
	return tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{"rating": rounded, "review_count": count}).
		Error
}

func (s *service) ensureProductExists(ctx context.Context, tx *gorm.DB, productID uuid.UUID) error {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Count(&count).
		Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if count == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func toDTO(review *models.Review) *ReviewDTO {
	return &ReviewDTO{
		ID:        review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		UserName:  review.UserName,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}
