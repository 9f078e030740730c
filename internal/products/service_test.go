package products

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/amcruz/storefront-backend/internal/categories"
	"github.com/amcruz/storefront-backend/pkg/db"
	"github.com/amcruz/storefront-backend/pkg/db/models"
	pkgerrors "github.com/amcruz/storefront-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := openTestDB(t)
	svc, err := NewService(NewRepository(conn), db.FromGorm(conn), categories.NewRepository(conn))
	require.NoError(t, err)
	return svc, conn
}

func mustCreateTestCategory(t *testing.T, conn *gorm.DB, name, slug string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Slug: slug, IsActive: true}
	if err := conn.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

func TestCreateProduct(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	category := mustCreateTestCategory(t, conn, "Electronics", "electronics")

	t.Run("success", func(t *testing.T) {
		dto, err := svc.CreateProduct(ctx, CreateProductInput{
			Name:        "Desk Lamp",
			Description: "Warm white, dimmable.",
			Price:       decimal.RequireFromString("24.99"),
			CategoryID:  &category.ID,
			Stock:       12,
			Images:      []string{"products/lamp.png"},
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, dto.ID)
		assert.True(t, dto.Price.Equal(decimal.RequireFromString("24.99")))
		assert.Equal(t, 12, dto.Stock)
		assert.Equal(t, []string{"products/lamp.png"}, dto.Images)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		_, err := svc.CreateProduct(ctx, CreateProductInput{
			Name:  "Broken",
			Price: decimal.NewFromInt(-1),
		})
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		missing := uuid.New()
		_, err := svc.CreateProduct(ctx, CreateProductInput{
			Name:       "Orphan",
			Price:      decimal.NewFromInt(5),
			CategoryID: &missing,
		})
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	})
}

func TestGetProductIncludesCategorySummary(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	category := mustCreateTestCategory(t, conn, "Home & Garden", "home-garden")

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Fern Pot",
		Price:      decimal.NewFromInt(9),
		CategoryID: &category.ID,
	})
	require.NoError(t, err)

	dto, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, dto.Category)
	assert.Equal(t, "home-garden", dto.Category.Slug)
	assert.Equal(t, "Home & Garden", dto.Category.Name)
}

func TestGetProductNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetProduct(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestUpdateProductPartialMutation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:        "Kettle",
		Description: "Boils water.",
		Price:       decimal.NewFromInt(30),
		Stock:       4,
	})
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("27.50")
	updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{Price: &newPrice})
	require.NoError(t, err)

	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, "Kettle", updated.Name)
	assert.Equal(t, 4, updated.Stock)

	badStock := -2
	_, err = svc.UpdateProduct(ctx, created.ID, UpdateProductInput{Stock: &badStock})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDeleteProductRemovesReviews(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:  "Headphones",
		Price: decimal.NewFromInt(80),
	})
	require.NoError(t, err)

	review := &models.Review{
		ProductID: created.ID,
		UserID:    uuid.New(),
		UserName:  "Sam",
		Rating:    5,
		Comment:   "crisp",
	}
	require.NoError(t, conn.Create(review).Error)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))

	var reviewCount int64
	require.NoError(t, conn.Model(&models.Review{}).Where("product_id = ?", created.ID).Count(&reviewCount).Error)
	assert.Equal(t, int64(0), reviewCount)

	err = svc.DeleteProduct(ctx, created.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListProductsByCategorySlug(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	electronics := mustCreateTestCategory(t, conn, "Electronics", "electronics")
	books := mustCreateTestCategory(t, conn, "Books", "books")

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, conn.Create(&models.Product{
			Name:        fmt.Sprintf("Gadget %d", i),
			Description: "beeps",
			Price:       decimal.NewFromInt(int64(10 + i)),
			CategoryID:  &electronics.ID,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}
	require.NoError(t, conn.Create(&models.Product{
		Name:        "Novel",
		Description: "pages",
		Price:       decimal.NewFromInt(14),
		CategoryID:  &books.ID,
	}).Error)

	result, err := svc.ListProducts(ctx, ListInput{CategorySlug: "electronics"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.TotalProducts)
	assert.Equal(t, 1, result.TotalPages)
	require.Len(t, result.Products, 3)
	assert.Equal(t, "Gadget 2", result.Products[0].Name)

	all, err := svc.ListProducts(ctx, ListInput{CategorySlug: "all"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.TotalProducts)

	missing, err := svc.ListProducts(ctx, ListInput{CategorySlug: "does-not-exist"})
	require.NoError(t, err)
	assert.Empty(t, missing.Products)
	assert.Equal(t, int64(0), missing.TotalProducts)
	assert.Equal(t, 1, missing.TotalPages)
}
