package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/amcruz/storefront-backend/pkg/db"
	"github.com/amcruz/storefront-backend/pkg/db/models"
	pkgerrors "github.com/amcruz/storefront-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := openTestDB(t)
	svc, err := NewService(db.FromGorm(conn))
	require.NoError(t, err)
	return svc, conn
}

func mustCreateStockedProduct(t *testing.T, conn *gorm.DB, name string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Description: "stocked",
		Price:       decimal.NewFromInt(10),
		Stock:       stock,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestAdjustStockSequence(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	product := mustCreateStockedProduct(t, conn, "Socks", 0)

	dto, err := svc.AdjustStock(ctx, product.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, dto.Stock)

	dto, err = svc.AdjustStock(ctx, product.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, 2, dto.Stock)

	_, err = svc.AdjustStock(ctx, product.ID, -3)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	var reloaded models.Product
	require.NoError(t, conn.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 2, reloaded.Stock)
}

func TestAdjustStockUnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AdjustStock(context.Background(), uuid.New(), 1)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListStockOrders(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	mustCreateStockedProduct(t, conn, "Banana Slicer", 7)
	mustCreateStockedProduct(t, conn, "Apple Corer", 2)
	mustCreateStockedProduct(t, conn, "Cherry Pitter", 0)

	byStock, err := svc.ListStock(ctx, ListStockInput{Sort: SortStockAsc})
	require.NoError(t, err)
	require.Len(t, byStock.Items, 3)
	assert.Equal(t, "Cherry Pitter", byStock.Items[0].Name)
	assert.Equal(t, "Banana Slicer", byStock.Items[2].Name)

	byName, err := svc.ListStock(ctx, ListStockInput{Sort: SortNameAsc})
	require.NoError(t, err)
	assert.Equal(t, "Apple Corer", byName.Items[0].Name)

	paged, err := svc.ListStock(ctx, ListStockInput{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, paged.TotalPages)
	assert.Len(t, paged.Items, 1)
	assert.Equal(t, int64(3), paged.TotalProducts)
}
