package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	analyticssvc "github.com/amcruz/storefront-backend/internal/analytics"
	authsvc "github.com/amcruz/storefront-backend/internal/auth"
	categorysvc "github.com/amcruz/storefront-backend/internal/categories"
	inventorysvc "github.com/amcruz/storefront-backend/internal/inventory"
	productsvc "github.com/amcruz/storefront-backend/internal/products"
	reviewsvc "github.com/amcruz/storefront-backend/internal/reviews"
	usersvc "github.com/amcruz/storefront-backend/internal/users"
	pkgauth "github.com/amcruz/storefront-backend/pkg/auth"
	"github.com/amcruz/storefront-backend/pkg/config"
	"github.com/amcruz/storefront-backend/pkg/db/models"
	"github.com/amcruz/storefront-backend/pkg/logger"
	"github.com/amcruz/storefront-backend/pkg/pagination"
)

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubProducts struct{}

func (stubProducts) ListProducts(context.Context, productsvc.ListInput) (*productsvc.ProductListDTO, error) {
	return &productsvc.ProductListDTO{Products: []productsvc.ProductDTO{}, Page: 1, TotalPages: 1}, nil
}
func (stubProducts) GetProduct(context.Context, uuid.UUID) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}
func (stubProducts) CreateProduct(context.Context, productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}
func (stubProducts) UpdateProduct(context.Context, uuid.UUID, productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}
func (stubProducts) DeleteProduct(context.Context, uuid.UUID) error { return nil }

type stubCategories struct{}

func (stubCategories) ListCategories(context.Context, bool) ([]categorysvc.CategoryDTO, error) {
	return nil, nil
}
func (stubCategories) GetCategory(context.Context, uuid.UUID) (*categorysvc.CategoryDTO, error) {
	return &categorysvc.CategoryDTO{}, nil
}
func (stubCategories) GetCategoryBySlug(context.Context, string) (*categorysvc.CategoryDTO, error) {
	return &categorysvc.CategoryDTO{}, nil
}
func (stubCategories) CreateCategory(context.Context, categorysvc.CreateCategoryInput) (*categorysvc.CategoryDTO, error) {
	return &categorysvc.CategoryDTO{}, nil
}
func (stubCategories) UpdateCategory(context.Context, uuid.UUID, categorysvc.UpdateCategoryInput) (*categorysvc.CategoryDTO, error) {
	return &categorysvc.CategoryDTO{}, nil
}
func (stubCategories) DeleteCategory(context.Context, uuid.UUID) error { return nil }

type capturingCategories struct {
	stubCategories
	includeInactive []bool
}

func (c *capturingCategories) ListCategories(_ context.Context, includeInactive bool) ([]categorysvc.CategoryDTO, error) {
	c.includeInactive = append(c.includeInactive, includeInactive)
	return nil, nil
}

type stubReviews struct{}

func (stubReviews) ListReviews(context.Context, uuid.UUID, pagination.Params) (*reviewsvc.ReviewListDTO, error) {
	return &reviewsvc.ReviewListDTO{}, nil
}
func (stubReviews) SubmitReview(context.Context, reviewsvc.SubmitReviewInput) (*reviewsvc.ReviewDTO, error) {
	return &reviewsvc.ReviewDTO{}, nil
}
func (stubReviews) DeleteReview(context.Context, uuid.UUID, uuid.UUID) error { return nil }

type stubInventory struct{}

func (stubInventory) ListStock(context.Context, inventorysvc.ListStockInput) (*inventorysvc.StockListDTO, error) {
	return &inventorysvc.StockListDTO{}, nil
}
func (stubInventory) AdjustStock(context.Context, uuid.UUID, int) (*inventorysvc.StockDTO, error) {
	return &inventorysvc.StockDTO{}, nil
}

type stubAnalytics struct{}

func (stubAnalytics) Summary(context.Context) (*analyticssvc.SummaryDTO, error) {
	return &analyticssvc.SummaryDTO{}, nil
}

type stubUsers struct{}

func (stubUsers) ListCustomers(context.Context, pagination.Params) (*usersvc.CustomerListDTO, error) {
	return &usersvc.CustomerListDTO{}, nil
}

type stubAuth struct{}

func (stubAuth) Register(context.Context, authsvc.RegisterInput) (*authsvc.AuthResultDTO, error) {
	return &authsvc.AuthResultDTO{}, nil
}
func (stubAuth) Login(context.Context, authsvc.LoginInput) (*authsvc.AuthResultDTO, error) {
	return &authsvc.AuthResultDTO{}, nil
}
func (stubAuth) Refresh(context.Context, string, string) (*authsvc.TokenPairDTO, error) {
	return &authsvc.TokenPairDTO{}, nil
}
func (stubAuth) Logout(context.Context, string) error { return nil }
func (stubAuth) GetAccount(context.Context, uuid.UUID) (*authsvc.UserDTO, error) {
	return &authsvc.UserDTO{}, nil
}
func (stubAuth) UpdateAccount(context.Context, uuid.UUID, authsvc.UpdateAccountInput) (*authsvc.UserDTO, error) {
	return &authsvc.UserDTO{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "storefront",
			ExpirationMinutes: 15,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:     cfg,
		Logger:     logg,
		Sessions:   stubSessionChecker{},
		Auth:       stubAuth{},
		Users:      stubUsers{},
		Products:   stubProducts{},
		Categories: stubCategories{},
		Reviews:    stubReviews{},
		Inventory:  stubInventory{},
		Analytics:  stubAnalytics{},
	})
}

func mintToken(t *testing.T, cfg *config.Config, role string) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Name:   "Test User",
		Role:   role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPublicCatalogRoutes(t *testing.T) {
	router := newTestRouter(testConfig())

	paths := []string{
		"/api/v1/products",
		"/api/v1/products/" + uuid.NewString(),
		"/api/v1/products/" + uuid.NewString() + "/reviews",
		"/api/v1/categories",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestAuthenticatedRoutesRejectMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/account", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/products", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 creating product without token, got %d", rec.Code)
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/analytics/summary", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, models.RoleCustomer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/analytics/summary", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, models.RoleAdmin))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin token, got %d", rec.Code)
	}
}

func TestCategoryListingHidesInactiveFromPublic(t *testing.T) {
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	categories := &capturingCategories{}
	router := NewRouter(Deps{
		Config:     cfg,
		Logger:     logg,
		Sessions:   stubSessionChecker{},
		Auth:       stubAuth{},
		Users:      stubUsers{},
		Products:   stubProducts{},
		Categories: categories,
		Reviews:    stubReviews{},
		Inventory:  stubInventory{},
		Analytics:  stubAnalytics{},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories?include_inactive=true", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(categories.includeInactive) != 1 || categories.includeInactive[0] {
		t.Fatalf("public listing must only see active categories, got %v", categories.includeInactive)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/categories", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/categories", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, models.RoleAdmin))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin token, got %d", rec.Code)
	}
	if len(categories.includeInactive) != 2 || !categories.includeInactive[1] {
		t.Fatalf("admin listing must include inactive categories, got %v", categories.includeInactive)
	}
}

func TestAccountRouteAcceptsValidJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/account", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, models.RoleCustomer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", rec.Code)
	}
}

func TestHealthRouteWithoutDatasources(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
