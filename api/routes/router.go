package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amcruz/storefront-backend/api/controllers"
	"github.com/amcruz/storefront-backend/api/middleware"
	analyticssvc "github.com/amcruz/storefront-backend/internal/analytics"
	authsvc "github.com/amcruz/storefront-backend/internal/auth"
	categorysvc "github.com/amcruz/storefront-backend/internal/categories"
	inventorysvc "github.com/amcruz/storefront-backend/internal/inventory"
	"github.com/amcruz/storefront-backend/internal/media"
	productsvc "github.com/amcruz/storefront-backend/internal/products"
	reviewsvc "github.com/amcruz/storefront-backend/internal/reviews"
	usersvc "github.com/amcruz/storefront-backend/internal/users"
	"github.com/amcruz/storefront-backend/pkg/auth/session"
	"github.com/amcruz/storefront-backend/pkg/config"
	"github.com/amcruz/storefront-backend/pkg/db"
	"github.com/amcruz/storefront-backend/pkg/db/models"
	"github.com/amcruz/storefront-backend/pkg/logger"
	"github.com/amcruz/storefront-backend/pkg/metrics"
	"github.com/amcruz/storefront-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *db.Client
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	HTTPMetrics *metrics.HTTPMetrics

	Auth       authsvc.Service
	Users      usersvc.Service
	Products   productsvc.Service
	Categories categorysvc.Service
	Reviews    reviewsvc.Service
	Inventory  inventorysvc.Service
	Analytics  analyticssvc.Service
	Uploads    *media.Store
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Metrics(deps.HTTPMetrics),
	)

	passthrough := func(next http.Handler) http.Handler { return next }
	loginLimit, registerLimit := passthrough, passthrough
	if deps.Redis != nil {
		loginLimit = middleware.AuthRateLimit(middleware.NewAuthRateLimitPolicy(
			"login",
			cfg.AuthRateLimit.LoginWindow,
			cfg.AuthRateLimit.LoginIPLimit,
			cfg.AuthRateLimit.LoginEmailLimit,
		), deps.Redis, logg)
		registerLimit = middleware.AuthRateLimit(middleware.NewAuthRateLimitPolicy(
			"register",
			cfg.AuthRateLimit.RegisterWindow,
			cfg.AuthRateLimit.RegisterIPLimit,
			cfg.AuthRateLimit.RegisterEmailLimit,
		), deps.Redis, logg)
	}

	var dbPing, cachePing interface {
		Ping(ctx context.Context) error
	}
	if deps.DB != nil {
		dbPing = deps.DB
	}
	if deps.Redis != nil {
		cachePing = deps.Redis
	}
	r.Get("/healthz", controllers.Health(dbPing, cachePing, logg))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if deps.Uploads != nil {
		fileServer := http.StripPrefix(cfg.Uploads.PublicBase+"/", http.FileServer(http.Dir(deps.Uploads.Dir())))
		r.Get(cfg.Uploads.PublicBase+"/*", fileServer.ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(registerLimit).Post("/register", controllers.Register(deps.Auth, logg))
			r.With(loginLimit).Post("/login", controllers.Login(deps.Auth, logg))
			r.Post("/refresh", controllers.Refresh(deps.Auth, logg))
			r.Post("/logout", controllers.Logout(deps.Auth, logg))
		})

		r.Get("/categories", controllers.ListCategories(deps.Categories, logg))
		r.Get("/categories/{categoryId}", controllers.GetCategory(deps.Categories, logg))
		r.Get("/products", controllers.ListProducts(deps.Products, logg))
		r.Get("/products/{productId}", controllers.GetProduct(deps.Products, logg))
		r.Get("/products/{productId}/reviews", controllers.ListReviews(deps.Reviews, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

			r.Get("/account", controllers.GetAccount(deps.Auth, logg))
			r.Patch("/account", controllers.UpdateAccount(deps.Auth, logg))
			r.Post("/products/{productId}/reviews", controllers.SubmitReview(deps.Reviews, logg))
			r.Delete("/products/{productId}/reviews", controllers.DeleteReview(deps.Reviews, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.RequireRole(models.RoleAdmin, logg))

			r.Post("/products", controllers.AdminCreateProduct(deps.Products, logg))
			r.Patch("/products/{productId}", controllers.AdminUpdateProduct(deps.Products, logg))
			r.Delete("/products/{productId}", controllers.AdminDeleteProduct(deps.Products, logg))

			r.Get("/categories", controllers.AdminListCategories(deps.Categories, logg))
			r.Post("/categories", controllers.AdminCreateCategory(deps.Categories, deps.Uploads, logg))
			r.Patch("/categories/{categoryId}", controllers.AdminUpdateCategory(deps.Categories, deps.Uploads, logg))
			r.Delete("/categories/{categoryId}", controllers.AdminDeleteCategory(deps.Categories, logg))

			r.Get("/inventory", controllers.AdminListStock(deps.Inventory, logg))
			r.Patch("/inventory/{productId}", controllers.AdminAdjustStock(deps.Inventory, logg))

			r.Get("/customers", controllers.AdminListCustomers(deps.Users, logg))
			r.Get("/analytics/summary", controllers.AdminSummary(deps.Analytics, logg))
		})
	})

	return r
}
