package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/couponhub/coupon-marketplace/internal/api/handler"
	"github.com/couponhub/coupon-marketplace/internal/api/middleware"
	"github.com/couponhub/coupon-marketplace/internal/core/domain"
	"github.com/couponhub/coupon-marketplace/internal/core/service"
	"github.com/couponhub/coupon-marketplace/internal/infrastructure/config"
	mongodb "github.com/couponhub/coupon-marketplace/internal/infrastructure/db/mongo"
	redisdb "github.com/couponhub/coupon-marketplace/internal/infrastructure/db/redis"
	"github.com/couponhub/coupon-marketplace/internal/infrastructure/http/handlers"
	"github.com/couponhub/coupon-marketplace/internal/keymutex"
	"github.com/couponhub/coupon-marketplace/internal/session"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, registry *session.Registry, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("coupon"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Dependencies ---
	companyRepo := mongodb.NewCompanyRepository(db)
	customerRepo := mongodb.NewCustomerRepository(db)
	couponRepo := mongodb.NewCouponRepository(db)
	couponCache := redisdb.NewCouponCache(rdb, cfg.CouponCacheTTL)

	authService := service.NewAuthService(companyRepo, customerRepo, registry, cfg.AdminEmail, cfg.AdminPassword, log)
	adminService := service.NewAdminService(companyRepo, customerRepo, log)
	companyService := service.NewCompanyService(couponRepo, companyRepo, couponCache, log)
	customerService := service.NewCustomerService(couponRepo, customerRepo, couponCache, keymutex.New(0), log)

	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(adminService)
	companyHandler := handler.NewCompanyHandler(companyService)
	customerHandler := handler.NewCustomerHandler(customerService)

	// --- Auth routes ---
	apiGroup := e.Group("/api")
	apiGroup.POST("/login", authHandler.Login)
	apiGroup.POST("/logout", authHandler.Logout)

	// --- Admin routes ---
	admin := apiGroup.Group("/admin", middleware.Auth(registry, domain.RoleAdmin))
	admin.POST("/companies", adminHandler.SaveCompany)
	admin.GET("/companies", adminHandler.ListCompanies)
	admin.GET("/companies/:id", adminHandler.GetCompany)
	admin.PUT("/companies/:id", adminHandler.UpdateCompany)
	admin.DELETE("/companies/:id", adminHandler.DeleteCompany)
	admin.POST("/customers", adminHandler.SaveCustomer)
	admin.GET("/customers", adminHandler.ListCustomers)
	admin.GET("/customers/:id", adminHandler.GetCustomer)
	admin.PUT("/customers/:id", adminHandler.UpdateCustomer)
	admin.DELETE("/customers/:id", adminHandler.DeleteCustomer)

	// --- Company routes ---
	company := apiGroup.Group("/companies", middleware.Auth(registry, domain.RoleCompany))
	company.GET("/me", companyHandler.Me)
	company.PUT("/me", companyHandler.UpdateMe)
	company.POST("/coupons", companyHandler.SaveCoupon)
	company.GET("/coupons", companyHandler.ListCoupons)
	company.GET("/coupons/:id", companyHandler.GetCoupon)
	company.PUT("/coupons/:id", companyHandler.UpdateCoupon)
	company.DELETE("/coupons/:id", companyHandler.DeleteCoupon)

	// --- Customer routes ---
	customer := apiGroup.Group("/customers", middleware.Auth(registry, domain.RoleCustomer))
	customer.GET("/me", customerHandler.Me)
	customer.PUT("/me", customerHandler.UpdateMe)
	customer.GET("/coupons", customerHandler.PurchasedCoupons)
	customer.GET("/coupons/count", customerHandler.PurchasedCount)
	customer.GET("/coupons/available", customerHandler.AvailableCoupons)
	customer.GET("/coupons/ending-before", customerHandler.CouponsEndingBefore)
	customer.POST("/coupons/:id/purchase", customerHandler.Purchase)
	customer.POST("/coupons/:id/return", customerHandler.Return)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
