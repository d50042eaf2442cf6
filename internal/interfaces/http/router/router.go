package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/infrastructure/auth"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/interfaces/http/handler"
	"github.com/pos/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Product   *handler.ProductHandler
	Category  *handler.CategoryHandler
	Customer  *handler.CustomerHandler
	Supplier  *handler.SupplierHandler
	Sale      *handler.SaleHandler
	Purchase  *handler.PurchaseHandler
	Inventory *handler.InventoryHandler
	Cash      *handler.CashHandler
	Report    *handler.ReportHandler
	Setting   *handler.SettingHandler
}

// Config carries the router's cross-cutting dependencies
type Config struct {
	Logger         *zap.Logger
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	CORS           middleware.CORSConfig
	MaxBodyBytes   int64
}

// New builds the gin engine with all middleware and routes mounted
func New(cfg Config, h Handlers) *gin.Engine {
	engine := gin.New()

	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	engine.Use(logger.AccessLog(cfg.Logger))
	if cfg.MaxBodyBytes > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	}

	jwtConfig := middleware.DefaultJWTConfig(cfg.JWTService)
	jwtConfig.TokenBlacklist = cfg.TokenBlacklist
	jwtConfig.Logger = cfg.Logger

	engine.GET("/health", h.Health.Check)

	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	api.GET("/health", h.Health.Check)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", h.Auth.Logout)
		authGroup.GET("/me", h.Auth.Me)
		authGroup.POST("/change-password", h.Auth.ChangePassword)
	}

	users := api.Group("/users")
	users.Use(middleware.RequireAdmin())
	{
		users.POST("", h.User.Register)
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.DELETE("/:id", h.User.Deactivate)
	}

	products := api.Group("/products")
	{
		products.POST("", h.Product.Create)
		products.GET("", h.Product.List)
		products.GET("/low-stock", h.Product.LowStock)
		products.GET("/code/:code", h.Product.GetByCode)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
		products.GET("/:id/movements", h.Inventory.ProductMovements)
	}

	categories := api.Group("/categories")
	{
		categories.POST("", h.Category.Create)
		categories.GET("", h.Category.List)
		categories.GET("/:id", h.Category.Get)
		categories.PUT("/:id", h.Category.Update)
		categories.DELETE("/:id", h.Category.Delete)
	}

	customers := api.Group("/customers")
	{
		customers.POST("", h.Customer.Create)
		customers.GET("", h.Customer.List)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}

	suppliers := api.Group("/suppliers")
	{
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("", h.Supplier.List)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", h.Supplier.Delete)
	}

	sales := api.Group("/sales")
	{
		sales.POST("", h.Sale.Create)
		sales.POST("/preview", h.Sale.PreviewTotals)
		sales.GET("", h.Sale.List)
		sales.GET("/:id", h.Sale.Get)
		sales.PUT("/:id", middleware.RequireInvoiceManager(), h.Sale.Update)
		sales.DELETE("/:id", middleware.RequireInvoiceManager(), h.Sale.Delete)
	}

	purchases := api.Group("/purchases")
	{
		purchases.POST("", h.Purchase.Create)
		purchases.GET("", h.Purchase.List)
		purchases.GET("/:id", h.Purchase.Get)
		purchases.PUT("/:id", middleware.RequireInvoiceManager(), h.Purchase.Update)
		purchases.DELETE("/:id", middleware.RequireInvoiceManager(), h.Purchase.Delete)
	}

	inventory := api.Group("/inventory")
	{
		inventory.POST("/adjustments", h.Inventory.Adjust)
		inventory.GET("/movements", h.Inventory.ListMovements)
	}

	cash := api.Group("/cash")
	{
		cash.POST("/deposits", h.Cash.Deposit)
		cash.POST("/withdrawals", h.Cash.Withdraw)
		cash.GET("/balance", h.Cash.Balance)
		cash.GET("/transactions", h.Cash.List)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/dashboard", h.Report.Dashboard)
		reports.GET("/sales-trend", h.Report.SalesTrend)
		reports.GET("/profit", h.Report.Profit)
		reports.GET("/top-products", h.Report.TopProducts)
		reports.GET("/top-customers", h.Report.TopCustomers)
		reports.GET("/inventory-valuation", h.Report.InventoryValuation)
	}

	settings := api.Group("/settings")
	{
		settings.PUT("", h.Setting.Upsert)
		settings.GET("", h.Setting.List)
		settings.GET("/:key", h.Setting.Get)
		settings.DELETE("/:key", middleware.RequireAdmin(), h.Setting.Delete)
	}

	return engine
}
