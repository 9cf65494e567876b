package router

import (
	"time"

	"stockroom/internal/config"
	"stockroom/internal/handler"
	"stockroom/internal/middleware"
	"stockroom/internal/repository"
	"stockroom/internal/service"
	"stockroom/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.APIRateLimit, time.Minute))

	service.SetTxTimeout(cfg.TxTimeout())

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	transferRepo := repository.NewTransferRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg, rdb, dispatcher)
	productSvc := service.NewProductService(productRepo, categoryRepo, warehouseRepo, movementRepo)
	receiptSvc := service.NewReceiptService(receiptRepo, productRepo, movementRepo)
	deliverySvc := service.NewDeliveryService(deliveryRepo, productRepo, movementRepo, dispatcher)
	transferSvc := service.NewTransferService(transferRepo, productRepo, movementRepo, warehouseRepo, dispatcher)
	stockSvc := service.NewStockService(movementRepo, productRepo)
	dashboardSvc := service.NewDashboardService(productRepo, receiptRepo, deliveryRepo, transferRepo, movementRepo, warehouseRepo, categoryRepo, rdb)
	warehouseSvc := service.NewWarehouseService(warehouseRepo)
	locationSvc := service.NewLocationService(locationRepo, warehouseRepo)
	categorySvc := service.NewCategoryService(categoryRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	receiptsH := handler.NewReceiptsHandler(receiptSvc)
	deliveriesH := handler.NewDeliveriesHandler(deliverySvc, deliveryRepo)
	transfersH := handler.NewTransfersHandler(transferSvc)
	stockH := handler.NewStockHandler(stockSvc, dashboardSvc)
	warehousesH := handler.NewWarehousesHandler(warehouseSvc, locationSvc)
	locationsH := handler.NewLocationsHandler(locationSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(cfg.LoginRateLimit), authH.Login)
		auth.POST("/refresh", authH.Refresh)
		auth.POST("/forgot-password", middleware.LoginRateLimiter(cfg.LoginRateLimit), authH.ForgotPassword)
		auth.POST("/reset-password", authH.ResetPassword)
	}

	// Protected routes — operator and admin unless noted
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole("operator", "admin")
	adminOnly := middleware.RequireRole("admin")

	v1 := r.Group("/v1", jwtMW)
	{
		// Products
		v1.GET("/products", anyRole, productsH.List)
		v1.GET("/products/:id", anyRole, productsH.Get)
		v1.POST("/products", anyRole, productsH.Create)
		v1.PATCH("/products/:id", anyRole, productsH.Update)
		v1.PATCH("/products/:id/stock", anyRole, productsH.AdjustStock)
		v1.DELETE("/products/:id", adminOnly, productsH.Delete)

		// Receipts
		receipts := v1.Group("/receipts", anyRole)
		{
			receipts.POST("", receiptsH.Create)
			receipts.GET("", receiptsH.List)
			receipts.GET("/:id", receiptsH.Get)
			receipts.PATCH("/:id", receiptsH.Update)
			receipts.PUT("/:id/validate", receiptsH.Validate)
			receipts.PUT("/:id/cancel", receiptsH.Cancel)
			receipts.DELETE("/:id", receiptsH.Delete)
		}

		// Deliveries
		deliveries := v1.Group("/deliveries", anyRole)
		{
			deliveries.POST("", deliveriesH.Create)
			deliveries.GET("", deliveriesH.List)
			deliveries.GET("/:id", deliveriesH.Get)
			deliveries.GET("/:id/slip", deliveriesH.Slip)
			deliveries.PATCH("/:id", deliveriesH.Update)
			deliveries.PUT("/:id/validate", deliveriesH.Validate)
			deliveries.PUT("/:id/cancel", deliveriesH.Cancel)
			deliveries.DELETE("/:id", deliveriesH.Delete)
		}

		// Transfers
		transfers := v1.Group("/transfers", anyRole)
		{
			transfers.POST("", transfersH.Create)
			transfers.GET("", transfersH.List)
			transfers.GET("/:id", transfersH.Get)
			transfers.PATCH("/:id", transfersH.Update)
			transfers.PUT("/:id/in-transit", transfersH.MarkInTransit)
			transfers.PUT("/:id/complete", transfersH.Complete)
			transfers.PUT("/:id/cancel", transfersH.Cancel)
			transfers.DELETE("/:id", transfersH.Delete)
		}

		// Stock views
		v1.GET("/stock", anyRole, productsH.List) // stock_status filter view
		v1.GET("/stock/movements", anyRole, stockH.Movements)
		v1.GET("/stock/low", anyRole, stockH.LowStock)
		v1.GET("/dashboard", anyRole, stockH.Dashboard)
		v1.GET("/dashboard/kpis", anyRole, stockH.Dashboard)
		v1.GET("/dashboard/filters", anyRole, stockH.DashboardFilters)

		// Warehouses — reads for everyone, writes admin only
		v1.GET("/warehouses", anyRole, warehousesH.List)
		v1.GET("/warehouses/:id", anyRole, warehousesH.Get)
		v1.GET("/warehouses/:id/locations", anyRole, warehousesH.ListLocations)
		warehouses := v1.Group("/warehouses", adminOnly)
		{
			warehouses.POST("", warehousesH.Create)
			warehouses.PATCH("/:id", warehousesH.Update)
			warehouses.DELETE("/:id", warehousesH.Deactivate)
		}

		// Locations
		v1.GET("/locations", anyRole, locationsH.List)
		locations := v1.Group("/locations", adminOnly)
		{
			locations.POST("", locationsH.Create)
			locations.PATCH("/:id", locationsH.Update)
			locations.DELETE("/:id", locationsH.Delete)
		}

		// Categories — reads for everyone, writes admin only
		v1.GET("/categories", anyRole, categoriesH.List)
		categories := v1.Group("/categories", adminOnly)
		{
			categories.POST("", categoriesH.Create)
			categories.PATCH("/:id", categoriesH.Update)
			categories.DELETE("/:id", categoriesH.Delete)
		}

		// User management — admin only
		users := v1.Group("/users", adminOnly)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.PATCH("/:id", authH.UpdateUser)
			users.DELETE("/:id", authH.DeactivateUser)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
