package router

import (
	"time"

	"stockctl/internal/config"
	"stockctl/internal/handler"
	"stockctl/internal/middleware"
	"stockctl/internal/repository"
	"stockctl/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
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
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMin, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	creditRepo := repository.NewCreditRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	productSvc := service.NewProductService(productRepo)
	supplierSvc := service.NewSupplierService(supplierRepo)
	employeeSvc := service.NewEmployeeService(employeeRepo)
	inventorySvc := service.NewInventoryService(purchaseRepo, productRepo, supplierRepo)
	creditSvc := service.NewCreditService(creditRepo, employeeRepo, saleRepo)
	saleSvc := service.NewSaleService(saleRepo, productRepo, employeeRepo, creditRepo, cfg.ReceiptStoragePath)
	reportSvc := service.NewReportService(productRepo, saleRepo, creditSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productsH := handler.NewProductsHandler(productSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	employeesH := handler.NewEmployeesHandler(employeeSvc)
	purchasesH := handler.NewPurchasesHandler(inventorySvc)
	salesH := handler.NewSalesHandler(saleSvc)
	creditsH := handler.NewCreditsHandler(creditSvc)
	dashboardH := handler.NewDashboardHandler(reportSvc)
	reportsH := handler.NewReportsHandler(reportSvc)
	priceH := handler.NewPriceCheckHandler(productSvc, rdb)
	healthH := handler.NewHealthHandler(db)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", healthH.Health)

	// Price check — read-only, cached
	r.GET("/api/price/:sku", priceH.GetPriceBySKU)

	api := r.Group("/api")
	{
		products := api.Group("/products")
		{
			products.POST("", productsH.Create)
			products.GET("", productsH.List)
			products.GET("/:id", productsH.GetByID)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
		}

		suppliers := api.Group("/suppliers")
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.GET("", suppliersH.List)
			suppliers.GET("/:id", suppliersH.GetByID)
			suppliers.PUT("/:id", suppliersH.Update)
			suppliers.DELETE("/:id", suppliersH.Delete)
		}

		employees := api.Group("/employees")
		{
			employees.POST("", employeesH.Create)
			employees.GET("", employeesH.List)
			employees.GET("/:id", employeesH.GetByID)
			employees.PUT("/:id", employeesH.Update)
			employees.DELETE("/:id", employeesH.Delete)
		}

		purchases := api.Group("/purchases")
		{
			purchases.POST("", purchasesH.Create)
			purchases.GET("", purchasesH.List)
			purchases.GET("/:id", purchasesH.GetByID)
			purchases.PUT("/:id", purchasesH.Update)
			purchases.DELETE("/:id", purchasesH.Delete)
		}

		api.GET("/inventory/low-stock", purchasesH.LowStock)
		api.GET("/inventory/report.xlsx", reportsH.InventoryXLSX)

		sales := api.Group("/sales")
		{
			sales.POST("", salesH.Create)
			sales.GET("", salesH.List)
			sales.GET("/:id", salesH.GetByID)
			sales.GET("/:id/receipt", salesH.Receipt)
		}

		credits := api.Group("/credits")
		{
			credits.GET("/summary", creditsH.Summary)
			credits.GET("/payments", creditsH.PaymentHistory)
			credits.GET("/:id/balance", creditsH.Balance)
			credits.POST("/:id/payments", creditsH.RecordPayment)
		}

		api.GET("/dashboard/summary", dashboardH.Summary)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
