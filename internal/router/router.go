package router

import (
	"time"

	"github.com/iskanderbentaleb/partenairex10/internal/config"
	"github.com/iskanderbentaleb/partenairex10/internal/handler"
	"github.com/iskanderbentaleb/partenairex10/internal/infra"
	"github.com/iskanderbentaleb/partenairex10/internal/middleware"
	"github.com/iskanderbentaleb/partenairex10/internal/repository"
	"github.com/iskanderbentaleb/partenairex10/internal/service"
	"github.com/iskanderbentaleb/partenairex10/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, store *infra.InvoiceStore) *gin.Engine {
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
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	investorRepo := repository.NewInvestorRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	purchaseItemRepo := repository.NewPurchaseItemRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	supplierTxRepo := repository.NewSupplierTransactionRepository(db)
	investorTxRepo := repository.NewInvestorTransactionRepository(db)
	balanceRepo := repository.NewBalanceRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	inventorySvc := service.NewInventoryService(purchaseItemRepo)
	balanceSvc := service.NewBalanceService(balanceRepo, supplierRepo, investorRepo)
	supplierSvc := service.NewSupplierService(supplierRepo)
	investorSvc := service.NewInvestorService(investorRepo, balanceSvc)
	ledgerSvc := service.NewLedgerService(supplierTxRepo, investorTxRepo, supplierRepo, investorRepo)
	purchaseSvc := service.NewPurchaseService(
		purchaseRepo, inventorySvc, supplierRepo, investorRepo,
		supplierTxRepo, investorTxRepo, saleRepo, dispatcher,
		cfg.DefaultCurrency, cfg.InvoiceStoragePath,
	)
	saleSvc := service.NewSaleService(
		saleRepo, purchaseItemRepo, inventorySvc,
		investorRepo, investorTxRepo, cfg.DefaultCurrency,
	)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc, balanceSvc)
	investorsH := handler.NewInvestorsHandler(investorSvc, balanceSvc)
	purchasesH := handler.NewPurchasesHandler(purchaseSvc, store)
	salesH := handler.NewSalesHandler(saleSvc)
	transactionsH := handler.NewTransactionsHandler(ledgerSvc)
	reportsH := handler.NewReportsHandler(supplierSvc, investorSvc, balanceSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Account creation is reserved to an already authenticated user.
		v1.POST("/users", authH.Register)

		suppliers := v1.Group("/suppliers")
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.GET("", suppliersH.List)
			suppliers.GET("/:id", suppliersH.Get)
			suppliers.PUT("/:id", suppliersH.Update)
			suppliers.DELETE("/:id", suppliersH.Delete)
			suppliers.GET("/:id/debt", suppliersH.Debt)
		}

		investors := v1.Group("/investors")
		{
			investors.POST("", investorsH.Create)
			investors.GET("", investorsH.List)
			investors.GET("/:id", investorsH.Get)
			investors.PUT("/:id", investorsH.Update)
			investors.DELETE("/:id", investorsH.Delete)
			investors.GET("/:id/balances", investorsH.Balances)
		}

		purchases := v1.Group("/purchases")
		{
			purchases.POST("", purchasesH.Create)
			purchases.GET("", purchasesH.List)
			purchases.GET("/:id", purchasesH.Get)
			purchases.PUT("/:id", purchasesH.Update)
			purchases.DELETE("/:id", purchasesH.Delete)
			purchases.GET("/:id/pdf", purchasesH.DownloadPDF)
			purchases.GET("/:id/invoice-image", purchasesH.DownloadInvoiceImage)
		}

		sales := v1.Group("/sales")
		{
			sales.POST("", salesH.Create)
			sales.GET("", salesH.List)
			sales.GET("/:id", salesH.Get)
			sales.DELETE("/:id", salesH.Delete)
		}
		v1.GET("/investors/:id/available-items", salesH.AvailableInventory)

		transactions := v1.Group("/transactions")
		{
			transactions.POST("/suppliers", transactionsH.CreateSupplier)
			transactions.GET("/suppliers", transactionsH.ListSupplier)
			transactions.PUT("/suppliers/:id", transactionsH.UpdateSupplier)
			transactions.DELETE("/suppliers/:id", transactionsH.DeleteSupplier)

			transactions.POST("/investors", transactionsH.CreateInvestor)
			transactions.GET("/investors", transactionsH.ListInvestor)
			transactions.PUT("/investors/:id", transactionsH.UpdateInvestor)
			transactions.DELETE("/investors/:id", transactionsH.DeleteInvestor)
		}

		v1.GET("/reports/balances.xlsx", reportsH.BalancesXLSX)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
