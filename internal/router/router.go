package router

import (
	"time"

	"github.com/ElenaG-E/temucosoft/internal/config"
	"github.com/ElenaG-E/temucosoft/internal/handler"
	"github.com/ElenaG-E/temucosoft/internal/infra"
	"github.com/ElenaG-E/temucosoft/internal/middleware"
	"github.com/ElenaG-E/temucosoft/internal/model"
	"github.com/ElenaG-E/temucosoft/internal/repository"
	"github.com/ElenaG-E/temucosoft/internal/service"
	"github.com/ElenaG-E/temucosoft/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher, smtpCB *infra.CircuitBreaker) *gin.Engine {
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
	companyRepo := repository.NewCompanyRepository(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	cartRepo := repository.NewCartRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	inventorySvc := service.NewInventoryService(inventoryRepo, branchRepo, productRepo)
	documentSvc := service.NewDocumentService(
		inventorySvc, productRepo, branchRepo, companyRepo,
		purchaseRepo, saleRepo, orderRepo, dispatcher, db,
	)
	orderSvc := service.NewOrderService(orderRepo, inventorySvc, dispatcher)
	cartSvc := service.NewCartService(cartRepo, productRepo, documentSvc)
	authSvc := service.NewAuthService(userRepo, cartSvc, cfg)
	companySvc := service.NewCompanyService(companyRepo)
	productSvc := service.NewProductService(productRepo, rdb)
	branchSvc := service.NewBranchService(branchRepo)
	supplierSvc := service.NewSupplierService(supplierRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	rutH := handler.NewRUTHandler()
	companiesH := handler.NewCompaniesHandler(companySvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	branchesH := handler.NewBranchesHandler(branchSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	documentsH := handler.NewDocumentsHandler(documentSvc)
	ordersH := handler.NewOrdersHandler(documentSvc, orderSvc)
	cartH := handler.NewCartHandler(cartSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))
	r.POST("/v1/validate-rut", rutH.Validate)
	r.GET("/v1/price/:sku", productsH.LookupPrice)

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Storefront cart — guests use a session key, clients their token
	cart := r.Group("/v1/cart", middleware.OptionalJWT(cfg.JWTSecret))
	{
		cart.GET("", cartH.Get)
		cart.POST("", cartH.AddItem)
		cart.DELETE("/:product_id", cartH.RemoveItem)
		cart.POST("/checkout", cartH.Checkout)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		staff := middleware.RequireRole(model.RoleVendedor, model.RoleGerente, model.RoleAdminCliente)
		managers := middleware.RequireRole(model.RoleGerente, model.RoleAdminCliente)
		admins := middleware.RequireRole(model.RoleAdminCliente)

		// Platform tenant administration
		companies := v1.Group("/companies", middleware.RequireRole(model.RoleSuperAdmin))
		{
			companies.POST("", companiesH.Create)
			companies.GET("", companiesH.List)
			companies.GET("/:id", companiesH.Get)
			companies.POST("/:id/subscription", companiesH.Subscribe)
		}

		users := v1.Group("/users", middleware.RequireRole(model.RoleSuperAdmin, model.RoleAdminCliente))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
		}

		// Catalog — staff read, managers write
		v1.GET("/products", staff, productsH.List)
		v1.GET("/products/:id", staff, productsH.Get)
		products := v1.Group("/products", managers)
		{
			products.POST("", productsH.Create)
			products.PUT("/:id", productsH.Update)
			products.PATCH("/:id/deactivate", productsH.Deactivate)
			products.DELETE("/:id", productsH.Delete)
		}

		branches := v1.Group("/branches", managers)
		{
			branches.POST("", branchesH.Create)
			branches.GET("", branchesH.List)
			branches.PUT("/:id", branchesH.Update)
			branches.DELETE("/:id", branchesH.Deactivate)
		}

		suppliers := v1.Group("/suppliers", admins)
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.GET("", suppliersH.List)
			suppliers.PUT("/:id", suppliersH.Update)
			suppliers.DELETE("/:id", suppliersH.Delete)
		}

		v1.GET("/inventory", staff, inventoryH.List)
		v1.PATCH("/inventory", managers, inventoryH.Adjust)

		v1.POST("/purchases", managers, documentsH.CreatePurchase)
		v1.GET("/purchases", managers, documentsH.ListPurchases)

		v1.POST("/sales", staff, documentsH.CreateSale)
		v1.GET("/sales", staff, documentsH.ListSales)

		v1.POST("/orders", staff, ordersH.Create)
		v1.GET("/orders", staff, ordersH.List)
		v1.GET("/orders/:id", staff, ordersH.Get)
		v1.PATCH("/orders/:id/status", managers, ordersH.Transition)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
