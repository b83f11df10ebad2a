package api

import (
	"github.com/flexprice/gstbill/internal/api/cron"
	v1 "github.com/flexprice/gstbill/internal/api/v1"
	"github.com/flexprice/gstbill/internal/auth"
	"github.com/flexprice/gstbill/internal/config"
	"github.com/flexprice/gstbill/internal/logger"
	"github.com/flexprice/gstbill/internal/rest/middleware"
	"github.com/flexprice/gstbill/internal/service"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handlers struct {
	Health      *v1.HealthHandler
	Auth        *v1.AuthHandler
	Admin       *v1.AdminHandler
	Tenant      *v1.TenantHandler
	Settings    *v1.SettingsHandler
	Customer    *v1.CustomerHandler
	Item        *v1.ItemHandler
	BankAccount *v1.BankAccountHandler
	Invoice     *v1.InvoiceHandler
	Payment     *v1.PaymentHandler

	CronOverdue *cron.OverdueHandler
}

func NewRouter(
	handlers Handlers,
	cfg *config.Configuration,
	logger *logger.Logger,
	provider auth.Provider,
	tenantService service.TenantService,
	reporter middleware.ErrorReporter,
) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware(),
		middleware.RequestLogger(logger),
		middleware.ErrorHandler(logger, reporter),
	)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", handlers.Health.Health)

	loginLimiter := middleware.NewLoginRateLimiter(cfg, logger)

	v1Public := router.Group("/v1")
	{
		authRoutes := v1Public.Group("/auth")
		authRoutes.POST("/register", loginLimiter.Handler(), handlers.Auth.Register)
		authRoutes.POST("/login", loginLimiter.Handler(), handlers.Auth.Login)

		v1Public.POST("/admin/login", loginLimiter.Handler(), handlers.Admin.Login)
	}

	cronRoutes := router.Group("/v1/cron")
	cronRoutes.Use(middleware.CronSecretMiddleware(cfg))
	{
		cronRoutes.POST("/invoices/overdue", handlers.CronOverdue.ScanOverdue)
	}

	authenticated := middleware.AuthenticateMiddleware(provider, logger)

	owner := router.Group("/v1")
	owner.Use(
		authenticated,
		middleware.RequireRole(types.RoleOwner),
		middleware.TenantAccessMiddleware(tenantService, logger),
	)
	registerOwnerRoutes(owner, handlers)

	admin := router.Group("/v1/admin")
	admin.Use(authenticated, middleware.RequireRole(types.RoleAdmin))
	registerAdminRoutes(admin, handlers)

	return router
}

func registerOwnerRoutes(router *gin.RouterGroup, handlers Handlers) {
	profile := router.Group("/profile")
	{
		profile.GET("", handlers.Tenant.GetProfile)
		profile.PUT("", handlers.Tenant.UpdateProfile)
	}

	settings := router.Group("/settings")
	{
		settings.GET("", handlers.Settings.GetSettings)
		settings.PUT("", handlers.Settings.UpdateSettings)
	}

	customers := router.Group("/customers")
	{
		customers.POST("", handlers.Customer.CreateCustomer)
		customers.GET("", handlers.Customer.GetCustomers)
		customers.POST("/import", handlers.Customer.ImportCustomers)
		customers.GET("/export", handlers.Customer.ExportCustomers)
		customers.GET("/:id", handlers.Customer.GetCustomer)
		customers.PUT("/:id", handlers.Customer.UpdateCustomer)
		customers.DELETE("/:id", handlers.Customer.DeleteCustomer)
	}

	items := router.Group("/items")
	{
		items.POST("", handlers.Item.CreateItem)
		items.GET("", handlers.Item.GetItems)
		items.POST("/import", handlers.Item.ImportItems)
		items.GET("/:id", handlers.Item.GetItem)
		items.PUT("/:id", handlers.Item.UpdateItem)
		items.DELETE("/:id", handlers.Item.DeleteItem)
		items.POST("/:id/stock", handlers.Item.AdjustStock)
	}

	bankAccounts := router.Group("/bank-accounts")
	{
		bankAccounts.POST("", handlers.BankAccount.CreateBankAccount)
		bankAccounts.GET("", handlers.BankAccount.GetBankAccounts)
		bankAccounts.GET("/:id", handlers.BankAccount.GetBankAccount)
		bankAccounts.PUT("/:id", handlers.BankAccount.UpdateBankAccount)
		bankAccounts.DELETE("/:id", handlers.BankAccount.DeleteBankAccount)
		bankAccounts.POST("/:id/default", handlers.BankAccount.SetDefaultBankAccount)
	}

	invoices := router.Group("/invoices")
	{
		invoices.POST("", handlers.Invoice.CreateInvoice)
		invoices.GET("", handlers.Invoice.ListInvoices)
		invoices.GET("/export", handlers.Invoice.ExportInvoices)
		invoices.GET("/:id", handlers.Invoice.GetInvoice)
		invoices.PUT("/:id", handlers.Invoice.UpdateInvoice)
		invoices.DELETE("/:id", handlers.Invoice.DeleteInvoice)
		invoices.PUT("/:id/status", handlers.Invoice.UpdateInvoiceStatus)
		invoices.POST("/:id/payments", handlers.Invoice.RecordPayment)
		invoices.POST("/:id/mark-pending", handlers.Invoice.MarkAsPending)
		invoices.POST("/:id/cancel", handlers.Invoice.CancelInvoice)
		invoices.GET("/:id/legacy", handlers.Invoice.GetLegacyInvoice)
	}

	payments := router.Group("/payments")
	{
		payments.GET("", handlers.Payment.ListPayments)
		payments.POST("/orders", handlers.Payment.CreateOrder)
		payments.POST("/verify", handlers.Payment.VerifyPayment)
	}
}

func registerAdminRoutes(router *gin.RouterGroup, handlers Handlers) {
	router.GET("/dashboard", handlers.Admin.Dashboard)

	tenants := router.Group("/tenants")
	{
		tenants.GET("", handlers.Admin.ListTenants)
		tenants.GET("/:id", handlers.Admin.GetTenant)
		tenants.DELETE("/:id", handlers.Admin.DeleteTenant)
		tenants.POST("/:id/lock", handlers.Admin.LockTenant)
		tenants.POST("/:id/unlock", handlers.Admin.UnlockTenant)
		tenants.POST("/:id/suspend", handlers.Admin.SuspendTenant)
		tenants.POST("/:id/unsuspend", handlers.Admin.UnsuspendTenant)
	}
}
