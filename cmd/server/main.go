package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/flexprice/gstbill/internal/api"
	"github.com/flexprice/gstbill/internal/api/cron"
	v1 "github.com/flexprice/gstbill/internal/api/v1"
	"github.com/flexprice/gstbill/internal/auth"
	"github.com/flexprice/gstbill/internal/cache"
	"github.com/flexprice/gstbill/internal/config"
	"github.com/flexprice/gstbill/internal/logger"
	"github.com/flexprice/gstbill/internal/postgres"
	"github.com/flexprice/gstbill/internal/razorpay"
	"github.com/flexprice/gstbill/internal/redis"
	"github.com/flexprice/gstbill/internal/repository"
	"github.com/flexprice/gstbill/internal/sentry"
	"github.com/flexprice/gstbill/internal/service"
	"github.com/flexprice/gstbill/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// @title GST Billing API
// @version 1.0
// @description Multi-tenant GST invoicing service
// @BasePath /v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the token in the format *Bearer &lt;token&gt;*

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// Redis, nil when disabled
			redis.NewClient,

			// Auth
			auth.NewProvider,

			// Payment gateway
			razorpay.NewClient,
		),
		postgres.Module(),
		repository.Module(),
		sentry.Module(),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewAuthService,
			service.NewAdminService,
			service.NewTenantService,
			service.NewSettingsService,
			service.NewCustomerService,
			service.NewItemService,
			service.NewBankAccountService,
			service.NewInvoiceService,
			service.NewPaymentService,
			service.NewOverdueService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		// Stop hooks run in reverse, so pools close after the server drains
		fx.Invoke(
			registerShutdown,
			startServer,
			startOverdueTicker,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	db postgres.IClient,
	authService service.AuthService,
	adminService service.AdminService,
	tenantService service.TenantService,
	settingsService service.SettingsService,
	customerService service.CustomerService,
	itemService service.ItemService,
	bankAccountService service.BankAccountService,
	invoiceService service.InvoiceService,
	paymentService service.PaymentService,
	overdueService service.OverdueService,
) api.Handlers {
	return api.Handlers{
		Health:      v1.NewHealthHandler(db, logger),
		Auth:        v1.NewAuthHandler(authService, logger),
		Admin:       v1.NewAdminHandler(adminService, logger),
		Tenant:      v1.NewTenantHandler(tenantService, logger),
		Settings:    v1.NewSettingsHandler(settingsService, logger),
		Customer:    v1.NewCustomerHandler(customerService, logger),
		Item:        v1.NewItemHandler(itemService, logger),
		BankAccount: v1.NewBankAccountHandler(bankAccountService, logger),
		Invoice:     v1.NewInvoiceHandler(invoiceService, logger),
		Payment:     v1.NewPaymentHandler(paymentService, logger),
		CronOverdue: cron.NewOverdueHandler(overdueService, logger),
	}
}

func provideRouter(
	handlers api.Handlers,
	cfg *config.Configuration,
	logger *logger.Logger,
	provider auth.Provider,
	tenantService service.TenantService,
	sentryService *sentry.Service,
) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger, provider, tenantService, sentryService)
}

func startServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server", "address", cfg.Server.Address, "mode", cfg.Deployment.Mode)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}

// startOverdueTicker runs the overdue scan in process when no external
// scheduler calls the cron route
func startOverdueTicker(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	overdueService service.OverdueService,
	log *logger.Logger,
) {
	if !cfg.Overdue.Enabled {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Infow("starting overdue ticker", "interval", cfg.Overdue.Interval())
			go func() {
				defer close(done)
				ticker := time.NewTicker(cfg.Overdue.Interval())
				defer ticker.Stop()

				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						resp, err := overdueService.ScanOverdue(ctx, time.Now().UTC())
						if err != nil {
							log.Errorw("overdue scan failed", "error", err)
							continue
						}
						log.Infow("overdue scan finished",
							"skipped", resp.Skipped,
							"tenants", resp.TenantsScanned,
							"marked", resp.InvoicesMarked,
							"failures", resp.Failures)
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			log.Info("stopping overdue ticker")
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}

func registerShutdown(lc fx.Lifecycle, db *postgres.DB, rdb *redis.Client, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if rdb != nil {
				if err := rdb.Close(); err != nil {
					log.Warnw("failed to close redis", "error", err)
				}
			}
			db.Close()
			return nil
		},
	})
}
