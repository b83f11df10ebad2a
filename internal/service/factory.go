package service

import (
	"github.com/flexprice/gstbill/internal/auth"
	"github.com/flexprice/gstbill/internal/cache"
	"github.com/flexprice/gstbill/internal/config"
	"github.com/flexprice/gstbill/internal/domain/bankaccount"
	"github.com/flexprice/gstbill/internal/domain/customer"
	"github.com/flexprice/gstbill/internal/domain/invoice"
	"github.com/flexprice/gstbill/internal/domain/item"
	"github.com/flexprice/gstbill/internal/domain/payment"
	"github.com/flexprice/gstbill/internal/domain/sequence"
	"github.com/flexprice/gstbill/internal/domain/settings"
	"github.com/flexprice/gstbill/internal/domain/tenant"
	"github.com/flexprice/gstbill/internal/lock"
	"github.com/flexprice/gstbill/internal/logger"
	"github.com/flexprice/gstbill/internal/postgres"
	"github.com/flexprice/gstbill/internal/razorpay"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	// Repositories
	TenantRepo      tenant.Repository
	SettingsRepo    settings.Repository
	CustomerRepo    customer.Repository
	ItemRepo        item.Repository
	BankAccountRepo bankaccount.Repository
	InvoiceRepo     invoice.Repository
	PaymentRepo     payment.Repository

	// Infrastructure
	Counter sequence.Counter
	Locker  lock.Locker
	Cache   cache.Cache
	Auth    auth.Provider
	Gateway razorpay.Gateway
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	tenantRepo tenant.Repository,
	settingsRepo settings.Repository,
	customerRepo customer.Repository,
	itemRepo item.Repository,
	bankAccountRepo bankaccount.Repository,
	invoiceRepo invoice.Repository,
	paymentRepo payment.Repository,
	counter sequence.Counter,
	locker lock.Locker,
	cache cache.Cache,
	authProvider auth.Provider,
	gateway razorpay.Gateway,
) ServiceParams {
	return ServiceParams{
		Logger:          logger,
		Config:          config,
		DB:              db,
		TenantRepo:      tenantRepo,
		SettingsRepo:    settingsRepo,
		CustomerRepo:    customerRepo,
		ItemRepo:        itemRepo,
		BankAccountRepo: bankAccountRepo,
		InvoiceRepo:     invoiceRepo,
		PaymentRepo:     paymentRepo,
		Counter:         counter,
		Locker:          locker,
		Cache:           cache,
		Auth:            authProvider,
		Gateway:         gateway,
	}
}
