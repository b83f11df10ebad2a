package repository

import (
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
	"github.com/flexprice/gstbill/internal/redis"
	postgresRepo "github.com/flexprice/gstbill/internal/repository/postgres"
	"github.com/flexprice/gstbill/internal/types"
	"go.uber.org/fx"
)

// RepositoryParams holds common dependencies for repositories
type RepositoryParams struct {
	fx.In

	Logger *logger.Logger
	Client postgres.IClient
	Config *config.Configuration
	// Redis is nil when redis is disabled
	Redis *redis.Client `optional:"true"`
}

func NewTenantRepository(p RepositoryParams) tenant.Repository {
	return postgresRepo.NewTenantRepository(p.Client, p.Logger)
}

func NewSettingsRepository(p RepositoryParams) settings.Repository {
	return postgresRepo.NewSettingsRepository(p.Client, p.Logger)
}

func NewCustomerRepository(p RepositoryParams) customer.Repository {
	return postgresRepo.NewCustomerRepository(p.Client, p.Logger)
}

func NewItemRepository(p RepositoryParams) item.Repository {
	return postgresRepo.NewItemRepository(p.Client, p.Logger)
}

func NewBankAccountRepository(p RepositoryParams) bankaccount.Repository {
	return postgresRepo.NewBankAccountRepository(p.Client, p.Logger)
}

func NewInvoiceRepository(p RepositoryParams) invoice.Repository {
	return postgresRepo.NewInvoiceRepository(p.Client, p.Logger)
}

func NewPaymentRepository(p RepositoryParams) payment.Repository {
	return postgresRepo.NewPaymentRepository(p.Client, p.Logger)
}

// NewSequenceCounter selects the counter backend from config. Asking for redis
// while redis is disabled falls back to postgres.
func NewSequenceCounter(p RepositoryParams) sequence.Counter {
	if p.Config.Invoicing.CounterBackend == types.CounterBackendRedis {
		if p.Redis != nil {
			return redis.NewCounter(p.Redis)
		}
		p.Logger.Warnw("redis counter backend requested but redis is disabled, using postgres")
	}
	return postgresRepo.NewSequenceCounter(p.Client, p.Logger)
}

// NewLocker uses redis locks when redis is available and process local locks otherwise
func NewLocker(p RepositoryParams) lock.Locker {
	if p.Redis != nil {
		return redis.NewLocker(p.Redis)
	}
	return lock.NewLocal()
}

// Module provides every repository to fx
func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			NewTenantRepository,
			NewSettingsRepository,
			NewCustomerRepository,
			NewItemRepository,
			NewBankAccountRepository,
			NewInvoiceRepository,
			NewPaymentRepository,
			NewSequenceCounter,
			NewLocker,
		),
	)
}
