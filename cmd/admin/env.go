package main

import (
	"github.com/flexprice/gstbill/internal/auth"
	"github.com/flexprice/gstbill/internal/cache"
	"github.com/flexprice/gstbill/internal/config"
	"github.com/flexprice/gstbill/internal/logger"
	"github.com/flexprice/gstbill/internal/postgres"
	"github.com/flexprice/gstbill/internal/razorpay"
	"github.com/flexprice/gstbill/internal/redis"
	"github.com/flexprice/gstbill/internal/repository"
	"github.com/flexprice/gstbill/internal/service"
)

// env is the dependency set a command works with. close releases the pools.
type env struct {
	cfg    *config.Configuration
	log    *logger.Logger
	db     *postgres.DB
	redis  *redis.Client
	params service.ServiceParams
}

func loadConfig() (*config.Configuration, *logger.Logger, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func openDB() (*env, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	db, err := postgres.NewDB(cfg, log)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

// openServices wires the service layer the same way the server does
func openServices() (*env, error) {
	e, err := openDB()
	if err != nil {
		return nil, err
	}

	e.redis, err = redis.NewClient(e.cfg, e.log)
	if err != nil {
		e.close()
		return nil, err
	}

	rp := repository.RepositoryParams{
		Logger: e.log,
		Client: postgres.NewClient(e.db, e.log),
		Config: e.cfg,
		Redis:  e.redis,
	}

	e.params = service.NewServiceParams(
		e.log,
		e.cfg,
		rp.Client,
		repository.NewTenantRepository(rp),
		repository.NewSettingsRepository(rp),
		repository.NewCustomerRepository(rp),
		repository.NewItemRepository(rp),
		repository.NewBankAccountRepository(rp),
		repository.NewInvoiceRepository(rp),
		repository.NewPaymentRepository(rp),
		repository.NewSequenceCounter(rp),
		repository.NewLocker(rp),
		cache.NewInMemoryCache(e.cfg, e.log),
		auth.NewProvider(e.cfg),
		razorpay.NewClient(e.cfg, e.log),
	)
	return e, nil
}

func (e *env) close() {
	if e.redis != nil {
		_ = e.redis.Close()
	}
	e.db.Close()
	_ = e.log.Sync()
}
