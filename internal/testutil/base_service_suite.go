package testutil

import (
	"context"
	"time"

	"github.com/flexprice/gstbill/internal/auth"
	"github.com/flexprice/gstbill/internal/cache"
	"github.com/flexprice/gstbill/internal/config"
	"github.com/flexprice/gstbill/internal/domain/bankaccount"
	"github.com/flexprice/gstbill/internal/domain/customer"
	"github.com/flexprice/gstbill/internal/domain/invoice"
	"github.com/flexprice/gstbill/internal/domain/item"
	"github.com/flexprice/gstbill/internal/domain/payment"
	"github.com/flexprice/gstbill/internal/domain/settings"
	"github.com/flexprice/gstbill/internal/domain/tenant"
	"github.com/flexprice/gstbill/internal/lock"
	"github.com/flexprice/gstbill/internal/logger"
	"github.com/flexprice/gstbill/internal/razorpay"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/flexprice/gstbill/internal/validator"
	"github.com/stretchr/testify/suite"
)

const (
	TestAdminUsername   = "admin"
	TestAdminPassword   = "admin-password"
	TestRazorpayKeyID   = "rzp_test_key"
	TestRazorpaySecret  = "rzp_test_secret"
	TestRazorpayBaseURL = "https://api.razorpay.test"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	TenantRepo      tenant.Repository
	SettingsRepo    settings.Repository
	CustomerRepo    customer.Repository
	ItemRepo        item.Repository
	BankAccountRepo bankaccount.Repository
	InvoiceRepo     invoice.Repository
	PaymentRepo     payment.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	stores     Stores
	counter    *InMemoryCounter
	locker     *lock.Local
	cache      cache.Cache
	httpClient *MockHTTPClient
	auth       auth.Provider
	gateway    razorpay.Gateway
	db         *MockPostgresClient
	logger     *logger.Logger
	config     *config.Configuration
	now        time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	// Initialize validator
	validator.NewValidator()

	hash, err := auth.HashPassword(TestAdminPassword)
	if err != nil {
		s.T().Fatalf("failed to hash admin password: %v", err)
	}

	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelInfo
	cfg.Auth.Secret = "test-secret-for-unit-tests-only"
	cfg.Auth.CronSecret = "test-cron-secret"
	cfg.Admin = config.AdminConfig{Username: TestAdminUsername, PasswordHash: hash}
	cfg.Razorpay = config.RazorpayConfig{
		BaseURL:        TestRazorpayBaseURL,
		KeyID:          TestRazorpayKeyID,
		KeySecret:      TestRazorpaySecret,
		TimeoutSeconds: 1,
	}
	s.config = cfg

	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
	s.auth = auth.NewProvider(cfg)
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		TenantRepo:      NewInMemoryTenantStore(),
		SettingsRepo:    NewInMemorySettingsStore(),
		CustomerRepo:    NewInMemoryCustomerStore(),
		ItemRepo:        NewInMemoryItemStore(),
		BankAccountRepo: NewInMemoryBankAccountStore(),
		InvoiceRepo:     NewInMemoryInvoiceStore(),
		PaymentRepo:     NewInMemoryPaymentStore(),
	}

	s.counter = NewInMemoryCounter()
	s.locker = lock.NewLocal()
	s.cache = cache.NewInMemoryCache(s.config, s.logger)
	s.db = NewMockPostgresClient(s.logger)
	s.httpClient = NewMockHTTPClient()
	s.gateway = razorpay.NewClientWithHTTP(s.config, s.httpClient, s.logger)
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.TenantRepo.(*InMemoryTenantStore).Clear()
	s.stores.SettingsRepo.(*InMemorySettingsStore).Clear()
	s.stores.CustomerRepo.(*InMemoryCustomerStore).Clear()
	s.stores.ItemRepo.(*InMemoryItemStore).Clear()
	s.stores.BankAccountRepo.(*InMemoryBankAccountStore).Clear()
	s.stores.InvoiceRepo.(*InMemoryInvoiceStore).Clear()
	s.stores.PaymentRepo.(*InMemoryPaymentStore).Clear()
	s.counter.Clear()
	s.httpClient.Clear()
	s.cache.Flush(s.ctx)
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetCounter() *InMemoryCounter {
	return s.counter
}

func (s *BaseServiceTestSuite) GetLocker() *lock.Local {
	return s.locker
}

func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetHTTPClient returns the mock transport behind the payment gateway
func (s *BaseServiceTestSuite) GetHTTPClient() *MockHTTPClient {
	return s.httpClient
}

func (s *BaseServiceTestSuite) GetAuthProvider() auth.Provider {
	return s.auth
}

func (s *BaseServiceTestSuite) GetGateway() razorpay.Gateway {
	return s.gateway
}

// GetDB returns the test database client
func (s *BaseServiceTestSuite) GetDB() *MockPostgresClient {
	return s.db
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}

// GetUUID returns a new UUID string
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}
