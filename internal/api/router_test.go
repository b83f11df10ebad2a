package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flexprice/gstbill/internal/api/cron"
	"github.com/flexprice/gstbill/internal/api/dto"
	v1 "github.com/flexprice/gstbill/internal/api/v1"
	"github.com/flexprice/gstbill/internal/excel"
	"github.com/flexprice/gstbill/internal/service"
	"github.com/flexprice/gstbill/internal/testutil"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type RouterSuite struct {
	testutil.BaseServiceTestSuite
	router *gin.Engine
}

func TestRouter(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	params := service.NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetDB(),
		stores.TenantRepo,
		stores.SettingsRepo,
		stores.CustomerRepo,
		stores.ItemRepo,
		stores.BankAccountRepo,
		stores.InvoiceRepo,
		stores.PaymentRepo,
		s.GetCounter(),
		s.GetLocker(),
		s.GetCache(),
		s.GetAuthProvider(),
		s.GetGateway(),
	)

	log := s.GetLogger()
	tenantService := service.NewTenantService(params)
	handlers := Handlers{
		Health:      v1.NewHealthHandler(s.GetDB(), log),
		Auth:        v1.NewAuthHandler(service.NewAuthService(params), log),
		Admin:       v1.NewAdminHandler(service.NewAdminService(params), log),
		Tenant:      v1.NewTenantHandler(tenantService, log),
		Settings:    v1.NewSettingsHandler(service.NewSettingsService(params), log),
		Customer:    v1.NewCustomerHandler(service.NewCustomerService(params), log),
		Item:        v1.NewItemHandler(service.NewItemService(params), log),
		BankAccount: v1.NewBankAccountHandler(service.NewBankAccountService(params), log),
		Invoice:     v1.NewInvoiceHandler(service.NewInvoiceService(params), log),
		Payment:     v1.NewPaymentHandler(service.NewPaymentService(params), log),
		CronOverdue: cron.NewOverdueHandler(service.NewOverdueService(params), log),
	}

	s.router = NewRouter(handlers, s.GetConfig(), log, s.GetAuthProvider(), tenantService, nil)
}

func (s *RouterSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(types.HeaderAuthorization, "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) decode(w *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func (s *RouterSuite) register() *dto.AuthResponse {
	w := s.do(http.MethodPost, "/v1/auth/register", "", dto.RegisterRequest{
		BusinessName: "Acme Traders",
		OwnerName:    "Asha Rao",
		Email:        "owner@acme.in",
		Password:     "s3cret-pass",
		StateCode:    "29",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp dto.AuthResponse
	s.decode(w, &resp)
	s.Require().NotEmpty(resp.Token)
	return &resp
}

func (s *RouterSuite) adminToken() string {
	w := s.do(http.MethodPost, "/v1/admin/login", "", dto.AdminLoginRequest{
		Username: testutil.TestAdminUsername,
		Password: testutil.TestAdminPassword,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp dto.AuthResponse
	s.decode(w, &resp)
	s.Equal(types.RoleAdmin, resp.Role)
	return resp.Token
}

func (s *RouterSuite) createCustomer(token string) string {
	w := s.do(http.MethodPost, "/v1/customers", token, dto.CreateCustomerRequest{
		Name:  "Globex Industries",
		Email: "accounts@globex.in",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var cust dto.CustomerResponse
	s.decode(w, &cust)
	return cust.ID
}

func (s *RouterSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)

	s.GetDB().PingErr = fmt.Errorf("connection refused")
	defer func() { s.GetDB().PingErr = nil }()

	w = s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func (s *RouterSuite) TestInvoiceFlow() {
	owner := s.register()
	customerID := s.createCustomer(owner.Token)

	w := s.do(http.MethodPost, "/v1/invoices", owner.Token, dto.CreateInvoiceRequest{
		CustomerID: customerID,
		DueDate:    time.Now().UTC().Add(7 * 24 * time.Hour),
		LineItems: []dto.LineItemRequest{
			{Name: "Steel Rod", Quantity: types.NewSafeNumberFromFloat(2), UnitPrice: types.NewSafeNumberFromFloat(100)},
			{Name: "Labour", Quantity: types.NewSafeNumberFromFloat(1), UnitPrice: types.NewSafeNumberFromFloat(50), TaxRate: types.NewSafeNumberFromFloat(5)},
		},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var inv dto.InvoiceResponse
	s.decode(w, &inv)
	s.Equal(fmt.Sprintf("SALE-%d-%05d", time.Now().Year(), 1), inv.InvoiceNumber)
	s.True(decimal.NewFromFloat(288.5).Equal(inv.FinalAmount), inv.FinalAmount.String())

	w = s.do(http.MethodPost, "/v1/invoices/"+inv.ID+"/payments", owner.Token, dto.RecordPaymentRequest{
		Amount:        decimal.NewFromInt(100),
		PaymentMethod: types.PaymentMethodUPI,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var paid dto.RecordPaymentResponse
	s.decode(w, &paid)
	s.Equal(types.PaymentStatusPartial, paid.Invoice.PaymentStatus)
	s.True(decimal.NewFromFloat(188.5).Equal(paid.Invoice.BalanceAmount))

	// overpayment
	w = s.do(http.MethodPost, "/v1/invoices/"+inv.ID+"/payments", owner.Token, dto.RecordPaymentRequest{
		Amount:        decimal.NewFromInt(500),
		PaymentMethod: types.PaymentMethodCash,
	})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/v1/invoices/missing", owner.Token, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterSuite) TestExport() {
	owner := s.register()
	s.createCustomer(owner.Token)

	w := s.do(http.MethodGet, "/v1/customers/export", owner.Token, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal(excel.ContentType, w.Header().Get("Content-Type"))
	s.Contains(w.Header().Get("Content-Disposition"), "customers-")
	s.NotZero(w.Body.Len())
}

func (s *RouterSuite) TestRoleSeparation() {
	owner := s.register()
	admin := s.adminToken()

	w := s.do(http.MethodGet, "/v1/admin/dashboard", owner.Token, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/v1/customers", admin, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/v1/customers", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/v1/admin/dashboard", admin, nil)
	s.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (s *RouterSuite) TestLockedTenantIsRejected() {
	owner := s.register()
	admin := s.adminToken()

	w := s.do(http.MethodGet, "/v1/profile", owner.Token, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/v1/admin/tenants/"+owner.Tenant.ID+"/lock", admin, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/v1/profile", owner.Token, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/v1/admin/tenants/"+owner.Tenant.ID+"/unlock", admin, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/v1/profile", owner.Token, nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterSuite) TestCronRequiresSecret() {
	w := s.do(http.MethodPost, "/v1/cron/invoices/overdue", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/cron/invoices/overdue", nil)
	req.Header.Set(types.HeaderCronSecret, "test-cron-secret")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())
}
