package service

import (
	"context"
	"time"

	"github.com/flexprice/gstbill/internal/api/dto"
	"github.com/flexprice/gstbill/internal/testutil"
	"github.com/flexprice/gstbill/internal/types"
)

// testServiceParams wires the suite's in-memory stores into ServiceParams
func testServiceParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:          s.GetLogger(),
		Config:          s.GetConfig(),
		DB:              s.GetDB(),
		TenantRepo:      stores.TenantRepo,
		SettingsRepo:    stores.SettingsRepo,
		CustomerRepo:    stores.CustomerRepo,
		ItemRepo:        stores.ItemRepo,
		BankAccountRepo: stores.BankAccountRepo,
		InvoiceRepo:     stores.InvoiceRepo,
		PaymentRepo:     stores.PaymentRepo,
		Counter:         s.GetCounter(),
		Locker:          s.GetLocker(),
		Cache:           s.GetCache(),
		Auth:            s.GetAuthProvider(),
		Gateway:         s.GetGateway(),
	}
}

// seedTenant registers the standard test tenant with one customer and returns
// a context acting as its owner
func seedTenant(s *testutil.BaseServiceTestSuite, params ServiceParams) (context.Context, *dto.CustomerResponse) {
	reg, err := NewAuthService(params).Register(s.GetContext(), testRegisterRequest())
	s.Require().NoError(err)
	ctx := testutil.WithTenant(s.GetContext(), reg.Tenant.ID)

	cust, err := NewCustomerService(params).CreateCustomer(ctx, dto.CreateCustomerRequest{
		Name:  "Globex Industries",
		Email: "accounts@globex.in",
		GSTIN: "29abcde1234f1z5",
		BillingAddress: &dto.Address{
			Line1:      "4 Residency Road",
			City:       "Bengaluru",
			State:      "Karnataka",
			PostalCode: "560025",
		},
	})
	s.Require().NoError(err)
	return ctx, cust
}

// invoiceRequest bills 2 x 100 at the default 18% and 1 x 50 at 5%, 288.50 in total
func invoiceRequest(customerID string, due time.Time) dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		CustomerID: customerID,
		DueDate:    due,
		LineItems: []dto.LineItemRequest{
			{Name: "Steel Rod", Quantity: types.NewSafeNumberFromFloat(2), UnitPrice: types.NewSafeNumberFromFloat(100)},
			{Name: "Labour", Quantity: types.NewSafeNumberFromFloat(1), UnitPrice: types.NewSafeNumberFromFloat(50), TaxRate: types.NewSafeNumberFromFloat(5)},
		},
	}
}
