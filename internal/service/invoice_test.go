package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/flexprice/gstbill/internal/api/dto"
	"github.com/flexprice/gstbill/internal/domain/invoice"
	"github.com/flexprice/gstbill/internal/domain/sequence"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/excel"
	"github.com/flexprice/gstbill/internal/testutil"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  InvoiceService
	params   ServiceParams
	ctx      context.Context
	tenantID string
	customer *dto.CustomerResponse
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.params = testServiceParams(&s.BaseServiceTestSuite)
	s.service = NewInvoiceService(s.params)
	s.ctx, s.customer = seedTenant(&s.BaseServiceTestSuite, s.params)
	s.tenantID = types.GetTenantID(s.ctx)
}

func num(f float64) types.SafeNumber {
	return types.NewSafeNumberFromFloat(f)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func salesNumber(n int) string {
	return fmt.Sprintf("SALE-%d-%05d", time.Now().Year(), n)
}

func (s *InvoiceServiceSuite) basicRequest() dto.CreateInvoiceRequest {
	return invoiceRequest(s.customer.ID, time.Now().UTC().AddDate(0, 0, 30))
}

func (s *InvoiceServiceSuite) create(req dto.CreateInvoiceRequest) *dto.InvoiceResponse {
	resp, err := s.service.CreateInvoice(s.ctx, req)
	s.Require().NoError(err)
	return resp
}

func (s *InvoiceServiceSuite) TestCreateInvoice() {
	inv := s.create(s.basicRequest())

	s.Equal(salesNumber(1), inv.InvoiceNumber)
	s.Equal(types.InvoiceTypeSales, inv.InvoiceType)
	s.Equal(types.InvoiceStatusPending, inv.InvoiceStatus)
	s.Equal(types.PaymentStatusPending, inv.PaymentStatus)
	s.NotNil(inv.SentDate)
	s.Contains(inv.Tags, "SALES")
	s.Empty(inv.ComputationWarnings)

	s.Require().Len(inv.LineItems, 2)
	s.True(inv.LineItems[0].LineTotal.Equal(dec("200")))
	s.True(inv.LineItems[0].TaxAmount.Equal(dec("36")))
	s.True(inv.LineItems[1].TotalAmount.Equal(dec("52.5")))

	s.True(inv.Subtotal.Equal(dec("250")))
	s.True(inv.TotalTaxAmount.Equal(dec("38.5")))
	s.True(inv.FinalAmount.Equal(dec("288.5")))
	s.True(inv.BalanceAmount.Equal(dec("288.5")))
	s.True(inv.PaidAmount.IsZero())
	s.Equal(types.TaxTypeIGST, inv.TaxType)
	s.True(inv.TaxBreakdown.IGST.Equal(dec("38.5")))
	s.True(inv.TaxBreakdown.CGST.IsZero())

	s.Equal("Globex Industries", inv.Customer.Name)
	s.Equal("29ABCDE1234F1Z5", inv.Customer.GSTIN)
	s.Equal("Bengaluru", inv.Customer.ShippingAddress.City)
	s.Equal("Acme Traders", inv.Business.Name)
	s.Equal("29", inv.Business.StateCode)
	s.Equal("Asha Rao", inv.Authorization.SignatoryName)

	stored, err := s.GetStores().InvoiceRepo.Get(s.ctx, inv.ID)
	s.Require().NoError(err)
	s.Equal(inv.InvoiceNumber, stored.InvoiceNumber)
}

func (s *InvoiceServiceSuite) TestNumberingIsScopedByType() {
	first := s.create(s.basicRequest())
	second := s.create(s.basicRequest())

	purchase := s.basicRequest()
	purchase.InvoiceType = types.InvoiceTypePurchase
	pur := s.create(purchase)

	quote := s.basicRequest()
	quote.InvoiceType = types.InvoiceTypeQuotation
	quot := s.create(quote)

	year := time.Now().Year()
	s.Equal(salesNumber(1), first.InvoiceNumber)
	s.Equal(salesNumber(2), second.InvoiceNumber)
	s.Equal(fmt.Sprintf("PUR-%d-00001", year), pur.InvoiceNumber)
	s.Equal(fmt.Sprintf("QUOT-%d-00001", year), quot.InvoiceNumber)
	s.ElementsMatch([]string{"PURCHASE"}, pur.Tags)

	_, err := NewSettingsService(s.params).UpdateSettings(s.ctx, dto.UpdateSettingsRequest{
		SalesPrefix: lo.ToPtr("INV-"),
	})
	s.Require().NoError(err)

	third := s.create(s.basicRequest())
	s.Equal("INV-00003", third.InvoiceNumber)
}

func (s *InvoiceServiceSuite) TestNumberingSkipsTakenNumbers() {
	s.create(s.basicRequest())

	// a counter that fell behind must not hand out a used number
	key := sequence.InvoiceKey(s.tenantID, types.InvoiceTypeSales.String(), time.Now().Year())
	s.GetCounter().Set(key, 0)

	inv := s.create(s.basicRequest())
	s.Equal(salesNumber(2), inv.InvoiceNumber)
}

func (s *InvoiceServiceSuite) TestNumberingGivesUp() {
	cfg := *s.params.Config
	cfg.Invoicing.MaxNumberAttempts = 2
	params := s.params
	params.Config = &cfg
	svc := NewInvoiceService(params)

	s.create(s.basicRequest())
	s.create(s.basicRequest())

	key := sequence.InvoiceKey(s.tenantID, types.InvoiceTypeSales.String(), time.Now().Year())
	s.GetCounter().Set(key, 0)

	_, err := svc.CreateInvoice(s.ctx, s.basicRequest())
	s.Require().Error(err)
	s.True(ierr.IsNumberGeneration(err))

	count, err := s.GetStores().InvoiceRepo.Count(s.ctx, types.NewNoLimitInvoiceFilter())
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *InvoiceServiceSuite) TestConcurrentCreateYieldsDistinctNumbers() {
	const n = 20

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []string
		errs    []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := s.service.CreateInvoice(s.ctx, s.basicRequest())
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers = append(numbers, resp.InvoiceNumber)
		}()
	}
	wg.Wait()

	s.Empty(errs)
	s.Len(lo.Uniq(numbers), n)
	s.Contains(numbers, salesNumber(1))
	s.Contains(numbers, salesNumber(n))
}

func (s *InvoiceServiceSuite) TestCustomerOverridesAndFrozenSnapshot() {
	req := s.basicRequest()
	req.CustomerName = " Globex Ltd "
	req.ShippingAddress = &dto.Address{City: "Mysuru"}
	overridden := s.create(req)

	s.Equal("Globex Ltd", overridden.Customer.Name)
	s.Equal("accounts@globex.in", overridden.Customer.Email)
	s.Equal("Mysuru", overridden.Customer.ShippingAddress.City)
	s.Equal("4 Residency Road", overridden.Customer.ShippingAddress.Line1)

	plain := s.create(s.basicRequest())
	_, err := NewCustomerService(s.params).UpdateCustomer(s.ctx, s.customer.ID, dto.UpdateCustomerRequest{
		Name: lo.ToPtr("Globex Renamed"),
	})
	s.Require().NoError(err)

	got, err := s.service.GetInvoice(s.ctx, plain.ID)
	s.Require().NoError(err)
	s.Equal("Globex Industries", got.Customer.Name)
}

func (s *InvoiceServiceSuite) TestLineItemsFromInventory() {
	items := NewItemService(s.params)
	rod, err := items.CreateItem(s.ctx, dto.CreateItemRequest{
		Name:          "Steel Rod",
		Unit:          "kg",
		HSNCode:       "7214",
		SalePrice:     dec("100"),
		PurchasePrice: dec("70"),
		TaxRate:       lo.ToPtr(dec("12")),
		PricingTiers: []dto.PricingTierInput{
			{MinQuantity: dec("10"), UnitPrice: dec("90")},
		},
	})
	s.Require().NoError(err)

	req := s.basicRequest()
	req.LineItems = []dto.LineItemRequest{{ItemID: lo.ToPtr(rod.ID), Quantity: num(10)}}
	inv := s.create(req)

	line := inv.LineItems[0]
	s.Equal("Steel Rod", line.Name)
	s.Equal("kg", line.Unit)
	s.Equal("7214", line.HSNCode)
	s.True(line.UnitPrice.Equal(dec("90")))
	s.True(line.TaxRate.Equal(dec("12")))
	s.True(line.LineTotal.Equal(dec("900")))
	s.True(line.TaxAmount.Equal(dec("108")))

	req.InvoiceType = types.InvoiceTypePurchase
	req.LineItems = []dto.LineItemRequest{{ItemID: lo.ToPtr(rod.ID), Quantity: num(2), Name: "Rod 12mm"}}
	pur := s.create(req)
	s.Equal("Rod 12mm", pur.LineItems[0].Name)
	s.True(pur.LineItems[0].UnitPrice.Equal(dec("70")))

	req.LineItems = []dto.LineItemRequest{{ItemID: lo.ToPtr("item_missing"), Quantity: num(1)}}
	_, err = s.service.CreateInvoice(s.ctx, req)
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceValidation() {
	testCases := []struct {
		name   string
		mutate func(*dto.CreateInvoiceRequest)
		check  func(error) bool
	}{
		{
			name:   "missing_customer_id",
			mutate: func(r *dto.CreateInvoiceRequest) { r.CustomerID = "" },
			check:  ierr.IsValidation,
		},
		{
			name:   "unknown_customer",
			mutate: func(r *dto.CreateInvoiceRequest) { r.CustomerID = "cust_missing" },
			check:  ierr.IsNotFound,
		},
		{
			name:   "no_line_items",
			mutate: func(r *dto.CreateInvoiceRequest) { r.LineItems = nil },
			check:  ierr.IsValidation,
		},
		{
			name: "missing_quantity",
			mutate: func(r *dto.CreateInvoiceRequest) {
				r.LineItems[1].Quantity = types.SafeNumber{}
			},
			check: func(err error) bool {
				return ierr.IsValidation(err) && ierr.DisplayMessage(err) == "line_items[1]: quantity is required"
			},
		},
		{
			name:   "initial_status_paid",
			mutate: func(r *dto.CreateInvoiceRequest) { r.InvoiceStatus = types.InvoiceStatusPaid },
			check:  ierr.IsValidation,
		},
		{
			name: "due_before_issue",
			mutate: func(r *dto.CreateInvoiceRequest) {
				r.IssueDate = lo.ToPtr(r.DueDate.AddDate(0, 0, 1))
			},
			check: ierr.IsValidation,
		},
		{
			name:   "tax_rate_above_hundred",
			mutate: func(r *dto.CreateInvoiceRequest) { r.TaxRate = num(120) },
			check:  ierr.IsValidation,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req := s.basicRequest()
			tc.mutate(&req)
			_, err := s.service.CreateInvoice(s.ctx, req)
			s.Require().Error(err)
			s.True(tc.check(err), "unexpected error: %v", err)
		})
	}

	count, err := s.GetStores().InvoiceRepo.Count(s.ctx, types.NewNoLimitInvoiceFilter())
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *InvoiceServiceSuite) TestLenientNumbersFallBackWithWarnings() {
	req := s.basicRequest()
	req.LineItems = []dto.LineItemRequest{{Name: "Service", Quantity: types.ParseSafeNumber(""), UnitPrice: num(100)}}
	req.TransportCharges = types.ParseSafeNumber("abc")
	req.OtherCharges = types.ParseSafeNumber("")

	inv := s.create(req)
	s.True(inv.LineItems[0].Quantity.Equal(decimal.NewFromInt(1)))
	s.True(inv.TransportCharges.IsZero())
	s.True(inv.FinalAmount.Equal(dec("118")))

	fields := lo.Map(inv.ComputationWarnings, func(w invoice.ComputationWarning, _ int) string { return w.Field })
	s.Contains(fields, "line_items[0].quantity")
	s.Contains(fields, "transport_charges")
}

func (s *InvoiceServiceSuite) TestSplitTaxRegime() {
	req := s.basicRequest()
	req.TaxType = types.TaxTypeCGSTSGST
	inv := s.create(req)

	s.True(inv.TaxBreakdown.CGST.Equal(dec("19.25")))
	s.True(inv.TaxBreakdown.SGST.Equal(dec("19.25")))
	s.True(inv.TaxBreakdown.IGST.IsZero())
}

func (s *InvoiceServiceSuite) TestBankSnapshot() {
	_, err := NewBankAccountService(s.params).CreateBankAccount(s.ctx, dto.CreateBankAccountRequest{
		BankName:      "HDFC Bank",
		AccountNumber: "50100123456789",
		IFSC:          "HDFC0001234",
	})
	s.Require().NoError(err)

	inv := s.create(s.basicRequest())
	s.Equal("HDFC Bank", inv.Bank.BankName)
	s.Equal("HDFC0001234", inv.Bank.IFSC)

	req := s.basicRequest()
	req.Bank = &invoice.BankSnapshot{BankName: "State Bank of India", AccountNumber: "000111222"}
	overridden := s.create(req)
	s.Equal("State Bank of India", overridden.Bank.BankName)
	s.Empty(overridden.Bank.IFSC)
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceRecomputes() {
	inv := s.create(s.basicRequest())

	updated, err := s.service.UpdateInvoice(s.ctx, inv.ID, dto.UpdateInvoiceRequest{
		DiscountType:  lo.ToPtr(types.DiscountTypePercentage),
		DiscountValue: num(10),
	})
	s.Require().NoError(err)
	s.Len(updated.LineItems, 2)
	s.True(updated.DiscountAmount.Equal(dec("28.85")))
	s.True(updated.FinalAmount.Equal(dec("259.65")))
	s.Equal(inv.InvoiceNumber, updated.InvoiceNumber)

	lines := []dto.LineItemRequest{{Name: "Consulting", Quantity: num(1), UnitPrice: num(100)}}
	updated, err = s.service.UpdateInvoice(s.ctx, inv.ID, dto.UpdateInvoiceRequest{
		LineItems: &lines,
		Customer:  &invoice.CustomerSnapshot{Name: "Globex Corrected"},
	})
	s.Require().NoError(err)
	s.Len(updated.LineItems, 1)
	s.True(updated.Subtotal.Equal(dec("100")))
	s.True(updated.DiscountAmount.Equal(dec("11.8")))
	s.True(updated.FinalAmount.Equal(dec("106.2")))
	s.Equal("Globex Corrected", updated.Customer.Name)
	// untouched snapshots survive
	s.Equal("Acme Traders", updated.Business.Name)
}

func (s *InvoiceServiceSuite) TestUpdateTaxRateRerates() {
	inv := s.create(s.basicRequest())
	s.True(inv.TaxRate.Equal(dec("18")))

	updated, err := s.service.UpdateInvoice(s.ctx, inv.ID, dto.UpdateInvoiceRequest{TaxRate: num(12)})
	s.Require().NoError(err)
	s.True(updated.TaxRate.Equal(dec("12")))
	s.Require().Len(updated.LineItems, 2)
	s.True(updated.LineItems[0].TaxRate.Equal(dec("12")), updated.LineItems[0].TaxRate.String())
	s.True(updated.LineItems[0].TaxAmount.Equal(dec("24")))
	// an explicit line rate is kept
	s.True(updated.LineItems[1].TaxRate.Equal(dec("5")))
	s.True(updated.TotalTaxAmount.Equal(dec("26.5")), updated.TotalTaxAmount.String())
	s.True(updated.FinalAmount.Equal(dec("276.5")), updated.FinalAmount.String())
	s.True(updated.BalanceAmount.Equal(dec("276.5")))
}

func (s *InvoiceServiceSuite) TestUpdateCancelledInvoiceRefused() {
	inv := s.create(s.basicRequest())
	_, err := s.service.CancelInvoice(s.ctx, inv.ID)
	s.Require().NoError(err)

	_, err = s.service.UpdateInvoice(s.ctx, inv.ID, dto.UpdateInvoiceRequest{Notes: lo.ToPtr("late edit")})
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceStatus() {
	req := s.basicRequest()
	req.InvoiceStatus = types.InvoiceStatusDraft
	inv := s.create(req)
	s.Nil(inv.SentDate)

	sent, err := s.service.UpdateInvoiceStatus(s.ctx, inv.ID, dto.UpdateInvoiceStatusRequest{Status: types.InvoiceStatusPending})
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPending, sent.InvoiceStatus)
	s.NotNil(sent.SentDate)
	// totals are left alone
	s.True(sent.FinalAmount.Equal(inv.FinalAmount))

	_, err = s.service.UpdateInvoiceStatus(s.ctx, inv.ID, dto.UpdateInvoiceStatusRequest{Status: types.InvoiceStatusDraft})
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.service.UpdateInvoiceStatus(s.ctx, inv.ID, dto.UpdateInvoiceStatusRequest{Status: "archived"})
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceSuite) TestPaidStatusFollowsBalance() {
	inv := s.create(s.basicRequest())

	_, err := s.service.RecordPayment(s.ctx, inv.ID, dto.RecordPaymentRequest{
		Amount:        dec("100"),
		PaymentMethod: types.PaymentMethodUPI,
	})
	s.Require().NoError(err)

	// an outstanding balance cannot be marked paid
	_, err = s.service.UpdateInvoiceStatus(s.ctx, inv.ID, dto.UpdateInvoiceStatusRequest{Status: types.InvoiceStatusPaid})
	s.True(ierr.IsInvalidOperation(err))

	stored, err := s.GetStores().InvoiceRepo.Get(s.ctx, inv.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPending, stored.InvoiceStatus)
	s.Equal(types.PaymentStatusPartial, stored.PaymentStatus)

	full, err := s.service.RecordPayment(s.ctx, inv.ID, dto.RecordPaymentRequest{
		Amount:        dec("188.5"),
		PaymentMethod: types.PaymentMethodBank,
	})
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPaid, full.Invoice.InvoiceStatus)

	lines := []dto.LineItemRequest{
		{Name: "Steel Rod", Quantity: num(2), UnitPrice: num(100)},
		{Name: "Labour", Quantity: num(1), UnitPrice: num(50), TaxRate: num(5)},
		{Name: "Freight", Quantity: num(1), UnitPrice: num(100)},
	}
	updated, err := s.service.UpdateInvoice(s.ctx, inv.ID, dto.UpdateInvoiceRequest{LineItems: &lines})
	s.Require().NoError(err)
	s.True(updated.FinalAmount.Equal(dec("406.5")), updated.FinalAmount.String())
	s.True(updated.BalanceAmount.Equal(dec("118")), updated.BalanceAmount.String())
	s.Equal(types.InvoiceStatusPending, updated.InvoiceStatus)
	s.Equal(types.PaymentStatusPartial, updated.PaymentStatus)
	s.Nil(updated.PaidDate)
}

func (s *InvoiceServiceSuite) TestRecordPayment() {
	inv := s.create(s.basicRequest())
	txBefore := s.GetDB().TxCount()

	partial, err := s.service.RecordPayment(s.ctx, inv.ID, dto.RecordPaymentRequest{
		Amount:        dec("100"),
		PaymentMethod: types.PaymentMethodUPI,
		Reference:     "UPI-REF-1",
	})
	s.Require().NoError(err)
	s.Equal(txBefore+1, s.GetDB().TxCount())
	s.Equal(types.PaymentStatusPartial, partial.Invoice.PaymentStatus)
	s.True(partial.Invoice.BalanceAmount.Equal(dec("188.5")))
	s.Equal(types.PaymentStateCaptured, partial.Payment.PaymentState)
	s.Contains(partial.Payment.ReceiptNumber, types.SHORT_ID_PREFIX_RECEIPT)

	_, err = s.service.RecordPayment(s.ctx, inv.ID, dto.RecordPaymentRequest{
		Amount:        dec("500"),
		PaymentMethod: types.PaymentMethodCash,
	})
	s.True(ierr.IsValidation(err))

	full, err := s.service.RecordPayment(s.ctx, inv.ID, dto.RecordPaymentRequest{
		Amount:        dec("188.5"),
		PaymentMethod: types.PaymentMethodBank,
	})
	s.Require().NoError(err)
	s.Equal(types.PaymentStatusPaid, full.Invoice.PaymentStatus)
	s.Equal(types.InvoiceStatusPaid, full.Invoice.InvoiceStatus)
	s.NotNil(full.Invoice.PaidDate)
	s.True(full.Invoice.BalanceAmount.IsZero())

	payments, err := s.GetStores().PaymentRepo.List(s.ctx, &types.PaymentFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
		InvoiceID:   inv.ID,
	})
	s.Require().NoError(err)
	s.Len(payments, 2)

	_, err = s.service.RecordPayment(s.ctx, inv.ID, dto.RecordPaymentRequest{
		Amount:        dec("10"),
		PaymentMethod: types.PaymentMethodRazorpay,
	})
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceSuite) TestMarkAsPending() {
	inv := s.create(s.basicRequest())
	_, err := s.service.RecordPayment(s.ctx, inv.ID, dto.RecordPaymentRequest{
		Amount:        inv.FinalAmount,
		PaymentMethod: types.PaymentMethodCash,
	})
	s.Require().NoError(err)

	reverted, err := s.service.MarkAsPending(s.ctx, inv.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPending, reverted.InvoiceStatus)
	s.Equal(types.PaymentStatusPending, reverted.PaymentStatus)
	s.True(reverted.PaidAmount.IsZero())
	s.True(reverted.BalanceAmount.Equal(inv.FinalAmount))
	s.Nil(reverted.PaidDate)
}

func (s *InvoiceServiceSuite) TestCancelInvoice() {
	inv := s.create(s.basicRequest())

	cancelled, err := s.service.CancelInvoice(s.ctx, inv.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusCancelled, cancelled.InvoiceStatus)
	s.Equal(types.PaymentStatusCancelled, cancelled.PaymentStatus)

	_, err = s.service.RecordPayment(s.ctx, inv.ID, dto.RecordPaymentRequest{
		Amount:        dec("10"),
		PaymentMethod: types.PaymentMethodCash,
	})
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.service.CancelInvoice(s.ctx, inv.ID)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestDeleteInvoice() {
	inv := s.create(s.basicRequest())
	customers := NewCustomerService(s.params)

	s.True(ierr.IsInvalidOperation(customers.DeleteCustomer(s.ctx, s.customer.ID)))

	s.Require().NoError(s.service.DeleteInvoice(s.ctx, inv.ID))
	_, err := s.service.GetInvoice(s.ctx, inv.ID)
	s.True(ierr.IsNotFound(err))

	s.NoError(customers.DeleteCustomer(s.ctx, s.customer.ID))
}

func (s *InvoiceServiceSuite) TestTenantIsolation() {
	inv := s.create(s.basicRequest())
	other := testutil.WithTenant(s.GetContext(), "tenant_other")

	_, err := s.service.GetInvoice(other, inv.ID)
	s.True(ierr.IsNotFound(err))

	_, err = s.service.CancelInvoice(other, inv.ID)
	s.True(ierr.IsNotFound(err))

	list, err := s.service.ListInvoices(other, types.NewInvoiceFilter())
	s.Require().NoError(err)
	s.Empty(list.Items)
}

func (s *InvoiceServiceSuite) TestListInvoices() {
	req := s.basicRequest()
	req.Tags = []string{"priority"}
	s.create(req)
	s.create(s.basicRequest())

	purchase := s.basicRequest()
	purchase.InvoiceType = types.InvoiceTypePurchase
	s.create(purchase)

	all, err := s.service.ListInvoices(s.ctx, nil)
	s.Require().NoError(err)
	s.Len(all.Items, 3)
	s.Equal(3, all.Pagination.Total)

	filter := types.NewInvoiceFilter()
	filter.InvoiceType = types.InvoiceTypePurchase
	purchases, err := s.service.ListInvoices(s.ctx, filter)
	s.Require().NoError(err)
	s.Len(purchases.Items, 1)

	filter = types.NewInvoiceFilter()
	filter.Tag = "priority"
	tagged, err := s.service.ListInvoices(s.ctx, filter)
	s.Require().NoError(err)
	s.Require().Len(tagged.Items, 1)
	s.ElementsMatch([]string{"priority", "SALES"}, tagged.Items[0].Tags)

	filter = types.NewInvoiceFilter()
	filter.InvoiceType = "CREDIT"
	_, err = s.service.ListInvoices(s.ctx, filter)
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceSuite) TestGetLegacyInvoice() {
	inv := s.create(s.basicRequest())

	legacy, err := s.service.GetLegacyInvoice(s.ctx, inv.ID, "")
	s.Require().NoError(err)
	s.Equal(invoice.LegacyVersion, legacy.Version)
	s.Equal(inv.InvoiceNumber, legacy.InvoiceNumber)
	s.Equal("Globex Industries", legacy.CustomerInfo.Name)
	s.Equal("29ABCDE1234F1Z5", legacy.CustomerInfo.GSTNumber)
	s.Len(legacy.Items, 2)
	s.True(legacy.TotalAmount.Equal(dec("288.5")))

	_, err = s.service.GetLegacyInvoice(s.ctx, inv.ID, "v9")
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceSuite) TestExportInvoices() {
	first := s.create(s.basicRequest())
	s.create(s.basicRequest())

	data, err := s.service.ExportInvoices(s.ctx, nil)
	s.Require().NoError(err)

	rows, err := excel.ReadRows(data)
	s.Require().NoError(err)
	s.Require().Len(rows, 2)

	numbers := lo.Map(rows, func(r excel.Row, _ int) string { return r.Get("invoice_number") })
	s.Contains(numbers, first.InvoiceNumber)
	s.Equal("Globex Industries", rows[0].Get("customer"))
	final, err := decimal.NewFromString(rows[0].Get("final_amount"))
	s.Require().NoError(err)
	s.True(final.Equal(dec("288.5")))
}
