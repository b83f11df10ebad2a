package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/flexprice/gstbill/internal/api/dto"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/razorpay"
	"github.com/flexprice/gstbill/internal/testutil"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  PaymentService
	invoices InvoiceService
	ctx      context.Context
	invoice  *dto.InvoiceResponse
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := testServiceParams(&s.BaseServiceTestSuite)
	s.service = NewPaymentService(params)
	s.invoices = NewInvoiceService(params)

	var cust *dto.CustomerResponse
	s.ctx, cust = seedTenant(&s.BaseServiceTestSuite, params)

	var err error
	s.invoice, err = s.invoices.CreateInvoice(s.ctx, invoiceRequest(cust.ID, time.Now().UTC().AddDate(0, 0, 15)))
	s.Require().NoError(err)

	s.GetHTTPClient().RegisterJSONResponse("/v1/orders", razorpay.Order{
		ID:       "order_test_1",
		Amount:   28850,
		Currency: "INR",
		Receipt:  s.invoice.InvoiceNumber,
		Status:   "created",
	})
}

func (s *PaymentServiceSuite) createOrder() *dto.PaymentOrderResponse {
	order, err := s.service.CreateOrder(s.ctx, dto.CreatePaymentOrderRequest{InvoiceID: s.invoice.ID})
	s.Require().NoError(err)
	return order
}

func (s *PaymentServiceSuite) TestCreateOrder() {
	order := s.createOrder()

	s.Equal("order_test_1", order.OrderID)
	s.Equal(testutil.TestRazorpayKeyID, order.KeyID)
	s.Equal(int64(28850), order.Amount)
	s.Equal(s.invoice.InvoiceNumber, order.Receipt)

	requests := s.GetHTTPClient().Requests()
	s.Require().Len(requests, 1)
	s.Equal(http.MethodPost, requests[0].Method)
	s.Equal(testutil.TestRazorpayBaseURL+"/v1/orders", requests[0].URL)

	stored, err := s.GetStores().PaymentRepo.GetByGatewayOrderID(s.ctx, "order_test_1")
	s.Require().NoError(err)
	s.Equal(order.PaymentID, stored.ID)
	s.Equal(types.PaymentStateCreated, stored.PaymentState)
	s.Equal(types.PaymentMethodRazorpay, stored.PaymentMethod)
	s.True(stored.Amount.Equal(s.invoice.BalanceAmount))
}

func (s *PaymentServiceSuite) TestCreateOrderRefusesSettledInvoice() {
	_, err := s.invoices.CancelInvoice(s.ctx, s.invoice.ID)
	s.Require().NoError(err)

	_, err = s.service.CreateOrder(s.ctx, dto.CreatePaymentOrderRequest{InvoiceID: s.invoice.ID})
	s.True(ierr.IsInvalidOperation(err))
	s.Empty(s.GetHTTPClient().Requests())
}

func (s *PaymentServiceSuite) TestCreateOrderGatewayFailure() {
	s.GetHTTPClient().RegisterResponse("/v1/orders", testutil.MockResponse{
		StatusCode: http.StatusBadGateway,
		Body:       []byte(`{"error":{"code":"SERVER_ERROR"}}`),
	})

	_, err := s.service.CreateOrder(s.ctx, dto.CreatePaymentOrderRequest{InvoiceID: s.invoice.ID})
	s.True(ierr.IsHTTPClient(err))

	payments, err := s.service.ListPayments(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(payments.Items)
}

func (s *PaymentServiceSuite) TestVerifyPayment() {
	s.createOrder()
	req := dto.VerifyPaymentRequest{
		OrderID:   "order_test_1",
		PaymentID: "pay_test_1",
		Signature: razorpay.Sign(testutil.TestRazorpaySecret, "order_test_1", "pay_test_1"),
	}

	resp, err := s.service.VerifyPayment(s.ctx, req)
	s.Require().NoError(err)
	s.Equal(types.PaymentStateCaptured, resp.Payment.PaymentState)
	s.Equal("pay_test_1", *resp.Payment.GatewayPaymentID)
	s.NotNil(resp.Payment.PaidAt)
	s.Equal(types.PaymentStatusPaid, resp.Invoice.PaymentStatus)
	s.Equal(types.InvoiceStatusPaid, resp.Invoice.InvoiceStatus)
	s.True(resp.Invoice.BalanceAmount.IsZero())

	// verifying the same checkout again records nothing new
	again, err := s.service.VerifyPayment(s.ctx, req)
	s.Require().NoError(err)
	s.True(again.Invoice.PaidAmount.Equal(s.invoice.FinalAmount))

	other := req
	other.PaymentID = "pay_test_2"
	other.Signature = razorpay.Sign(testutil.TestRazorpaySecret, "order_test_1", "pay_test_2")
	_, err = s.service.VerifyPayment(s.ctx, other)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PaymentServiceSuite) TestVerifyPaymentCapsAtBalance() {
	s.createOrder()

	// a manual payment lands while the checkout is open
	_, err := s.invoices.RecordPayment(s.ctx, s.invoice.ID, dto.RecordPaymentRequest{
		Amount:        dec("100"),
		PaymentMethod: types.PaymentMethodCash,
	})
	s.Require().NoError(err)

	resp, err := s.service.VerifyPayment(s.ctx, dto.VerifyPaymentRequest{
		OrderID:   "order_test_1",
		PaymentID: "pay_test_1",
		Signature: razorpay.Sign(testutil.TestRazorpaySecret, "order_test_1", "pay_test_1"),
	})
	s.Require().NoError(err)

	s.True(resp.Invoice.PaidAmount.Equal(s.invoice.FinalAmount), resp.Invoice.PaidAmount.String())
	s.True(resp.Invoice.BalanceAmount.IsZero())
	s.Equal(types.PaymentStatusPaid, resp.Invoice.PaymentStatus)

	// the captured amount is kept and the excess is noted
	s.Equal(types.PaymentStateCaptured, resp.Payment.PaymentState)
	s.True(resp.Payment.Amount.Equal(s.invoice.FinalAmount))
	s.Contains(resp.Payment.Notes, "excess 100.00")
}

func (s *PaymentServiceSuite) TestVerifyPaymentRejectsBadSignature() {
	s.createOrder()

	_, err := s.service.VerifyPayment(s.ctx, dto.VerifyPaymentRequest{
		OrderID:   "order_test_1",
		PaymentID: "pay_test_1",
		Signature: razorpay.Sign("wrong-secret", "order_test_1", "pay_test_1"),
	})
	s.True(ierr.IsValidation(err))

	stored, err := s.GetStores().PaymentRepo.GetByGatewayOrderID(s.ctx, "order_test_1")
	s.Require().NoError(err)
	s.Equal(types.PaymentStateCreated, stored.PaymentState)

	inv, err := s.invoices.GetInvoice(s.ctx, s.invoice.ID)
	s.Require().NoError(err)
	s.True(inv.PaidAmount.IsZero())
}

func (s *PaymentServiceSuite) TestVerifyUnknownOrder() {
	_, err := s.service.VerifyPayment(s.ctx, dto.VerifyPaymentRequest{
		OrderID:   "order_unknown",
		PaymentID: "pay_test_1",
		Signature: razorpay.Sign(testutil.TestRazorpaySecret, "order_unknown", "pay_test_1"),
	})
	s.True(ierr.IsNotFound(err))
}

func (s *PaymentServiceSuite) TestListPayments() {
	s.createOrder()
	_, err := s.invoices.RecordPayment(s.ctx, s.invoice.ID, dto.RecordPaymentRequest{
		Amount:        dec("50"),
		PaymentMethod: types.PaymentMethodCash,
	})
	s.Require().NoError(err)

	all, err := s.service.ListPayments(s.ctx, nil)
	s.Require().NoError(err)
	s.Len(all.Items, 2)

	captured, err := s.service.ListPayments(s.ctx, &types.PaymentFilter{
		QueryFilter:  types.NewDefaultQueryFilter(),
		PaymentState: types.PaymentStateCaptured,
	})
	s.Require().NoError(err)
	s.Require().Len(captured.Items, 1)
	s.Equal(types.PaymentMethodCash, captured.Items[0].PaymentMethod)

	other, err := s.service.ListPayments(testutil.WithTenant(s.GetContext(), "tenant_other"), nil)
	s.Require().NoError(err)
	s.Empty(other.Items)
}
