package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/flexprice/gstbill/internal/api/dto"
	"github.com/flexprice/gstbill/internal/domain/invoice"
	"github.com/flexprice/gstbill/internal/domain/payment"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// PaymentService collects invoice balances through the Razorpay checkout
type PaymentService interface {
	CreateOrder(ctx context.Context, req dto.CreatePaymentOrderRequest) (*dto.PaymentOrderResponse, error)
	VerifyPayment(ctx context.Context, req dto.VerifyPaymentRequest) (*dto.RecordPaymentResponse, error)
	ListPayments(ctx context.Context, filter *types.PaymentFilter) (*dto.ListPaymentsResponse, error)
}

type paymentService struct {
	ServiceParams
}

func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{
		ServiceParams: params,
	}
}

// CreateOrder opens a gateway order for the current balance and keeps a payment
// row in the created state until the checkout is verified
func (s *paymentService) CreateOrder(ctx context.Context, req dto.CreatePaymentOrderRequest) (*dto.PaymentOrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.IsOutstanding() {
		return nil, ierr.NewError("invoice has no outstanding balance").
			WithHint("Nothing is due on this invoice").
			WithReportableDetails(map[string]any{
				"invoice_id":     inv.ID,
				"invoice_status": inv.InvoiceStatus,
				"balance":        inv.BalanceAmount.String(),
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	order, err := s.Gateway.CreateOrder(ctx, inv.BalanceAmount, payment.CurrencyINR, inv.InvoiceNumber, map[string]string{
		"invoice_id": inv.ID,
		"tenant_id":  inv.TenantID,
	})
	if err != nil {
		return nil, err
	}

	p := &payment.Payment{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		InvoiceID:      inv.ID,
		Amount:         inv.BalanceAmount,
		Currency:       payment.CurrencyINR,
		PaymentMethod:  types.PaymentMethodRazorpay,
		PaymentState:   types.PaymentStateCreated,
		ReceiptNumber:  types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_RECEIPT),
		GatewayOrderID: lo.ToPtr(order.ID),
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.PaymentRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.Infow("created payment order",
		"invoice_id", inv.ID,
		"payment_id", p.ID,
		"order_id", order.ID,
		"amount", p.Amount.String())
	return &dto.PaymentOrderResponse{
		PaymentID: p.ID,
		OrderID:   order.ID,
		KeyID:     s.Gateway.KeyID(),
		Amount:    order.Amount,
		Currency:  order.Currency,
		Receipt:   order.Receipt,
	}, nil
}

// VerifyPayment checks the checkout signature and captures the payment. A
// repeated verification of the same gateway payment returns the current state.
func (s *paymentService) VerifyPayment(ctx context.Context, req dto.VerifyPaymentRequest) (*dto.RecordPaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if !s.Gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		s.Logger.Warnw("payment signature mismatch",
			"tenant_id", types.GetTenantID(ctx),
			"order_id", req.OrderID,
			"gateway_payment_id", req.PaymentID)
		return nil, ierr.NewError("payment signature mismatch").
			WithHint("Payment verification failed").
			WithReportableDetails(map[string]any{
				"order_id": req.OrderID,
			}).
			Mark(ierr.ErrValidation)
	}

	var (
		inv *invoice.Invoice
		p   *payment.Payment
	)
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.PaymentRepo.GetByGatewayOrderID(ctx, req.OrderID)
		if err != nil {
			return err
		}
		inv, err = s.InvoiceRepo.Get(ctx, p.InvoiceID)
		if err != nil {
			return err
		}

		if p.PaymentState == types.PaymentStateCaptured {
			if lo.FromPtr(p.GatewayPaymentID) == req.PaymentID {
				return nil
			}
			return ierr.NewError("order already captured").
				WithHint("This payment order has already been completed").
				WithReportableDetails(map[string]any{
					"order_id": req.OrderID,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		// the gateway has taken the money, so the payment keeps its captured
		// amount and only the invoice balance is applied
		now := time.Now().UTC()
		applied := decimal.Min(p.Amount, decimal.Max(inv.BalanceAmount, decimal.Zero))
		if excess := p.Amount.Sub(applied); excess.IsPositive() {
			s.Logger.Warnw("captured payment exceeds invoice balance",
				"invoice_id", inv.ID,
				"payment_id", p.ID,
				"order_id", req.OrderID,
				"amount", p.Amount.StringFixed(2),
				"balance", inv.BalanceAmount.StringFixed(2),
				"excess", excess.StringFixed(2))
			p.Notes = strings.TrimSpace(p.Notes + fmt.Sprintf(" excess %s over invoice balance", excess.StringFixed(2)))
		}
		if applied.IsPositive() {
			if err := inv.RecordPayment(applied, now); err != nil {
				return err
			}
		}
		inv.Touch(ctx)
		p.Capture(req.PaymentID, now)
		p.Touch(ctx)

		if err := s.PaymentRepo.Update(ctx, p); err != nil {
			return err
		}
		return s.InvoiceRepo.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("verified payment",
		"invoice_id", inv.ID,
		"payment_id", p.ID,
		"gateway_payment_id", req.PaymentID,
		"payment_status", inv.PaymentStatus)
	return &dto.RecordPaymentResponse{
		Invoice: &dto.InvoiceResponse{Invoice: inv},
		Payment: &dto.PaymentResponse{Payment: p},
	}, nil
}

func (s *paymentService) ListPayments(ctx context.Context, filter *types.PaymentFilter) (*dto.ListPaymentsResponse, error) {
	if filter == nil {
		filter = &types.PaymentFilter{QueryFilter: types.NewDefaultQueryFilter()}
	}
	if err := filter.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation)
	}

	payments, err := s.PaymentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.PaymentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(payments, func(p *payment.Payment, _ int) *dto.PaymentResponse {
		return &dto.PaymentResponse{Payment: p}
	})
	resp := types.NewListResponse(items, total, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}
