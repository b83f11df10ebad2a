package dto

import (
	"github.com/flexprice/gstbill/internal/domain/payment"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/flexprice/gstbill/internal/validator"
)

// CreatePaymentOrderRequest opens a gateway order for the invoice balance
type CreatePaymentOrderRequest struct {
	InvoiceID string `json:"invoice_id" validate:"required"`
}

func (r *CreatePaymentOrderRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// PaymentOrderResponse is what the checkout needs to collect the payment
type PaymentOrderResponse struct {
	PaymentID string `json:"payment_id"`
	OrderID   string `json:"order_id"`
	KeyID     string `json:"key_id"`
	// Amount is in paise
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// VerifyPaymentRequest carries the fields the checkout returns after payment
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required,hexadecimal"`
}

func (r *VerifyPaymentRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type PaymentResponse struct {
	*payment.Payment
}

// ListPaymentsResponse represents the response for listing payments
type ListPaymentsResponse = types.ListResponse[*PaymentResponse]
