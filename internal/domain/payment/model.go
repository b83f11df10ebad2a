package payment

import (
	"time"

	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/shopspring/decimal"
)

const CurrencyINR = "INR"

// Payment is money received against an invoice, either recorded manually or
// captured through the payment gateway
type Payment struct {
	// ID is the unique identifier of the payment
	ID string `db:"id" json:"id"`
	// InvoiceID is the invoice the payment settles
	InvoiceID string `db:"invoice_id" json:"invoice_id"`
	// Amount is in rupees with two decimal places
	Amount   decimal.Decimal `db:"amount" json:"amount" swaggertype:"string"`
	Currency string          `db:"currency" json:"currency"`
	// PaymentMethod is how the money was received
	PaymentMethod types.PaymentMethod `db:"payment_method" json:"payment_method"`
	PaymentState  types.PaymentState  `db:"payment_state" json:"payment_state"`
	// ReceiptNumber is a short human readable reference, e.g. RCPT-X1Y2Z3A
	ReceiptNumber string `db:"receipt_number" json:"receipt_number"`
	// GatewayOrderID and GatewayPaymentID are set for razorpay payments
	GatewayOrderID   *string    `db:"gateway_order_id" json:"gateway_order_id,omitempty"`
	GatewayPaymentID *string    `db:"gateway_payment_id" json:"gateway_payment_id,omitempty"`
	Reference        string     `db:"reference" json:"reference,omitempty"`
	Notes            string     `db:"notes" json:"notes,omitempty"`
	PaidAt           *time.Time `db:"paid_at" json:"paid_at,omitempty"`

	types.BaseModel
}

func (p *Payment) Validate() error {
	if p.InvoiceID == "" {
		return ierr.NewError("invoice_id is required").
			WithHint("Invoice ID is required").
			Mark(ierr.ErrValidation)
	}
	if !p.Amount.IsPositive() {
		return ierr.NewError("payment amount must be positive").
			WithHint("Payment amount must be greater than zero").
			WithReportableDetails(map[string]any{
				"amount": p.Amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if !types.IsFiniteAmount(p.Amount) {
		return ierr.NewError("payment amount out of range").
			WithHint("Payment amount exceeds the supported range").
			Mark(ierr.ErrValidation)
	}
	return p.PaymentMethod.Validate()
}

// Capture marks a gateway payment as received
func (p *Payment) Capture(gatewayPaymentID string, at time.Time) {
	p.PaymentState = types.PaymentStateCaptured
	p.GatewayPaymentID = &gatewayPaymentID
	p.PaidAt = &at
}
