package types

import (
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/samber/lo"
)

// PaymentMethod is how money was received against an invoice
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodBank     PaymentMethod = "bank"
	PaymentMethodUPI      PaymentMethod = "upi"
	PaymentMethodCheque   PaymentMethod = "cheque"
	PaymentMethodRazorpay PaymentMethod = "razorpay"
)

func (m PaymentMethod) Validate() error {
	allowed := []PaymentMethod{
		PaymentMethodCash,
		PaymentMethodBank,
		PaymentMethodUPI,
		PaymentMethodCheque,
		PaymentMethodRazorpay,
	}
	if !lo.Contains(allowed, m) {
		return ierr.NewError("invalid payment method").
			WithHint("Please provide a valid payment method").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PaymentState is the lifecycle of a payment row
type PaymentState string

const (
	// PaymentStateCreated is a gateway order awaiting verification
	PaymentStateCreated  PaymentState = "created"
	PaymentStateCaptured PaymentState = "captured"
	PaymentStateFailed   PaymentState = "failed"
)

// PaymentFilter represents filters for payment queries
type PaymentFilter struct {
	*QueryFilter

	InvoiceID      string       `json:"invoice_id,omitempty" form:"invoice_id"`
	GatewayOrderID string       `json:"gateway_order_id,omitempty" form:"gateway_order_id"`
	PaymentState   PaymentState `json:"payment_state,omitempty" form:"payment_state"`
}

func NewNoLimitPaymentFilter() *PaymentFilter {
	return &PaymentFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

func (f PaymentFilter) Validate() error {
	if f.QueryFilter != nil {
		return f.QueryFilter.Validate()
	}
	return nil
}

func (f *PaymentFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

func (f *PaymentFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return 0
	}
	return f.QueryFilter.GetOffset()
}

func (f *PaymentFilter) GetSort() string {
	if f.QueryFilter == nil {
		return FILTER_DEFAULT_SORT
	}
	return f.QueryFilter.GetSort()
}

func (f *PaymentFilter) GetOrder() string {
	if f.QueryFilter == nil {
		return FILTER_DEFAULT_ORDER
	}
	return f.QueryFilter.GetOrder()
}

func (f *PaymentFilter) GetStatus() string {
	if f.QueryFilter == nil {
		return string(StatusPublished)
	}
	return f.QueryFilter.GetStatus()
}

func (f *PaymentFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return false
	}
	return f.QueryFilter.IsUnlimited()
}
