package dto

import (
	"strings"
	"time"

	"github.com/flexprice/gstbill/internal/domain/invoice"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/flexprice/gstbill/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest issues a new invoice. Numeric fields are lenient: empty
// strings, null and garbage fall back to their defaults.
type CreateInvoiceRequest struct {
	CustomerID    string              `json:"customer_id" validate:"required"`
	InvoiceType   types.InvoiceType   `json:"invoice_type,omitempty"`
	InvoiceStatus types.InvoiceStatus `json:"invoice_status,omitempty"`
	IssueDate     *time.Time          `json:"issue_date,omitempty"`
	DueDate       time.Time           `json:"due_date" validate:"required"`
	Tags          []string            `json:"tags,omitempty" validate:"omitempty,dive,max=50"`

	LineItems []LineItemRequest `json:"line_items" validate:"omitempty,dive"`

	TaxType            types.TaxType         `json:"tax_type,omitempty"`
	TaxRate            types.SafeNumber      `json:"tax_rate" swaggertype:"string"`
	TaxBreakdown       *invoice.TaxBreakdown `json:"tax_breakdown,omitempty"`
	DiscountType       types.DiscountType    `json:"discount_type,omitempty"`
	DiscountValue      types.SafeNumber      `json:"discount_value" swaggertype:"string"`
	DiscountAmount     types.SafeNumber      `json:"discount_amount" swaggertype:"string"`
	TransportCharges   types.SafeNumber      `json:"transport_charges" swaggertype:"string"`
	OtherCharges       types.SafeNumber      `json:"other_charges" swaggertype:"string"`
	RoundingAdjustment types.SafeNumber      `json:"rounding_adjustment" swaggertype:"string"`

	// Customer overrides, each falling back to the stored customer when empty
	CustomerName       string   `json:"customer_name,omitempty" validate:"omitempty,max=255"`
	CustomerPhone      string   `json:"customer_phone,omitempty" validate:"omitempty,phone"`
	CustomerEmail      string   `json:"customer_email,omitempty" validate:"omitempty,email"`
	CustomerGSTIN      string   `json:"customer_gstin,omitempty" validate:"omitempty,gstin"`
	CustomerVendorCode string   `json:"customer_vendor_code,omitempty" validate:"omitempty,max=50"`
	BillingAddress     *Address `json:"billing_address,omitempty"`
	ShippingAddress    *Address `json:"shipping_address,omitempty"`

	Bank          *invoice.BankSnapshot          `json:"bank,omitempty"`
	Authorization *invoice.AuthorizationSnapshot `json:"authorization,omitempty"`
	Footer        *invoice.FooterSnapshot        `json:"footer,omitempty"`

	Notes string `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Terms string `json:"terms,omitempty" validate:"omitempty,max=2000"`
}

// LineItemRequest is one row of a create or update request. When ItemID is set
// the missing descriptive fields and the price come from the inventory item.
type LineItemRequest struct {
	ItemID      *string          `json:"item_id,omitempty"`
	Name        string           `json:"name" validate:"omitempty,max=255"`
	Description string           `json:"description,omitempty" validate:"omitempty,max=1000"`
	Unit        string           `json:"unit,omitempty" validate:"omitempty,max=20"`
	HSNCode     string           `json:"hsn_code,omitempty" validate:"omitempty,max=10"`
	Quantity    types.SafeNumber `json:"quantity" swaggertype:"string"`
	UnitPrice   types.SafeNumber `json:"unit_price" swaggertype:"string"`
	TaxRate     types.SafeNumber `json:"tax_rate" swaggertype:"string"`
}

func (r *CreateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.InvoiceType != "" {
		if err := r.InvoiceType.Validate(); err != nil {
			return err
		}
	}
	if r.InvoiceStatus != "" && r.InvoiceStatus != types.InvoiceStatusDraft && r.InvoiceStatus != types.InvoiceStatusPending {
		return ierr.NewError("invalid initial invoice status").
			WithHint("A new invoice can only be draft or pending").
			WithReportableDetails(map[string]any{
				"invoice_status": r.InvoiceStatus,
			}).
			Mark(ierr.ErrValidation)
	}
	if r.TaxType != "" {
		if err := r.TaxType.Validate(); err != nil {
			return err
		}
	}
	if r.IssueDate != nil && r.DueDate.Before(*r.IssueDate) {
		return ierr.NewError("due date before issue date").
			WithHint("Due date must not be before the issue date").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToComputeParams builds the engine input; defaultTaxRate comes from the settings
func (r *CreateInvoiceRequest) ToComputeParams(defaultTaxRate decimal.Decimal) invoice.ComputeParams {
	return invoice.ComputeParams{
		LineItems: toLineInputs(r.LineItems),
		Charges: invoice.Charges{
			DiscountType:       r.DiscountType,
			DiscountValue:      r.DiscountValue,
			DiscountAmount:     r.DiscountAmount,
			TransportCharges:   r.TransportCharges,
			OtherCharges:       r.OtherCharges,
			RoundingAdjustment: r.RoundingAdjustment,
		},
		Tax: invoice.TaxConfig{
			TaxType:        r.TaxType,
			TaxRate:        r.TaxRate,
			DefaultTaxRate: defaultTaxRate,
		},
		PaidAmount: decimal.Zero,
		Breakdown:  r.TaxBreakdown,
		Strict:     true,
	}
}

// CustomerOverrides is the caller supplied part of the customer snapshot
func (r *CreateInvoiceRequest) CustomerOverrides() invoice.CustomerSnapshot {
	return invoice.CustomerSnapshot{
		Name:            strings.TrimSpace(r.CustomerName),
		Phone:           normalizePhone(r.CustomerPhone),
		Email:           strings.TrimSpace(r.CustomerEmail),
		GSTIN:           validator.NormalizeGSTIN(r.CustomerGSTIN),
		VendorCode:      strings.TrimSpace(r.CustomerVendorCode),
		BillingAddress:  r.BillingAddress.ToAddress(),
		ShippingAddress: r.ShippingAddress.ToAddress(),
	}
}

// UpdateInvoiceRequest edits an invoice and recomputes its totals. Numeric
// fields that are absent keep the stored value; nil pointers keep the rest.
type UpdateInvoiceRequest struct {
	DueDate   *time.Time         `json:"due_date,omitempty"`
	IssueDate *time.Time         `json:"issue_date,omitempty"`
	Tags      *[]string          `json:"tags,omitempty"`
	LineItems *[]LineItemRequest `json:"line_items,omitempty"`

	TaxType            *types.TaxType        `json:"tax_type,omitempty"`
	TaxRate            types.SafeNumber      `json:"tax_rate" swaggertype:"string"`
	TaxBreakdown       *invoice.TaxBreakdown `json:"tax_breakdown,omitempty"`
	DiscountType       *types.DiscountType   `json:"discount_type,omitempty"`
	DiscountValue      types.SafeNumber      `json:"discount_value" swaggertype:"string"`
	DiscountAmount     types.SafeNumber      `json:"discount_amount" swaggertype:"string"`
	TransportCharges   types.SafeNumber      `json:"transport_charges" swaggertype:"string"`
	OtherCharges       types.SafeNumber      `json:"other_charges" swaggertype:"string"`
	RoundingAdjustment types.SafeNumber      `json:"rounding_adjustment" swaggertype:"string"`

	Customer      *invoice.CustomerSnapshot      `json:"customer,omitempty"`
	Bank          *invoice.BankSnapshot          `json:"bank,omitempty"`
	Authorization *invoice.AuthorizationSnapshot `json:"authorization,omitempty"`
	Footer        *invoice.FooterSnapshot        `json:"footer,omitempty"`

	Notes *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Terms *string `json:"terms,omitempty" validate:"omitempty,max=2000"`
}

func (r *UpdateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.TaxType != nil {
		if err := r.TaxType.Validate(); err != nil {
			return err
		}
	}
	if r.DiscountType != nil {
		if err := r.DiscountType.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ToComputeParams merges the request over the stored invoice. Lines, charges
// and rates missing from the request are taken from inv. A new tax_rate without
// new lines re-rates the stored lines that carried the old invoice rate.
func (r *UpdateInvoiceRequest) ToComputeParams(inv *invoice.Invoice, defaultTaxRate decimal.Decimal) invoice.ComputeParams {
	rerate := r.TaxRate.Present() && r.LineItems == nil
	lines := lo.Map(inv.LineItems, func(li *invoice.LineItem, _ int) invoice.LineInput {
		in := invoice.LineInput{
			ItemID:      li.ItemID,
			Name:        li.Name,
			Description: li.Description,
			Unit:        li.Unit,
			HSNCode:     li.HSNCode,
			Quantity:    types.NewSafeNumber(li.Quantity),
			UnitPrice:   types.NewSafeNumber(li.UnitPrice),
			TaxRate:     types.NewSafeNumber(li.TaxRate),
		}
		// an absent line rate inherits the invoice rate
		if rerate && li.TaxRate.Equal(inv.TaxRate) {
			in.TaxRate = types.SafeNumber{}
		}
		return in
	})
	if r.LineItems != nil {
		lines = toLineInputs(*r.LineItems)
	}

	params := invoice.ComputeParams{
		LineItems: lines,
		Charges: invoice.Charges{
			DiscountType:       lo.FromPtrOr(r.DiscountType, inv.DiscountType),
			DiscountValue:      orStored(r.DiscountValue, inv.DiscountValue),
			TransportCharges:   orStored(r.TransportCharges, inv.TransportCharges),
			OtherCharges:       orStored(r.OtherCharges, inv.OtherCharges),
			RoundingAdjustment: orStored(r.RoundingAdjustment, inv.RoundingAdjustment),
		},
		Tax: invoice.TaxConfig{
			TaxType:        lo.FromPtrOr(r.TaxType, inv.TaxType),
			TaxRate:        orStored(r.TaxRate, inv.TaxRate),
			DefaultTaxRate: defaultTaxRate,
		},
		PaidAmount: inv.PaidAmount,
		Breakdown:  r.TaxBreakdown,
	}
	// a bare discount_amount replaces the stored amount discount
	if r.DiscountAmount.Present() && !r.DiscountValue.Present() {
		params.Charges.DiscountValue = types.SafeNumber{}
		params.Charges.DiscountAmount = r.DiscountAmount
	}
	return params
}

func orStored(n types.SafeNumber, stored decimal.Decimal) types.SafeNumber {
	if n.Present() {
		return n
	}
	return types.NewSafeNumber(stored)
}

func toLineInputs(in []LineItemRequest) []invoice.LineInput {
	return lo.Map(in, func(li LineItemRequest, _ int) invoice.LineInput {
		return invoice.LineInput{
			ItemID:      li.ItemID,
			Name:        strings.TrimSpace(li.Name),
			Description: li.Description,
			Unit:        li.Unit,
			HSNCode:     li.HSNCode,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			TaxRate:     li.TaxRate,
		}
	})
}

// UpdateInvoiceStatusRequest moves an invoice through the status state machine
type UpdateInvoiceStatusRequest struct {
	Status types.InvoiceStatus `json:"status" validate:"required"`
}

func (r *UpdateInvoiceStatusRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.Status.Validate()
}

// RecordPaymentRequest records money received outside the payment gateway
type RecordPaymentRequest struct {
	Amount        decimal.Decimal     `json:"amount" swaggertype:"string"`
	PaymentMethod types.PaymentMethod `json:"payment_method" validate:"required"`
	Reference     string              `json:"reference,omitempty" validate:"omitempty,max=255"`
	Notes         string              `json:"notes,omitempty" validate:"omitempty,max=1000"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
}

func (r *RecordPaymentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.PaymentMethod == types.PaymentMethodRazorpay {
		return ierr.NewError("razorpay payments are recorded by verification").
			WithHint("Use the payment verification endpoint for Razorpay payments").
			Mark(ierr.ErrValidation)
	}
	if err := r.PaymentMethod.Validate(); err != nil {
		return err
	}
	if !r.Amount.IsPositive() {
		return ierr.NewError("amount must be positive").
			WithHint("Payment amount must be greater than zero").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type InvoiceResponse struct {
	*invoice.Invoice
	ComputationWarnings []invoice.ComputationWarning `json:"computation_warnings,omitempty"`
}

// ListInvoicesResponse represents the response for listing invoices
type ListInvoicesResponse = types.ListResponse[*InvoiceResponse]

// RecordPaymentResponse is the updated invoice and the payment row written for it
type RecordPaymentResponse struct {
	Invoice *InvoiceResponse `json:"invoice"`
	Payment *PaymentResponse `json:"payment"`
}
