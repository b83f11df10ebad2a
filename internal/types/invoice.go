package types

import (
	"time"

	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/samber/lo"
)

// InvoiceType classifies a document and selects its numbering series
type InvoiceType string

const (
	InvoiceTypeSales     InvoiceType = "SALES"
	InvoiceTypePurchase  InvoiceType = "PURCHASE"
	InvoiceTypeQuotation InvoiceType = "QUOTATION"
)

func (t InvoiceType) String() string {
	return string(t)
}

// Abbreviation is the default prefix stem for the type
func (t InvoiceType) Abbreviation() string {
	switch t {
	case InvoiceTypePurchase:
		return "PUR"
	case InvoiceTypeQuotation:
		return "QUOT"
	default:
		return "SALE"
	}
}

func (t InvoiceType) Validate() error {
	allowed := []InvoiceType{
		InvoiceTypeSales,
		InvoiceTypePurchase,
		InvoiceTypeQuotation,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid invoice type").
			WithHint("Please provide a valid invoice type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InvoiceStatus is the document lifecycle state
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
	InvoiceStatusCompleted InvoiceStatus = "completed"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusPending,
		InvoiceStatusPaid,
		InvoiceStatusCancelled,
		InvoiceStatusCompleted,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Please provide a valid invoice status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PaymentStatus is derived from the paid and balance amounts, except for the
// overdue and cancelled values which are set out of band
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPartial   PaymentStatus = "partial"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusOverdue   PaymentStatus = "overdue"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) Validate() error {
	allowed := []PaymentStatus{
		PaymentStatusPending,
		PaymentStatusPartial,
		PaymentStatusPaid,
		PaymentStatusOverdue,
		PaymentStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid payment status").
			WithHint("Please provide a valid payment status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TaxType selects the tax regime applied to the aggregate tax amount
type TaxType string

const (
	// TaxTypeIGST is a single inter-state tax
	TaxTypeIGST TaxType = "IGST"
	// TaxTypeCGSTSGST splits the tax evenly between central and state
	TaxTypeCGSTSGST TaxType = "CGST_SGST"
)

func (t TaxType) String() string {
	return string(t)
}

func (t TaxType) Validate() error {
	allowed := []TaxType{
		TaxTypeIGST,
		TaxTypeCGSTSGST,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid tax type").
			WithHint("Please provide a valid tax type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DiscountType says how discount_value is interpreted
type DiscountType string

const (
	DiscountTypeAmount     DiscountType = "amount"
	DiscountTypePercentage DiscountType = "percentage"
)

func (t DiscountType) Validate() error {
	allowed := []DiscountType{
		DiscountTypeAmount,
		DiscountTypePercentage,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid discount type").
			WithHint("Please provide a valid discount type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InvoiceFilter represents the filter options for listing invoices
type InvoiceFilter struct {
	*QueryFilter
	*TimeRangeFilter

	InvoiceIDs      []string        `json:"invoice_ids,omitempty" form:"invoice_ids"`
	CustomerID      string          `json:"customer_id,omitempty" form:"customer_id"`
	InvoiceType     InvoiceType     `json:"invoice_type,omitempty" form:"invoice_type"`
	InvoiceStatus   []InvoiceStatus `json:"invoice_status,omitempty" form:"invoice_status"`
	PaymentStatus   []PaymentStatus `json:"payment_status,omitempty" form:"payment_status"`
	Tag             string          `json:"tag,omitempty" form:"tag"`
	DueBefore       *time.Time      `json:"due_before,omitempty" form:"due_before"`
	OnlyOutstanding bool            `json:"only_outstanding,omitempty" form:"only_outstanding"`
}

// NewInvoiceFilter creates a new invoice filter with default options
func NewInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// NewNoLimitInvoiceFilter creates a new invoice filter without pagination
func NewNoLimitInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

// Validate validates the invoice filter
func (f InvoiceFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}

	if f.TimeRangeFilter != nil {
		if err := f.TimeRangeFilter.Validate(); err != nil {
			return err
		}
	}

	if f.InvoiceType != "" {
		if err := f.InvoiceType.Validate(); err != nil {
			return err
		}
	}

	for _, s := range f.InvoiceStatus {
		if err := s.Validate(); err != nil {
			return err
		}
	}

	for _, s := range f.PaymentStatus {
		if err := s.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// GetLimit implements BaseFilter interface
func (f *InvoiceFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

// GetOffset implements BaseFilter interface
func (f *InvoiceFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return 0
	}
	return f.QueryFilter.GetOffset()
}

// GetSort implements BaseFilter interface
func (f *InvoiceFilter) GetSort() string {
	if f.QueryFilter == nil {
		return FILTER_DEFAULT_SORT
	}
	return f.QueryFilter.GetSort()
}

// GetOrder implements BaseFilter interface
func (f *InvoiceFilter) GetOrder() string {
	if f.QueryFilter == nil {
		return FILTER_DEFAULT_ORDER
	}
	return f.QueryFilter.GetOrder()
}

// GetStatus implements BaseFilter interface
func (f *InvoiceFilter) GetStatus() string {
	if f.QueryFilter == nil {
		return string(StatusPublished)
	}
	return f.QueryFilter.GetStatus()
}

// IsUnlimited implements BaseFilter interface
func (f *InvoiceFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return false
	}
	return f.QueryFilter.IsUnlimited()
}
