package dto

import (
	"github.com/flexprice/gstbill/internal/domain/settings"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/flexprice/gstbill/internal/validator"
	"github.com/shopspring/decimal"
)

// UpdateSettingsRequest changes the invoicing configuration. Nil fields keep
// their current value.
type UpdateSettingsRequest struct {
	SalesPrefix     *string          `json:"sales_prefix" validate:"omitempty,max=20"`
	PurchasePrefix  *string          `json:"purchase_prefix" validate:"omitempty,max=20"`
	QuotationPrefix *string          `json:"quotation_prefix" validate:"omitempty,max=20"`
	DefaultTaxRate  *decimal.Decimal `json:"default_tax_rate,omitempty" swaggertype:"string"`
	DefaultTaxType  *types.TaxType   `json:"default_tax_type,omitempty"`
	StateCode       *string          `json:"state_code" validate:"omitempty,len=2,numeric"`
	DefaultTerms    *string          `json:"default_terms" validate:"omitempty,max=2000"`
	FooterNote      *string          `json:"footer_note" validate:"omitempty,max=1000"`
	SignatoryName   *string          `json:"signatory_name" validate:"omitempty,max=255"`
	Designation     *string          `json:"signatory_designation" validate:"omitempty,max=255"`
	SignatureURL    *string          `json:"signature_url" validate:"omitempty,url"`
	DueDays         *int             `json:"due_days" validate:"omitempty,min=0,max=365"`
}

type SettingsResponse struct {
	*settings.Settings
}

func (r *UpdateSettingsRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// Apply copies the supplied fields onto s
func (r *UpdateSettingsRequest) Apply(s *settings.Settings) {
	if r.SalesPrefix != nil {
		s.SalesPrefix = *r.SalesPrefix
	}
	if r.PurchasePrefix != nil {
		s.PurchasePrefix = *r.PurchasePrefix
	}
	if r.QuotationPrefix != nil {
		s.QuotationPrefix = *r.QuotationPrefix
	}
	if r.DefaultTaxRate != nil {
		s.DefaultTaxRate = *r.DefaultTaxRate
	}
	if r.DefaultTaxType != nil {
		s.DefaultTaxType = *r.DefaultTaxType
	}
	if r.StateCode != nil {
		s.StateCode = *r.StateCode
	}
	if r.DefaultTerms != nil {
		s.DefaultTerms = *r.DefaultTerms
	}
	if r.FooterNote != nil {
		s.FooterNote = *r.FooterNote
	}
	if r.SignatoryName != nil {
		s.SignatoryName = *r.SignatoryName
	}
	if r.Designation != nil {
		s.Designation = *r.Designation
	}
	if r.SignatureURL != nil {
		s.SignatureURL = *r.SignatureURL
	}
	if r.DueDays != nil {
		s.DueDays = *r.DueDays
	}
}
