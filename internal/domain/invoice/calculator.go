package invoice

import (
	"fmt"

	"github.com/flexprice/gstbill/internal/types"
	"github.com/shopspring/decimal"
)

var (
	hundred         = decimal.NewFromInt(100)
	two             = decimal.NewFromInt(2)
	defaultQuantity = decimal.NewFromInt(1)
)

// LineInput is a raw line item as received from a caller
type LineInput struct {
	ItemID      *string
	Name        string
	Description string
	Unit        string
	HSNCode     string
	Quantity    types.SafeNumber
	UnitPrice   types.SafeNumber
	TaxRate     types.SafeNumber
}

// Charges are the invoice level adjustments. Every field defaults to zero.
type Charges struct {
	DiscountType       types.DiscountType
	DiscountValue      types.SafeNumber
	DiscountAmount     types.SafeNumber
	TransportCharges   types.SafeNumber
	OtherCharges       types.SafeNumber
	RoundingAdjustment types.SafeNumber
}

// TaxConfig resolves the rate applied to lines that carry none
type TaxConfig struct {
	TaxType types.TaxType
	// TaxRate is the invoice level rate
	TaxRate types.SafeNumber
	// DefaultTaxRate comes from the business settings
	DefaultTaxRate decimal.Decimal
}

// ComputeParams is everything needed to derive the monetary fields of an invoice
type ComputeParams struct {
	LineItems  []LineInput
	Charges    Charges
	Tax        TaxConfig
	PaidAmount decimal.Decimal
	// Breakdown is a caller supplied tax split, kept when it is consistent
	Breakdown *TaxBreakdown
	// Strict requires quantity and unit price on every line, as on creation
	Strict bool
}

// ComputationWarning records a value that was replaced by a fallback
type ComputationWarning struct {
	Field    string          `json:"field"`
	Reason   string          `json:"reason"`
	Fallback decimal.Decimal `json:"fallback" swaggertype:"string"`
}

// ComputedTotals is the result of ComputeTotals. Every amount is finite and
// rounded to two places.
type ComputedTotals struct {
	LineItems          []*LineItem
	TaxType            types.TaxType
	TaxRate            decimal.Decimal
	Subtotal           decimal.Decimal
	TotalTaxAmount     decimal.Decimal
	TaxBreakdown       TaxBreakdown
	DiscountType       types.DiscountType
	DiscountValue      decimal.Decimal
	DiscountAmount     decimal.Decimal
	TransportCharges   decimal.Decimal
	OtherCharges       decimal.Decimal
	RoundingAdjustment decimal.Decimal
	FinalAmount        decimal.Decimal
	PaidAmount         decimal.Decimal
	BalanceAmount      decimal.Decimal
	PaymentStatus      types.PaymentStatus
	Warnings           []ComputationWarning
}

func (t *ComputedTotals) warn(field, reason string, fallback decimal.Decimal) {
	t.Warnings = append(t.Warnings, ComputationWarning{Field: field, Reason: reason, Fallback: fallback})
}

// ComputeTotals derives line totals, tax, subtotal, final amount and balance.
// Lines are rounded first and then summed without re-rounding.
func ComputeTotals(params ComputeParams) (*ComputedTotals, error) {
	if len(params.LineItems) == 0 {
		return nil, fieldError("line_items", "must contain at least one item")
	}

	taxType := params.Tax.TaxType
	if taxType == "" {
		taxType = types.TaxTypeIGST
	}
	if err := taxType.Validate(); err != nil {
		return nil, err
	}

	result := &ComputedTotals{
		LineItems:      make([]*LineItem, 0, len(params.LineItems)),
		TaxType:        taxType,
		Subtotal:       decimal.Zero,
		TotalTaxAmount: decimal.Zero,
	}

	invoiceRate := coerce(result, "tax_rate", params.Tax.TaxRate, params.Tax.DefaultTaxRate)
	if invoiceRate.IsNegative() || invoiceRate.GreaterThan(hundred) {
		return nil, fieldError("tax_rate", "must be between 0 and 100")
	}
	result.TaxRate = invoiceRate

	for idx, in := range params.LineItems {
		line, err := computeLine(result, idx, in, params.Strict, invoiceRate)
		if err != nil {
			return nil, err
		}
		result.LineItems = append(result.LineItems, line)
		result.Subtotal = result.Subtotal.Add(line.LineTotal)
		result.TotalTaxAmount = result.TotalTaxAmount.Add(line.TaxAmount)
	}

	if err := applyCharges(result, params.Charges); err != nil {
		return nil, err
	}

	result.FinalAmount = types.Round2(result.Subtotal.
		Add(result.TotalTaxAmount).
		Sub(result.DiscountAmount).
		Add(result.TransportCharges).
		Add(result.OtherCharges).
		Add(result.RoundingAdjustment))
	if !types.IsFiniteAmount(result.FinalAmount) {
		fallback := types.Round2(result.Subtotal.Add(result.TotalTaxAmount))
		if !types.IsFiniteAmount(fallback) {
			return nil, fieldError("final_amount", "exceeds the supported range")
		}
		result.warn("final_amount", "not representable, fell back to subtotal plus tax", fallback)
		result.FinalAmount = fallback
	}

	result.PaidAmount = types.Round2(params.PaidAmount)
	result.BalanceAmount = types.Round2(result.FinalAmount.Sub(result.PaidAmount))
	if !types.IsFiniteAmount(result.BalanceAmount) {
		result.warn("balance_amount", "not representable, fell back to final amount", result.FinalAmount)
		result.BalanceAmount = result.FinalAmount
	}

	result.TaxBreakdown = SplitTax(result.TotalTaxAmount, taxType)
	if params.Breakdown != nil && !params.Breakdown.IsZero() {
		if regime, ok := matchesRegime(*params.Breakdown, result.TotalTaxAmount); ok {
			result.TaxBreakdown = *params.Breakdown
			result.TaxType = regime
		} else {
			result.warn("tax_breakdown", "supplied breakdown does not match total tax, recomputed", result.TotalTaxAmount)
		}
	}

	result.PaymentStatus = DerivePaymentStatus(result.PaidAmount, result.BalanceAmount)
	return result, nil
}

func computeLine(result *ComputedTotals, idx int, in LineInput, strict bool, invoiceRate decimal.Decimal) (*LineItem, error) {
	if strict && !in.Quantity.Present() {
		return nil, lineError(idx, "quantity", "is required")
	}
	if strict && !in.UnitPrice.Present() {
		return nil, lineError(idx, "unit_price", "is required")
	}

	quantity := coerce(result, fmt.Sprintf("line_items[%d].quantity", idx), in.Quantity, defaultQuantity)
	unitPrice := coerce(result, fmt.Sprintf("line_items[%d].unit_price", idx), in.UnitPrice, decimal.Zero)
	rate := coerce(result, fmt.Sprintf("line_items[%d].tax_rate", idx), in.TaxRate, invoiceRate)

	if quantity.IsNegative() {
		return nil, lineError(idx, "quantity", "must not be negative")
	}
	if unitPrice.IsNegative() {
		return nil, lineError(idx, "unit_price", "must not be negative")
	}
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return nil, lineError(idx, "tax_rate", "must be between 0 and 100")
	}

	lineTotal := types.Round2(quantity.Mul(unitPrice))
	taxAmount := types.Round2(lineTotal.Mul(rate).Div(hundred))
	totalAmount := types.Round2(lineTotal.Add(taxAmount))
	if !types.IsFiniteAmount(totalAmount) {
		return nil, lineError(idx, "line_total", "exceeds the supported range")
	}

	return &LineItem{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LINE_ITEM),
		ItemID:      in.ItemID,
		Name:        in.Name,
		Description: in.Description,
		Unit:        in.Unit,
		HSNCode:     in.HSNCode,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TaxRate:     rate,
		LineTotal:   lineTotal,
		TaxAmount:   taxAmount,
		TotalAmount: totalAmount,
	}, nil
}

func applyCharges(result *ComputedTotals, c Charges) error {
	result.TransportCharges = types.Round2(coerce(result, "transport_charges", c.TransportCharges, decimal.Zero))
	result.OtherCharges = types.Round2(coerce(result, "other_charges", c.OtherCharges, decimal.Zero))
	result.RoundingAdjustment = types.Round2(coerce(result, "rounding_adjustment", c.RoundingAdjustment, decimal.Zero))

	if result.TransportCharges.IsNegative() {
		return fieldError("transport_charges", "must not be negative")
	}
	if result.OtherCharges.IsNegative() {
		return fieldError("other_charges", "must not be negative")
	}

	result.DiscountType = c.DiscountType
	if result.DiscountType == "" {
		result.DiscountType = types.DiscountTypeAmount
	}
	if err := result.DiscountType.Validate(); err != nil {
		return err
	}

	switch result.DiscountType {
	case types.DiscountTypePercentage:
		pct := coerce(result, "discount_value", c.DiscountValue, decimal.Zero)
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return fieldError("discount_value", "must be between 0 and 100")
		}
		result.DiscountValue = pct
		result.DiscountAmount = types.Round2(result.Subtotal.Add(result.TotalTaxAmount).Mul(pct).Div(hundred))
	default:
		amount := c.DiscountValue
		if !amount.Valid() {
			amount = c.DiscountAmount
		}
		result.DiscountAmount = types.Round2(coerce(result, "discount_amount", amount, decimal.Zero))
		result.DiscountValue = result.DiscountAmount
	}
	if result.DiscountAmount.IsNegative() {
		return fieldError("discount_amount", "must not be negative")
	}
	return nil
}

// coerce applies the safe number policy. A value that was supplied but is not a
// usable number becomes the default and is recorded as a warning.
func coerce(result *ComputedTotals, field string, n types.SafeNumber, def decimal.Decimal) decimal.Decimal {
	if v, ok := n.Decimal(); ok {
		return v
	}
	if n.Present() {
		result.warn(field, "not a number, defaulted", def)
	}
	return def
}

// SplitTax spreads the total over the regime selected by taxType
func SplitTax(total decimal.Decimal, taxType types.TaxType) TaxBreakdown {
	if taxType == types.TaxTypeCGSTSGST {
		half := types.Round2(total.Div(two))
		return TaxBreakdown{CGST: half, SGST: half, IGST: decimal.Zero}
	}
	return TaxBreakdown{CGST: decimal.Zero, SGST: decimal.Zero, IGST: types.Round2(total)}
}

// matchesRegime reports whether b is exactly one regime's split of total
func matchesRegime(b TaxBreakdown, total decimal.Decimal) (types.TaxType, bool) {
	for _, regime := range []types.TaxType{types.TaxTypeIGST, types.TaxTypeCGSTSGST} {
		want := SplitTax(total, regime)
		if b.CGST.Equal(want.CGST) && b.SGST.Equal(want.SGST) && b.IGST.Equal(want.IGST) {
			return regime, true
		}
	}
	return "", false
}
