package invoice

import (
	"encoding/json"
	"fmt"
	"testing"

	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func num(f float64) types.SafeNumber {
	return types.NewSafeNumberFromFloat(f)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func defaultTax(taxType types.TaxType) TaxConfig {
	return TaxConfig{TaxType: taxType, DefaultTaxRate: decimal.NewFromInt(18)}
}

func TestComputeTotalsScenarios(t *testing.T) {
	tests := []struct {
		name   string
		params ComputeParams
		check  func(t *testing.T, got *ComputedTotals)
	}{
		{
			name: "single_line_igst",
			params: ComputeParams{
				LineItems: []LineInput{{Quantity: num(3), UnitPrice: num(100), TaxRate: num(18)}},
				Tax:       defaultTax(types.TaxTypeIGST),
				Strict:    true,
			},
			check: func(t *testing.T, got *ComputedTotals) {
				require.Len(t, got.LineItems, 1)
				assertDecimal(t, "300", got.LineItems[0].LineTotal)
				assertDecimal(t, "54", got.LineItems[0].TaxAmount)
				assertDecimal(t, "354", got.LineItems[0].TotalAmount)
				assertDecimal(t, "300", got.Subtotal)
				assertDecimal(t, "54", got.TotalTaxAmount)
				assertDecimal(t, "54", got.TaxBreakdown.IGST)
				assertDecimal(t, "0", got.TaxBreakdown.CGST)
				assertDecimal(t, "0", got.TaxBreakdown.SGST)
				assertDecimal(t, "354", got.FinalAmount)
				assertDecimal(t, "354", got.BalanceAmount)
				assert.Equal(t, types.PaymentStatusPending, got.PaymentStatus)
				assert.Empty(t, got.Warnings)
			},
		},
		{
			name: "single_line_cgst_sgst",
			params: ComputeParams{
				LineItems: []LineInput{{Quantity: num(3), UnitPrice: num(100), TaxRate: num(18)}},
				Tax:       defaultTax(types.TaxTypeCGSTSGST),
				Strict:    true,
			},
			check: func(t *testing.T, got *ComputedTotals) {
				assertDecimal(t, "27", got.TaxBreakdown.CGST)
				assertDecimal(t, "27", got.TaxBreakdown.SGST)
				assertDecimal(t, "0", got.TaxBreakdown.IGST)
				assertDecimal(t, "354", got.FinalAmount)
				assert.Equal(t, types.TaxTypeCGSTSGST, got.TaxType)
			},
		},
		{
			name: "two_lines_with_discount",
			params: ComputeParams{
				LineItems: []LineInput{
					{Quantity: num(2), UnitPrice: num(50), TaxRate: num(18)},
					{Quantity: num(1), UnitPrice: num(25), TaxRate: num(18)},
				},
				Charges: Charges{DiscountAmount: num(10)},
				Tax:     defaultTax(types.TaxTypeIGST),
				Strict:  true,
			},
			check: func(t *testing.T, got *ComputedTotals) {
				assertDecimal(t, "125", got.Subtotal)
				assertDecimal(t, "22.5", got.TotalTaxAmount)
				assertDecimal(t, "10", got.DiscountAmount)
				assertDecimal(t, "137.5", got.FinalAmount)
			},
		},
		{
			name: "empty_quantity_defaults_to_one",
			params: ComputeParams{
				LineItems: []LineInput{{Quantity: types.ParseSafeNumber(""), UnitPrice: num(50)}},
				Tax:       defaultTax(types.TaxTypeIGST),
				Strict:    true,
			},
			check: func(t *testing.T, got *ComputedTotals) {
				assertDecimal(t, "1", got.LineItems[0].Quantity)
				assertDecimal(t, "50", got.LineItems[0].LineTotal)
				require.Len(t, got.Warnings, 1)
				assert.Equal(t, "line_items[0].quantity", got.Warnings[0].Field)
			},
		},
		{
			name: "rate_falls_back_to_invoice_then_default",
			params: ComputeParams{
				LineItems: []LineInput{
					{Quantity: num(1), UnitPrice: num(100)},
					{Quantity: num(1), UnitPrice: num(100), TaxRate: num(5)},
				},
				Tax: TaxConfig{TaxType: types.TaxTypeIGST, TaxRate: num(12), DefaultTaxRate: decimal.NewFromInt(18)},
			},
			check: func(t *testing.T, got *ComputedTotals) {
				assertDecimal(t, "12", got.LineItems[0].TaxRate)
				assertDecimal(t, "5", got.LineItems[1].TaxRate)
				assertDecimal(t, "17", got.TotalTaxAmount)
			},
		},
		{
			name: "default_rate_when_nothing_supplied",
			params: ComputeParams{
				LineItems: []LineInput{{Quantity: num(1), UnitPrice: num(100)}},
				Tax:       TaxConfig{DefaultTaxRate: decimal.NewFromInt(18)},
			},
			check: func(t *testing.T, got *ComputedTotals) {
				assertDecimal(t, "18", got.LineItems[0].TaxRate)
				assert.Equal(t, types.TaxTypeIGST, got.TaxType)
				assertDecimal(t, "18", got.TaxBreakdown.IGST)
			},
		},
		{
			name: "all_charges",
			params: ComputeParams{
				LineItems: []LineInput{{Quantity: num(4), UnitPrice: num(250), TaxRate: num(12)}},
				Charges: Charges{
					DiscountAmount:     num(20),
					TransportCharges:   num(50),
					OtherCharges:       num(15.5),
					RoundingAdjustment: num(-0.5),
				},
				Tax:        defaultTax(types.TaxTypeIGST),
				PaidAmount: dec("500"),
			},
			check: func(t *testing.T, got *ComputedTotals) {
				// 1000 + 120 - 20 + 50 + 15.5 - 0.5
				assertDecimal(t, "1165", got.FinalAmount)
				assertDecimal(t, "665", got.BalanceAmount)
				assert.Equal(t, types.PaymentStatusPartial, got.PaymentStatus)
			},
		},
		{
			name: "percentage_discount",
			params: ComputeParams{
				LineItems: []LineInput{{Quantity: num(1), UnitPrice: num(1000), TaxRate: num(18)}},
				Charges:   Charges{DiscountType: types.DiscountTypePercentage, DiscountValue: num(10)},
				Tax:       defaultTax(types.TaxTypeIGST),
			},
			check: func(t *testing.T, got *ComputedTotals) {
				assertDecimal(t, "118", got.DiscountAmount)
				assertDecimal(t, "1062", got.FinalAmount)
			},
		},
		{
			name: "fully_paid",
			params: ComputeParams{
				LineItems:  []LineInput{{Quantity: num(1), UnitPrice: num(100), TaxRate: num(0)}},
				Tax:        defaultTax(types.TaxTypeIGST),
				PaidAmount: dec("100"),
			},
			check: func(t *testing.T, got *ComputedTotals) {
				assertDecimal(t, "0", got.BalanceAmount)
				assert.Equal(t, types.PaymentStatusPaid, got.PaymentStatus)
			},
		},
		{
			name: "odd_cent_split",
			params: ComputeParams{
				LineItems: []LineInput{{Quantity: num(1), UnitPrice: num(0.5), TaxRate: num(10)}},
				Tax:       defaultTax(types.TaxTypeCGSTSGST),
			},
			check: func(t *testing.T, got *ComputedTotals) {
				assertDecimal(t, "0.05", got.TotalTaxAmount)
				assertDecimal(t, "0.03", got.TaxBreakdown.CGST)
				assertDecimal(t, "0.03", got.TaxBreakdown.SGST)
				assertDecimal(t, "0", got.TaxBreakdown.IGST)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeTotals(tt.params)
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestComputeTotalsValidation(t *testing.T) {
	tests := []struct {
		name      string
		params    ComputeParams
		lineIndex *int
		field     string
	}{
		{
			name:   "no_line_items",
			params: ComputeParams{Tax: defaultTax(types.TaxTypeIGST), Strict: true},
			field:  "line_items",
		},
		{
			name: "missing_quantity_strict",
			params: ComputeParams{
				LineItems: []LineInput{
					{Quantity: num(1), UnitPrice: num(10)},
					{UnitPrice: num(10)},
				},
				Tax:    defaultTax(types.TaxTypeIGST),
				Strict: true,
			},
			lineIndex: intPtr(1),
			field:     "quantity",
		},
		{
			name: "missing_unit_price_strict",
			params: ComputeParams{
				LineItems: []LineInput{{Quantity: num(1)}},
				Tax:       defaultTax(types.TaxTypeIGST),
				Strict:    true,
			},
			lineIndex: intPtr(0),
			field:     "unit_price",
		},
		{
			name: "negative_quantity",
			params: ComputeParams{
				LineItems: []LineInput{{Quantity: num(-1), UnitPrice: num(10)}},
				Tax:       defaultTax(types.TaxTypeIGST),
			},
			lineIndex: intPtr(0),
			field:     "quantity",
		},
		{
			name: "rate_above_hundred",
			params: ComputeParams{
				LineItems: []LineInput{{Quantity: num(1), UnitPrice: num(10), TaxRate: num(150)}},
				Tax:       defaultTax(types.TaxTypeIGST),
			},
			lineIndex: intPtr(0),
			field:     "tax_rate",
		},
		{
			name: "invalid_tax_type",
			params: ComputeParams{
				LineItems: []LineInput{{Quantity: num(1), UnitPrice: num(10)}},
				Tax:       defaultTax(types.TaxType("VAT")),
			},
		},
		{
			name: "negative_discount",
			params: ComputeParams{
				LineItems: []LineInput{{Quantity: num(1), UnitPrice: num(10)}},
				Charges:   Charges{DiscountAmount: num(-5)},
				Tax:       defaultTax(types.TaxTypeIGST),
			},
			field: "discount_amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeTotals(tt.params)
			require.Error(t, err)
			assert.True(t, ierr.IsValidation(err))
			details := ierr.ReportableDetails(err)
			if tt.field != "" {
				assert.Equal(t, tt.field, details["field"])
			}
			if tt.lineIndex != nil {
				assert.Equal(t, float64(*tt.lineIndex), details["line_index"])
				assert.Contains(t, ierr.DisplayMessage(err), fmt.Sprintf("line_items[%d]", *tt.lineIndex))
			}
		})
	}
}

func TestComputeTotalsUpdateModeDefaults(t *testing.T) {
	got, err := ComputeTotals(ComputeParams{
		LineItems: []LineInput{{}},
		Tax:       defaultTax(types.TaxTypeIGST),
	})
	require.NoError(t, err)
	assertDecimal(t, "1", got.LineItems[0].Quantity)
	assertDecimal(t, "0", got.LineItems[0].UnitPrice)
	assertDecimal(t, "0", got.FinalAmount)
	assert.Equal(t, types.PaymentStatusPaid, got.PaymentStatus)
}

func TestComputeTotalsNonFiniteFallbacks(t *testing.T) {
	t.Run("final_amount_falls_back_to_subtotal_plus_tax", func(t *testing.T) {
		got, err := ComputeTotals(ComputeParams{
			LineItems: []LineInput{{Quantity: num(1), UnitPrice: types.NewSafeNumber(dec("600000000000000000")), TaxRate: num(0)}},
			Charges:   Charges{TransportCharges: types.NewSafeNumber(dec("500000000000000000"))},
			Tax:       defaultTax(types.TaxTypeIGST),
		})
		require.NoError(t, err)
		assertDecimal(t, "600000000000000000", got.FinalAmount)
		require.Len(t, got.Warnings, 1)
		assert.Equal(t, "final_amount", got.Warnings[0].Field)
	})

	t.Run("balance_falls_back_to_final_amount", func(t *testing.T) {
		got, err := ComputeTotals(ComputeParams{
			LineItems:  []LineInput{{Quantity: num(1), UnitPrice: types.NewSafeNumber(dec("600000000000000000")), TaxRate: num(0)}},
			Tax:        defaultTax(types.TaxTypeIGST),
			PaidAmount: dec("-900000000000000000"),
		})
		require.NoError(t, err)
		assertDecimal(t, "600000000000000000", got.BalanceAmount)
		assert.Equal(t, "balance_amount", got.Warnings[0].Field)
	})

	t.Run("unrepresentable_line_is_rejected", func(t *testing.T) {
		_, err := ComputeTotals(ComputeParams{
			LineItems: []LineInput{{Quantity: types.NewSafeNumber(dec("1000000000")), UnitPrice: types.NewSafeNumber(dec("1000000000000"))}},
			Tax:       defaultTax(types.TaxTypeIGST),
		})
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})
}

func TestComputeTotalsGarbageNeverPropagates(t *testing.T) {
	garbage := []string{`""`, `"abc"`, `"NaN"`, `"Infinity"`, `null`, `true`, `{}`, `[]`, `1e400`, `"-"`}

	for _, g := range garbage {
		t.Run(g, func(t *testing.T) {
			body := fmt.Sprintf(`{"q": %[1]s, "p": %[1]s, "r": %[1]s, "d": %[1]s, "t": %[1]s, "o": %[1]s, "ra": %[1]s}`, g)
			var raw struct {
				Q  types.SafeNumber `json:"q"`
				P  types.SafeNumber `json:"p"`
				R  types.SafeNumber `json:"r"`
				D  types.SafeNumber `json:"d"`
				T  types.SafeNumber `json:"t"`
				O  types.SafeNumber `json:"o"`
				RA types.SafeNumber `json:"ra"`
			}
			require.NoError(t, json.Unmarshal([]byte(body), &raw))

			got, err := ComputeTotals(ComputeParams{
				LineItems: []LineInput{
					{Quantity: raw.Q, UnitPrice: raw.P, TaxRate: raw.R},
					{Quantity: num(2), UnitPrice: num(10)},
				},
				Charges: Charges{
					DiscountAmount:     raw.D,
					TransportCharges:   raw.T,
					OtherCharges:       raw.O,
					RoundingAdjustment: raw.RA,
				},
				Tax: defaultTax(types.TaxTypeCGSTSGST),
			})
			require.NoError(t, err)

			amounts := []decimal.Decimal{
				got.Subtotal, got.TotalTaxAmount, got.DiscountAmount, got.TransportCharges,
				got.OtherCharges, got.RoundingAdjustment, got.FinalAmount, got.BalanceAmount,
				got.TaxBreakdown.CGST, got.TaxBreakdown.SGST, got.TaxBreakdown.IGST,
			}
			for _, li := range got.LineItems {
				amounts = append(amounts, li.LineTotal, li.TaxAmount, li.TotalAmount)
			}
			for _, a := range amounts {
				assert.True(t, types.IsFiniteAmount(a))
			}
			// defaults: quantity 1, price 0; second line 20 + 3.6 tax
			assertDecimal(t, "20", got.Subtotal)
			assertDecimal(t, "23.6", got.FinalAmount)
		})
	}
}

func TestComputeTotalsProperties(t *testing.T) {
	quantities := []string{"0", "1", "2.5", "3", "10", "0.333"}
	prices := []string{"0", "0.01", "19.99", "100", "1234.56"}
	rates := []string{"0", "5", "12", "18", "28", "100"}

	for _, taxType := range []types.TaxType{types.TaxTypeIGST, types.TaxTypeCGSTSGST} {
		for _, q := range quantities {
			for _, p := range prices {
				for _, r := range rates {
					params := ComputeParams{
						LineItems: []LineInput{
							{Quantity: types.ParseSafeNumber(q), UnitPrice: types.ParseSafeNumber(p), TaxRate: types.ParseSafeNumber(r)},
							{Quantity: num(1), UnitPrice: num(7.77), TaxRate: num(18)},
						},
						Charges: Charges{DiscountAmount: num(1), TransportCharges: num(2), OtherCharges: num(3), RoundingAdjustment: num(0.25)},
						Tax:     defaultTax(taxType),
					}
					got, err := ComputeTotals(params)
					require.NoError(t, err)

					sumLines, sumTax := decimal.Zero, decimal.Zero
					for _, li := range got.LineItems {
						// line arithmetic
						assert.True(t, li.LineTotal.Equal(li.Quantity.Mul(li.UnitPrice).Round(2)))
						assert.True(t, li.TaxAmount.Equal(li.LineTotal.Mul(li.TaxRate).Div(hundred).Round(2)))
						assert.True(t, li.TotalAmount.Equal(li.LineTotal.Add(li.TaxAmount)))
						sumLines = sumLines.Add(li.LineTotal)
						sumTax = sumTax.Add(li.TaxAmount)
					}

					// aggregates
					assert.True(t, got.Subtotal.Equal(sumLines))
					assert.True(t, got.TotalTaxAmount.Equal(sumTax))

					// final amount identity
					want := got.Subtotal.Add(got.TotalTaxAmount).Sub(dec("1")).Add(dec("2")).Add(dec("3")).Add(dec("0.25"))
					assert.True(t, got.FinalAmount.Equal(want))

					// tax split exclusivity
					b := got.TaxBreakdown
					if taxType == types.TaxTypeIGST {
						assert.True(t, b.IGST.Equal(got.TotalTaxAmount) && b.CGST.IsZero() && b.SGST.IsZero())
					} else {
						half := got.TotalTaxAmount.Div(two).Round(2)
						assert.True(t, b.CGST.Equal(half) && b.SGST.Equal(half) && b.IGST.IsZero())
					}
				}
			}
		}
	}
}

func TestComputeTotalsSuppliedBreakdown(t *testing.T) {
	base := ComputeParams{
		LineItems: []LineInput{{Quantity: num(3), UnitPrice: num(100), TaxRate: num(18)}},
		Tax:       defaultTax(types.TaxTypeIGST),
	}

	t.Run("consistent_breakdown_is_kept", func(t *testing.T) {
		params := base
		params.Breakdown = &TaxBreakdown{CGST: dec("27"), SGST: dec("27"), IGST: decimal.Zero}
		got, err := ComputeTotals(params)
		require.NoError(t, err)
		assertDecimal(t, "27", got.TaxBreakdown.CGST)
		assertDecimal(t, "0", got.TaxBreakdown.IGST)
		assert.Equal(t, types.TaxTypeCGSTSGST, got.TaxType)
		assert.Empty(t, got.Warnings)
	})

	t.Run("mixed_breakdown_is_recomputed", func(t *testing.T) {
		params := base
		params.Breakdown = &TaxBreakdown{CGST: dec("10"), SGST: dec("10"), IGST: dec("34")}
		got, err := ComputeTotals(params)
		require.NoError(t, err)
		assertDecimal(t, "54", got.TaxBreakdown.IGST)
		assertDecimal(t, "0", got.TaxBreakdown.CGST)
		require.Len(t, got.Warnings, 1)
		assert.Equal(t, "tax_breakdown", got.Warnings[0].Field)
	})

	t.Run("zero_breakdown_is_recomputed", func(t *testing.T) {
		params := base
		params.Breakdown = &TaxBreakdown{}
		got, err := ComputeTotals(params)
		require.NoError(t, err)
		assertDecimal(t, "54", got.TaxBreakdown.IGST)
		assert.Empty(t, got.Warnings)
	})
}

func TestDerivePaymentStatus(t *testing.T) {
	tests := []struct {
		paid, balance string
		want          types.PaymentStatus
	}{
		{"0", "100", types.PaymentStatusPending},
		{"40", "60", types.PaymentStatusPartial},
		{"100", "0", types.PaymentStatusPaid},
		{"120", "-20", types.PaymentStatusPaid},
		{"0", "0", types.PaymentStatusPaid},
	}
	for _, tt := range tests {
		t.Run(tt.paid+"/"+tt.balance, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePaymentStatus(dec(tt.paid), dec(tt.balance)))
		})
	}
}

func TestRefreshPaymentStatusKeepsOutOfBandValues(t *testing.T) {
	inv := &Invoice{PaymentStatus: types.PaymentStatusOverdue, PaidAmount: dec("10"), BalanceAmount: dec("90")}
	inv.RefreshPaymentStatus()
	assert.Equal(t, types.PaymentStatusOverdue, inv.PaymentStatus)

	inv.PaidAmount, inv.BalanceAmount = dec("100"), decimal.Zero
	inv.RefreshPaymentStatus()
	assert.Equal(t, types.PaymentStatusPaid, inv.PaymentStatus)

	inv.PaymentStatus = types.PaymentStatusCancelled
	inv.RefreshPaymentStatus()
	assert.Equal(t, types.PaymentStatusCancelled, inv.PaymentStatus)
}

func TestEnsureTypeTag(t *testing.T) {
	inv := &Invoice{InvoiceType: types.InvoiceTypeSales, Tags: []string{"urgent", "", "SALES", "urgent"}}
	inv.EnsureTypeTag()
	assert.ElementsMatch(t, []string{"urgent", "SALES"}, inv.Tags)
}

func intPtr(i int) *int { return &i }
