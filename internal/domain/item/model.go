package item

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/shopspring/decimal"
)

const (
	ItemCodePrefix   = "ITEM"
	PartNumberPrefix = "PN"
)

// Item is an inventory record. Line items may reference it, but they copy its
// name, price and tax rate when the invoice is created.
type Item struct {
	ID            string          `db:"id" json:"id"`
	ItemCode      string          `db:"item_code" json:"item_code"`
	PartNumber    string          `db:"part_number" json:"part_number"`
	Name          string          `db:"name" json:"name"`
	Description   string          `db:"description" json:"description"`
	Unit          string          `db:"unit" json:"unit"`
	HSNCode       string          `db:"hsn_code" json:"hsn_code"`
	SalePrice     decimal.Decimal `db:"sale_price" json:"sale_price" swaggertype:"string"`
	PurchasePrice decimal.Decimal `db:"purchase_price" json:"purchase_price" swaggertype:"string"`
	TaxRate       decimal.Decimal `db:"tax_rate" json:"tax_rate" swaggertype:"string"`
	StockQuantity decimal.Decimal `db:"stock_quantity" json:"stock_quantity" swaggertype:"string"`
	PricingTiers  PricingTiers    `db:"pricing_tiers" json:"pricing_tiers"`

	types.BaseModel
}

// PricingTier applies UnitPrice once the ordered quantity reaches MinQuantity
type PricingTier struct {
	MinQuantity decimal.Decimal `json:"min_quantity" swaggertype:"string"`
	UnitPrice   decimal.Decimal `json:"unit_price" swaggertype:"string"`
}

type PricingTiers []PricingTier

func (t PricingTiers) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t)
}

func (t *PricingTiers) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return ierr.NewErrorf("cannot scan %T into pricing tiers", src).Mark(ierr.ErrDatabase)
	}
}

// FormatCode renders a counter value as a code such as ITEM-00001
func FormatCode(prefix string, n int64) string {
	return fmt.Sprintf("%s-%05d", prefix, n)
}

// PriceFor returns the unit price for quantity: the tier with the highest
// minimum not above quantity, or the sale price when no tier applies
func (i *Item) PriceFor(quantity decimal.Decimal) decimal.Decimal {
	price := i.SalePrice
	best := decimal.NewFromInt(-1)
	for _, tier := range i.PricingTiers {
		if tier.MinQuantity.LessThanOrEqual(quantity) && tier.MinQuantity.GreaterThan(best) {
			best = tier.MinQuantity
			price = tier.UnitPrice
		}
	}
	return price
}

// IsLowStock reports whether stock is at or below the low stock threshold
func (i *Item) IsLowStock() bool {
	return i.StockQuantity.LessThanOrEqual(decimal.NewFromInt(types.LowStockThreshold))
}

// SortTiers orders tiers by minimum quantity
func (i *Item) SortTiers() {
	sort.SliceStable(i.PricingTiers, func(a, b int) bool {
		return i.PricingTiers[a].MinQuantity.LessThan(i.PricingTiers[b].MinQuantity)
	})
}

func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ierr.NewError("item name is required").
			WithHint("Item name is required").
			Mark(ierr.ErrValidation)
	}
	if i.SalePrice.IsNegative() || i.PurchasePrice.IsNegative() {
		return ierr.NewError("negative price").
			WithHint("Prices must not be negative").
			Mark(ierr.ErrValidation)
	}
	if i.TaxRate.IsNegative() || i.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return ierr.NewError("invalid tax rate").
			WithHint("Tax rate must be between 0 and 100").
			Mark(ierr.ErrValidation)
	}

	seen := make(map[string]bool, len(i.PricingTiers))
	for idx, tier := range i.PricingTiers {
		if tier.MinQuantity.IsNegative() || tier.UnitPrice.IsNegative() {
			return ierr.NewErrorf("pricing tier %d is negative", idx).
				WithHintf("pricing_tiers[%d]: quantity and price must not be negative", idx).
				WithReportableDetails(map[string]any{
					"tier_index": idx,
				}).
				Mark(ierr.ErrValidation)
		}
		key := tier.MinQuantity.String()
		if seen[key] {
			return ierr.NewErrorf("duplicate pricing tier %s", key).
				WithHintf("pricing_tiers[%d]: duplicate min_quantity %s", idx, key).
				WithReportableDetails(map[string]any{
					"tier_index": idx,
				}).
				Mark(ierr.ErrValidation)
		}
		seen[key] = true
	}
	return nil
}
