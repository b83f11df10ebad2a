package dto

import (
	"context"
	"strings"

	"github.com/flexprice/gstbill/internal/domain/item"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/flexprice/gstbill/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CreateItemRequest adds an inventory item. ItemCode and PartNumber are
// generated when omitted.
type CreateItemRequest struct {
	ItemCode      string             `json:"item_code" validate:"omitempty,max=50"`
	PartNumber    string             `json:"part_number" validate:"omitempty,max=50"`
	Name          string             `json:"name" validate:"required,max=255"`
	Description   string             `json:"description" validate:"omitempty,max=1000"`
	Unit          string             `json:"unit" validate:"omitempty,max=20"`
	HSNCode       string             `json:"hsn_code" validate:"omitempty,max=10,numeric"`
	SalePrice     decimal.Decimal    `json:"sale_price" swaggertype:"string"`
	PurchasePrice decimal.Decimal    `json:"purchase_price" swaggertype:"string"`
	TaxRate       *decimal.Decimal   `json:"tax_rate,omitempty" swaggertype:"string"`
	StockQuantity decimal.Decimal    `json:"stock_quantity" swaggertype:"string"`
	PricingTiers  []PricingTierInput `json:"pricing_tiers,omitempty" validate:"omitempty,dive"`
}

type PricingTierInput struct {
	MinQuantity decimal.Decimal `json:"min_quantity" swaggertype:"string"`
	UnitPrice   decimal.Decimal `json:"unit_price" swaggertype:"string"`
}

type UpdateItemRequest struct {
	Name          *string             `json:"name" validate:"omitempty,min=1,max=255"`
	PartNumber    *string             `json:"part_number" validate:"omitempty,max=50"`
	Description   *string             `json:"description" validate:"omitempty,max=1000"`
	Unit          *string             `json:"unit" validate:"omitempty,max=20"`
	HSNCode       *string             `json:"hsn_code" validate:"omitempty,max=10,numeric"`
	SalePrice     *decimal.Decimal    `json:"sale_price,omitempty" swaggertype:"string"`
	PurchasePrice *decimal.Decimal    `json:"purchase_price,omitempty" swaggertype:"string"`
	TaxRate       *decimal.Decimal    `json:"tax_rate,omitempty" swaggertype:"string"`
	PricingTiers  *[]PricingTierInput `json:"pricing_tiers,omitempty"`
}

// AdjustStockRequest adds Delta to the stock; a negative delta removes stock
type AdjustStockRequest struct {
	Delta  decimal.Decimal `json:"delta" swaggertype:"string"`
	Reason string          `json:"reason" validate:"omitempty,max=255"`
}

type ItemResponse struct {
	*item.Item
	LowStock bool `json:"low_stock"`
}

// ListItemsResponse represents the response for listing items
type ListItemsResponse = types.ListResponse[*ItemResponse]

func NewItemResponse(i *item.Item) *ItemResponse {
	return &ItemResponse{Item: i, LowStock: i.IsLowStock()}
}

func (r *CreateItemRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToItem builds the item with defaultTaxRate applied when the request has none
func (r *CreateItemRequest) ToItem(ctx context.Context, defaultTaxRate decimal.Decimal) *item.Item {
	it := &item.Item{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ITEM),
		ItemCode:      strings.TrimSpace(r.ItemCode),
		PartNumber:    strings.TrimSpace(r.PartNumber),
		Name:          strings.TrimSpace(r.Name),
		Description:   r.Description,
		Unit:          r.Unit,
		HSNCode:       r.HSNCode,
		SalePrice:     r.SalePrice,
		PurchasePrice: r.PurchasePrice,
		TaxRate:       lo.FromPtrOr(r.TaxRate, defaultTaxRate),
		StockQuantity: r.StockQuantity,
		PricingTiers:  toPricingTiers(r.PricingTiers),
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
	it.SortTiers()
	return it
}

func (r *UpdateItemRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// Apply copies the supplied fields onto it
func (r *UpdateItemRequest) Apply(it *item.Item) {
	if r.Name != nil {
		it.Name = strings.TrimSpace(*r.Name)
	}
	if r.PartNumber != nil {
		it.PartNumber = strings.TrimSpace(*r.PartNumber)
	}
	if r.Description != nil {
		it.Description = *r.Description
	}
	if r.Unit != nil {
		it.Unit = *r.Unit
	}
	if r.HSNCode != nil {
		it.HSNCode = *r.HSNCode
	}
	if r.SalePrice != nil {
		it.SalePrice = *r.SalePrice
	}
	if r.PurchasePrice != nil {
		it.PurchasePrice = *r.PurchasePrice
	}
	if r.TaxRate != nil {
		it.TaxRate = *r.TaxRate
	}
	if r.PricingTiers != nil {
		it.PricingTiers = toPricingTiers(*r.PricingTiers)
		it.SortTiers()
	}
}

func (r *AdjustStockRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func toPricingTiers(in []PricingTierInput) item.PricingTiers {
	if len(in) == 0 {
		return item.PricingTiers{}
	}
	return lo.Map(in, func(t PricingTierInput, _ int) item.PricingTier {
		return item.PricingTier{MinQuantity: t.MinQuantity, UnitPrice: t.UnitPrice}
	})
}
