package service

import (
	"testing"

	"github.com/flexprice/gstbill/internal/api/dto"
	"github.com/flexprice/gstbill/internal/domain/sequence"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/excel"
	"github.com/flexprice/gstbill/internal/testutil"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ItemServiceSuite struct {
	testutil.BaseServiceTestSuite
	service ItemService
}

func TestItemService(t *testing.T) {
	suite.Run(t, new(ItemServiceSuite))
}

func (s *ItemServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewItemService(testServiceParams(&s.BaseServiceTestSuite))
}

func (s *ItemServiceSuite) createItem(req dto.CreateItemRequest) *dto.ItemResponse {
	resp, err := s.service.CreateItem(s.GetContext(), req)
	s.Require().NoError(err)
	return resp
}

func (s *ItemServiceSuite) TestCreateItemGeneratesCodes() {
	first := s.createItem(dto.CreateItemRequest{Name: "Steel Rod", SalePrice: decimal.NewFromInt(120)})
	second := s.createItem(dto.CreateItemRequest{Name: "Copper Wire", SalePrice: decimal.NewFromInt(80)})

	s.Equal("ITEM-00001", first.ItemCode)
	s.Equal("PN-00001", first.PartNumber)
	s.Equal("ITEM-00002", second.ItemCode)
	s.Equal("PN-00002", second.PartNumber)

	// no tax rate given, the settings default applies
	s.True(first.TaxRate.Equal(decimal.NewFromInt(18)))
	s.True(first.LowStock)
}

func (s *ItemServiceSuite) TestCreateItemKeepsSuppliedCodes() {
	it := s.createItem(dto.CreateItemRequest{
		ItemCode:   "SKU-77",
		PartNumber: "P-9",
		Name:       "Bolt",
		TaxRate:    lo.ToPtr(decimal.NewFromInt(5)),
	})
	s.Equal("SKU-77", it.ItemCode)
	s.Equal("P-9", it.PartNumber)
	s.True(it.TaxRate.Equal(decimal.NewFromInt(5)))
	s.Equal(int64(0), s.GetCounter().Value(sequence.ItemCodeKey(types.DefaultTenantID)))

	_, err := s.service.CreateItem(s.GetContext(), dto.CreateItemRequest{ItemCode: "SKU-77", Name: "Other"})
	s.True(ierr.IsAlreadyExists(err))
}

func (s *ItemServiceSuite) TestCreateItemSkipsTakenGeneratedCode() {
	s.createItem(dto.CreateItemRequest{ItemCode: "ITEM-00001", Name: "Manual"})

	it := s.createItem(dto.CreateItemRequest{Name: "Generated"})
	s.Equal("ITEM-00002", it.ItemCode)
}

func (s *ItemServiceSuite) TestCreateItemValidation() {
	testCases := []struct {
		name string
		req  dto.CreateItemRequest
	}{
		{name: "missing_name", req: dto.CreateItemRequest{}},
		{name: "negative_price", req: dto.CreateItemRequest{Name: "x", SalePrice: decimal.NewFromInt(-1)}},
		{name: "tax_rate_over_hundred", req: dto.CreateItemRequest{Name: "x", TaxRate: lo.ToPtr(decimal.NewFromInt(120))}},
		{name: "hsn_not_numeric", req: dto.CreateItemRequest{Name: "x", HSNCode: "72AB"}},
		{
			name: "duplicate_tier",
			req: dto.CreateItemRequest{Name: "x", PricingTiers: []dto.PricingTierInput{
				{MinQuantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(9)},
				{MinQuantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(8)},
			}},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.service.CreateItem(s.GetContext(), tc.req)
			s.Error(err)
			s.True(ierr.IsValidation(err))
		})
	}
}

func (s *ItemServiceSuite) TestUpdateItem() {
	it := s.createItem(dto.CreateItemRequest{Name: "Steel Rod", SalePrice: decimal.NewFromInt(120)})

	resp, err := s.service.UpdateItem(s.GetContext(), it.ID, dto.UpdateItemRequest{
		SalePrice: lo.ToPtr(decimal.NewFromInt(130)),
		PricingTiers: &[]dto.PricingTierInput{
			{MinQuantity: decimal.NewFromInt(100), UnitPrice: decimal.NewFromInt(110)},
			{MinQuantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(125)},
		},
	})
	s.Require().NoError(err)
	s.True(resp.SalePrice.Equal(decimal.NewFromInt(130)))
	s.Require().Len(resp.PricingTiers, 2)
	s.True(resp.PricingTiers[0].MinQuantity.Equal(decimal.NewFromInt(10)))
	s.True(resp.PriceFor(decimal.NewFromInt(50)).Equal(decimal.NewFromInt(125)))
	s.Equal("Steel Rod", resp.Name)
}

func (s *ItemServiceSuite) TestAdjustStock() {
	it := s.createItem(dto.CreateItemRequest{Name: "Steel Rod", StockQuantity: decimal.NewFromInt(10)})

	resp, err := s.service.AdjustStock(s.GetContext(), it.ID, dto.AdjustStockRequest{Delta: decimal.NewFromInt(-4), Reason: "sold"})
	s.Require().NoError(err)
	s.True(resp.StockQuantity.Equal(decimal.NewFromInt(6)))
	s.False(resp.LowStock)

	_, err = s.service.AdjustStock(s.GetContext(), it.ID, dto.AdjustStockRequest{Delta: decimal.NewFromInt(-7)})
	s.True(ierr.IsValidation(err))

	_, err = s.service.AdjustStock(s.GetContext(), it.ID, dto.AdjustStockRequest{})
	s.True(ierr.IsValidation(err))

	stored, err := s.service.GetItem(s.GetContext(), it.ID)
	s.Require().NoError(err)
	s.True(stored.StockQuantity.Equal(decimal.NewFromInt(6)))
	s.Equal(int64(2), s.GetDB().TxCount())
}

func (s *ItemServiceSuite) TestGetItemsAndDelete() {
	rod := s.createItem(dto.CreateItemRequest{Name: "Steel Rod", StockQuantity: decimal.NewFromInt(50)})
	s.createItem(dto.CreateItemRequest{Name: "Copper Wire", StockQuantity: decimal.NewFromInt(2)})

	low := types.NewItemFilter()
	low.LowStock = true
	resp, err := s.service.GetItems(s.GetContext(), low)
	s.Require().NoError(err)
	s.Require().Len(resp.Items, 1)
	s.Equal("Copper Wire", resp.Items[0].Name)

	s.NoError(s.service.DeleteItem(s.GetContext(), rod.ID))
	all, err := s.service.GetItems(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Len(all.Items, 1)

	_, err = s.service.GetItem(s.GetContext(), rod.ID)
	s.True(ierr.IsNotFound(err))
}

func (s *ItemServiceSuite) TestImportItems() {
	data, err := excel.Write("Items",
		[]string{"Name", "Item Code", "HSN", "Sale Price", "GST Rate", "Stock"},
		[][]interface{}{
			{"Steel Rod", "", "7214", "1,250.50", "18%", "40"},
			{"Copper Wire", "CW-1", "7408", "abc", "", ""},
			{"", "", "", "10", "", ""},
			{"Bolt", "B-1", "", "2", "5", "1000"},
		})
	s.Require().NoError(err)

	resp, err := s.service.ImportItems(s.GetContext(), data)
	s.Require().NoError(err)
	s.Equal(2, resp.Imported)
	s.Equal(2, resp.Failed)
	s.Equal(3, resp.Errors[0].Row)

	list, err := s.service.GetItems(s.GetContext(), types.NewItemFilter())
	s.Require().NoError(err)
	s.Require().Len(list.Items, 2)

	byName := lo.KeyBy(list.Items, func(i *dto.ItemResponse) string { return i.Name })
	s.True(byName["Steel Rod"].SalePrice.Equal(decimal.RequireFromString("1250.50")))
	s.Equal("ITEM-00001", byName["Steel Rod"].ItemCode)
	s.True(byName["Bolt"].TaxRate.Equal(decimal.NewFromInt(5)))
}
