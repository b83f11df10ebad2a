package service

import (
	"context"
	"strings"

	"github.com/flexprice/gstbill/internal/api/dto"
	"github.com/flexprice/gstbill/internal/domain/item"
	"github.com/flexprice/gstbill/internal/domain/sequence"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/excel"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type ItemService interface {
	CreateItem(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, error)
	GetItem(ctx context.Context, id string) (*dto.ItemResponse, error)
	GetItems(ctx context.Context, filter *types.ItemFilter) (*dto.ListItemsResponse, error)
	UpdateItem(ctx context.Context, id string, req dto.UpdateItemRequest) (*dto.ItemResponse, error)
	DeleteItem(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, id string, req dto.AdjustStockRequest) (*dto.ItemResponse, error)
	ImportItems(ctx context.Context, data []byte) (*dto.ImportResponse, error)
}

type itemService struct {
	ServiceParams
	settings SettingsService
}

func NewItemService(params ServiceParams) ItemService {
	return &itemService{
		ServiceParams: params,
		settings:      NewSettingsService(params),
	}
}

func (s *itemService) CreateItem(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tenantID := types.GetTenantID(ctx)
	defaultRate, err := s.settings.GetDefaultTaxRate(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	it := req.ToItem(ctx, defaultRate)
	if err := it.Validate(); err != nil {
		return nil, err
	}

	if it.ItemCode == "" {
		if it.ItemCode, err = s.nextItemCode(ctx, tenantID); err != nil {
			return nil, err
		}
	}
	if it.PartNumber == "" {
		n, err := s.Counter.Next(ctx, sequence.PartNumberKey(tenantID))
		if err != nil {
			return nil, err
		}
		it.PartNumber = item.FormatCode(item.PartNumberPrefix, n)
	}

	if err := s.ItemRepo.Create(ctx, it); err != nil {
		return nil, err
	}

	s.Logger.Debugw("created item", "item_id", it.ID, "item_code", it.ItemCode)
	return dto.NewItemResponse(it), nil
}

// nextItemCode skips counter values whose code was already entered by hand
func (s *itemService) nextItemCode(ctx context.Context, tenantID string) (string, error) {
	attempts := s.Config.Invoicing.MaxNumberAttempts
	if attempts <= 0 {
		attempts = types.DefaultMaxNumberAttempts
	}

	for i := 0; i < attempts; i++ {
		n, err := s.Counter.Next(ctx, sequence.ItemCodeKey(tenantID))
		if err != nil {
			return "", err
		}
		code := item.FormatCode(item.ItemCodePrefix, n)

		_, err = s.ItemRepo.GetByCode(ctx, code)
		if ierr.IsNotFound(err) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}

	return "", ierr.NewErrorf("no free item code after %d attempts", attempts).
		WithHint("Could not generate a unique item code, please provide one").
		Mark(ierr.ErrNumberGeneration)
}

func (s *itemService) GetItem(ctx context.Context, id string) (*dto.ItemResponse, error) {
	if id == "" {
		return nil, ierr.NewError("missing item ID").
			WithHint("Item ID is required").
			Mark(ierr.ErrValidation)
	}

	it, err := s.ItemRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewItemResponse(it), nil
}

func (s *itemService) GetItems(ctx context.Context, filter *types.ItemFilter) (*dto.ListItemsResponse, error) {
	if filter == nil {
		filter = types.NewItemFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation)
	}

	items, err := s.ItemRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.ItemRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := types.NewListResponse(lo.Map(items, func(it *item.Item, _ int) *dto.ItemResponse {
		return dto.NewItemResponse(it)
	}), total, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func (s *itemService) UpdateItem(ctx context.Context, id string, req dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	it, err := s.ItemRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(it)
	if err := it.Validate(); err != nil {
		return nil, err
	}
	it.Touch(ctx)

	if err := s.ItemRepo.Update(ctx, it); err != nil {
		return nil, err
	}
	return dto.NewItemResponse(it), nil
}

func (s *itemService) DeleteItem(ctx context.Context, id string) error {
	return s.ItemRepo.Delete(ctx, id)
}

func (s *itemService) AdjustStock(ctx context.Context, id string, req dto.AdjustStockRequest) (*dto.ItemResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Delta.IsZero() {
		return nil, ierr.NewError("stock delta is zero").
			WithHint("Stock adjustment must not be zero").
			Mark(ierr.ErrValidation)
	}

	var it *item.Item
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		var err error
		it, err = s.ItemRepo.Get(ctx, id)
		if err != nil {
			return err
		}

		stock := it.StockQuantity.Add(req.Delta)
		if stock.IsNegative() {
			return ierr.NewError("insufficient stock").
				WithHintf("Only %s in stock", it.StockQuantity.String()).
				WithReportableDetails(map[string]any{
					"item_id": id,
					"stock":   it.StockQuantity.String(),
					"delta":   req.Delta.String(),
				}).
				Mark(ierr.ErrValidation)
		}
		it.StockQuantity = stock
		it.Touch(ctx)
		return s.ItemRepo.Update(ctx, it)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("adjusted stock",
		"item_id", id,
		"delta", req.Delta.String(),
		"stock", it.StockQuantity.String(),
		"reason", req.Reason)
	return dto.NewItemResponse(it), nil
}

// ImportItems creates one item per spreadsheet row, reporting rows that fail
func (s *itemService) ImportItems(ctx context.Context, data []byte) (*dto.ImportResponse, error) {
	rows, err := excel.ReadRows(data)
	if err != nil {
		return nil, err
	}

	resp := &dto.ImportResponse{}
	for i, row := range rows {
		req, err := itemRequestFromRow(row)
		if err == nil {
			_, err = s.CreateItem(ctx, req)
		}
		if err != nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportError{Row: i + 2, Message: ierr.DisplayMessage(err)})
			continue
		}
		resp.Imported++
	}

	s.Logger.Infow("imported items",
		"tenant_id", types.GetTenantID(ctx),
		"imported", resp.Imported,
		"failed", resp.Failed)
	return resp, nil
}

func itemRequestFromRow(row excel.Row) (dto.CreateItemRequest, error) {
	req := dto.CreateItemRequest{
		ItemCode:    row.Get("item_code", "code", "sku"),
		PartNumber:  row.Get("part_number", "part_no"),
		Name:        row.Get("name", "item_name"),
		Description: row.Get("description"),
		Unit:        row.Get("unit", "uom"),
		HSNCode:     row.Get("hsn_code", "hsn"),
	}

	amounts := []struct {
		keys []string
		dst  *decimal.Decimal
	}{
		{[]string{"sale_price", "price", "rate"}, &req.SalePrice},
		{[]string{"purchase_price", "cost"}, &req.PurchasePrice},
		{[]string{"stock_quantity", "stock", "quantity"}, &req.StockQuantity},
	}
	for _, a := range amounts {
		d, err := parseCell(row, a.keys...)
		if err != nil {
			return req, err
		}
		if d != nil {
			*a.dst = *d
		}
	}

	rate, err := parseCell(row, "tax_rate", "gst_rate", "gst")
	if err != nil {
		return req, err
	}
	req.TaxRate = rate
	return req, nil
}

// parseCell returns nil for an empty cell
func parseCell(row excel.Row, keys ...string) (*decimal.Decimal, error) {
	raw := strings.TrimSuffix(strings.ReplaceAll(row.Get(keys...), ",", ""), "%")
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("%s: %q is not a number", keys[0], raw).
			Mark(ierr.ErrValidation)
	}
	return &d, nil
}
