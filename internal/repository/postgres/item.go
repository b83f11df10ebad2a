package postgres

import (
	"context"
	"time"

	"github.com/flexprice/gstbill/internal/domain/item"
	"github.com/flexprice/gstbill/internal/logger"
	"github.com/flexprice/gstbill/internal/postgres"
	"github.com/flexprice/gstbill/internal/types"
)

type itemRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewItemRepository(client postgres.IClient, logger *logger.Logger) item.Repository {
	return &itemRepository{client: client, logger: logger}
}

const itemColumns = `id, tenant_id, item_code, part_number, name, description, unit, hsn_code, sale_price,
	purchase_price, tax_rate, stock_quantity, pricing_tiers, status, created_at, updated_at, created_by, updated_by`

func (r *itemRepository) Create(ctx context.Context, it *item.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `) VALUES (
			:id, :tenant_id, :item_code, :part_number, :name, :description, :unit, :hsn_code, :sale_price,
			:purchase_price, :tax_rate, :stock_quantity, :pricing_tiers, :status, :created_at, :updated_at,
			:created_by, :updated_by
		)`

	r.logger.Debugw("creating item",
		"item_id", it.ID,
		"item_code", it.ItemCode,
		"tenant_id", it.TenantID,
	)

	_, err := r.client.Querier(ctx).NamedExecContext(ctx, query, it)
	return postgres.HandleError(err, "item", map[string]any{"item_code": it.ItemCode})
}

func (r *itemRepository) Get(ctx context.Context, id string) (*item.Item, error) {
	return r.getOne(ctx, "id = ?", id, map[string]any{"item_id": id})
}

func (r *itemRepository) GetByCode(ctx context.Context, itemCode string) (*item.Item, error) {
	return r.getOne(ctx, "item_code = ?", itemCode, map[string]any{"item_code": itemCode})
}

func (r *itemRepository) getOne(ctx context.Context, condition string, arg interface{}, details map[string]any) (*item.Item, error) {
	b, err := newTenantQuery(ctx)
	if err != nil {
		return nil, err
	}
	b.where(condition, arg).where("status <> ?", types.StatusDeleted)

	q := r.client.Querier(ctx)
	query, args, err := b.build(itemColumns, "items")
	if err != nil {
		return nil, err
	}

	var it item.Item
	if err := q.GetContext(ctx, &it, q.Rebind(query), args...); err != nil {
		return nil, postgres.HandleError(err, "item", details)
	}
	return &it, nil
}

func (r *itemRepository) List(ctx context.Context, filter *types.ItemFilter) ([]*item.Item, error) {
	b, err := r.filtered(ctx, filter)
	if err != nil {
		return nil, err
	}
	ApplySorting(b, filter, "name", "item_code", "stock_quantity")
	ApplyPagination(b, filter)

	q := r.client.Querier(ctx)
	query, args, err := b.build(itemColumns, "items")
	if err != nil {
		return nil, err
	}

	items := make([]*item.Item, 0)
	if err := q.SelectContext(ctx, &items, q.Rebind(query), args...); err != nil {
		return nil, postgres.HandleError(err, "item", nil)
	}
	return items, nil
}

func (r *itemRepository) Count(ctx context.Context, filter *types.ItemFilter) (int, error) {
	b, err := r.filtered(ctx, filter)
	if err != nil {
		return 0, err
	}

	q := r.client.Querier(ctx)
	query, args, err := b.buildCount("items")
	if err != nil {
		return 0, err
	}

	var count int
	if err := q.GetContext(ctx, &count, q.Rebind(query), args...); err != nil {
		return 0, postgres.HandleError(err, "item", nil)
	}
	return count, nil
}

func (r *itemRepository) filtered(ctx context.Context, filter *types.ItemFilter) (*selectBuilder, error) {
	b, err := newTenantQuery(ctx)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		ApplyBaseFilters(b, nil)
		return b, nil
	}
	ApplyBaseFilters(b, filter)

	if len(filter.ItemIDs) > 0 {
		b.where("id = ANY(?)", postgresArray(filter.ItemIDs))
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		b.where("(name ILIKE ? OR item_code ILIKE ? OR part_number ILIKE ?)", pattern, pattern, pattern)
	}
	if filter.HSNCode != "" {
		b.where("hsn_code = ?", filter.HSNCode)
	}
	if filter.LowStock {
		b.where("stock_quantity <= ?", types.LowStockThreshold)
	}
	return b, nil
}

func (r *itemRepository) Update(ctx context.Context, it *item.Item) error {
	query := `
		UPDATE items SET
			item_code = :item_code,
			part_number = :part_number,
			name = :name,
			description = :description,
			unit = :unit,
			hsn_code = :hsn_code,
			sale_price = :sale_price,
			purchase_price = :purchase_price,
			tax_rate = :tax_rate,
			stock_quantity = :stock_quantity,
			pricing_tiers = :pricing_tiers,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id AND status <> 'deleted'`

	r.logger.Debugw("updating item",
		"item_id", it.ID,
		"tenant_id", it.TenantID,
	)

	res, err := r.client.Querier(ctx).NamedExecContext(ctx, query, it)
	if err != nil {
		return postgres.HandleError(err, "item", map[string]any{"item_id": it.ID})
	}
	if rowsAffected(res) == 0 {
		return notFound("item", it.ID)
	}
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id string) error {
	tenantID, err := postgres.TenantID(ctx)
	if err != nil {
		return err
	}

	res, err := r.client.Querier(ctx).ExecContext(ctx, `
		UPDATE items SET status = $1, updated_at = $2, updated_by = $3
		WHERE id = $4 AND tenant_id = $5 AND status <> $1`,
		types.StatusDeleted, time.Now().UTC(), types.GetUserID(ctx), id, tenantID,
	)
	if err != nil {
		return postgres.HandleError(err, "item", map[string]any{"item_id": id})
	}
	if rowsAffected(res) == 0 {
		return notFound("item", id)
	}
	return nil
}

func (r *itemRepository) DeleteByTenant(ctx context.Context, tenantID string) (int64, error) {
	res, err := r.client.Querier(ctx).ExecContext(ctx, `DELETE FROM items WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return 0, postgres.HandleError(err, "item", map[string]any{"tenant_id": tenantID})
	}
	return rowsAffected(res), nil
}
