package postgres

import (
	"context"
	"time"

	"github.com/flexprice/gstbill/internal/domain/customer"
	"github.com/flexprice/gstbill/internal/logger"
	"github.com/flexprice/gstbill/internal/postgres"
	"github.com/flexprice/gstbill/internal/types"
)

type customerRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewCustomerRepository(client postgres.IClient, logger *logger.Logger) customer.Repository {
	return &customerRepository{client: client, logger: logger}
}

const customerColumns = `id, tenant_id, name, phone, email, gstin, vendor_code, billing_address, shipping_address,
	status, created_at, updated_at, created_by, updated_by`

func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `) VALUES (
			:id, :tenant_id, :name, :phone, :email, :gstin, :vendor_code, :billing_address, :shipping_address,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating customer",
		"customer_id", c.ID,
		"tenant_id", c.TenantID,
	)

	_, err := r.client.Querier(ctx).NamedExecContext(ctx, query, c)
	return postgres.HandleError(err, "customer", map[string]any{"customer_id": c.ID})
}

func (r *customerRepository) Get(ctx context.Context, id string) (*customer.Customer, error) {
	b, err := newTenantQuery(ctx)
	if err != nil {
		return nil, err
	}
	b.where("id = ?", id).where("status <> ?", types.StatusDeleted)

	q := r.client.Querier(ctx)
	query, args, err := b.build(customerColumns, "customers")
	if err != nil {
		return nil, err
	}

	var c customer.Customer
	if err := q.GetContext(ctx, &c, q.Rebind(query), args...); err != nil {
		return nil, postgres.HandleError(err, "customer", map[string]any{"customer_id": id})
	}
	return &c, nil
}

func (r *customerRepository) List(ctx context.Context, filter *types.CustomerFilter) ([]*customer.Customer, error) {
	b, err := r.filtered(ctx, filter)
	if err != nil {
		return nil, err
	}
	ApplySorting(b, filter, "name")
	ApplyPagination(b, filter)

	q := r.client.Querier(ctx)
	query, args, err := b.build(customerColumns, "customers")
	if err != nil {
		return nil, err
	}

	customers := make([]*customer.Customer, 0)
	if err := q.SelectContext(ctx, &customers, q.Rebind(query), args...); err != nil {
		return nil, postgres.HandleError(err, "customer", nil)
	}
	return customers, nil
}

func (r *customerRepository) Count(ctx context.Context, filter *types.CustomerFilter) (int, error) {
	b, err := r.filtered(ctx, filter)
	if err != nil {
		return 0, err
	}

	q := r.client.Querier(ctx)
	query, args, err := b.buildCount("customers")
	if err != nil {
		return 0, err
	}

	var count int
	if err := q.GetContext(ctx, &count, q.Rebind(query), args...); err != nil {
		return 0, postgres.HandleError(err, "customer", nil)
	}
	return count, nil
}

func (r *customerRepository) ListAll(ctx context.Context, filter *types.CustomerFilter) ([]*customer.Customer, error) {
	if filter == nil {
		filter = types.NewNoLimitCustomerFilter()
	}
	unlimited := *filter
	unlimited.QueryFilter = types.NewNoLimitQueryFilter()
	if filter.QueryFilter != nil {
		unlimited.QueryFilter.Status = filter.QueryFilter.Status
	}
	return r.List(ctx, &unlimited)
}

func (r *customerRepository) filtered(ctx context.Context, filter *types.CustomerFilter) (*selectBuilder, error) {
	b, err := newTenantQuery(ctx)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		ApplyBaseFilters(b, nil)
		return b, nil
	}
	ApplyBaseFilters(b, filter)

	if len(filter.CustomerIDs) > 0 {
		b.where("id = ANY(?)", postgresArray(filter.CustomerIDs))
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		b.where("(name ILIKE ? OR phone ILIKE ? OR email ILIKE ?)", pattern, pattern, pattern)
	}
	if filter.GSTIN != "" {
		b.where("gstin = ?", filter.GSTIN)
	}
	return b, nil
}

func (r *customerRepository) Update(ctx context.Context, c *customer.Customer) error {
	query := `
		UPDATE customers SET
			name = :name,
			phone = :phone,
			email = :email,
			gstin = :gstin,
			vendor_code = :vendor_code,
			billing_address = :billing_address,
			shipping_address = :shipping_address,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id AND status <> 'deleted'`

	r.logger.Debugw("updating customer",
		"customer_id", c.ID,
		"tenant_id", c.TenantID,
	)

	res, err := r.client.Querier(ctx).NamedExecContext(ctx, query, c)
	if err != nil {
		return postgres.HandleError(err, "customer", map[string]any{"customer_id": c.ID})
	}
	if rowsAffected(res) == 0 {
		return notFound("customer", c.ID)
	}
	return nil
}

// Delete is a soft delete
func (r *customerRepository) Delete(ctx context.Context, id string) error {
	tenantID, err := postgres.TenantID(ctx)
	if err != nil {
		return err
	}

	r.logger.Debugw("deleting customer",
		"customer_id", id,
		"tenant_id", tenantID,
	)

	q := r.client.Querier(ctx)
	res, err := q.ExecContext(ctx, `
		UPDATE customers SET status = $1, updated_at = $2, updated_by = $3
		WHERE id = $4 AND tenant_id = $5 AND status <> $1`,
		types.StatusDeleted, time.Now().UTC(), types.GetUserID(ctx), id, tenantID,
	)
	if err != nil {
		return postgres.HandleError(err, "customer", map[string]any{"customer_id": id})
	}
	if rowsAffected(res) == 0 {
		return notFound("customer", id)
	}
	return nil
}

func (r *customerRepository) DeleteByTenant(ctx context.Context, tenantID string) (int64, error) {
	res, err := r.client.Querier(ctx).ExecContext(ctx, `DELETE FROM customers WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return 0, postgres.HandleError(err, "customer", map[string]any{"tenant_id": tenantID})
	}
	return rowsAffected(res), nil
}
