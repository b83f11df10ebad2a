package postgres

import (
	"context"
	"strings"

	"github.com/flexprice/gstbill/internal/domain/tenant"
	"github.com/flexprice/gstbill/internal/logger"
	"github.com/flexprice/gstbill/internal/postgres"
	"github.com/flexprice/gstbill/internal/types"
)

type tenantRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewTenantRepository(client postgres.IClient, logger *logger.Logger) tenant.Repository {
	return &tenantRepository{client: client, logger: logger}
}

const tenantColumns = `id, business_name, owner_name, email, phone, gstin, address, state_code, logo_url,
	signature_url, footer_note, password_hash, is_locked, is_suspended, status, created_at, updated_at`

func (r *tenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	query := `
		INSERT INTO tenants (` + tenantColumns + `) VALUES (
			:id, :business_name, :owner_name, :email, :phone, :gstin, :address, :state_code, :logo_url,
			:signature_url, :footer_note, :password_hash, :is_locked, :is_suspended, :status, :created_at, :updated_at
		)`

	r.logger.Debugw("creating tenant", "tenant_id", t.ID)

	_, err := r.client.Querier(ctx).NamedExecContext(ctx, query, t)
	return postgres.HandleError(err, "tenant", map[string]any{"email": t.Email})
}

func (r *tenantRepository) GetByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := r.client.Querier(ctx).GetContext(ctx, &t,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
	if err != nil {
		return nil, postgres.HandleError(err, "tenant", map[string]any{"tenant_id": id})
	}
	return &t, nil
}

func (r *tenantRepository) GetByEmail(ctx context.Context, email string) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := r.client.Querier(ctx).GetContext(ctx, &t,
		`SELECT `+tenantColumns+` FROM tenants WHERE LOWER(email) = $1`, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, postgres.HandleError(err, "tenant", nil)
	}
	return &t, nil
}

func (r *tenantRepository) List(ctx context.Context, filter *types.TenantFilter) ([]*tenant.Tenant, error) {
	b := r.filtered(filter)
	ApplySorting(b, filter, "business_name", "email")
	ApplyPagination(b, filter)

	q := r.client.Querier(ctx)
	query, args, err := b.build(tenantColumns, "tenants")
	if err != nil {
		return nil, err
	}

	tenants := make([]*tenant.Tenant, 0)
	if err := q.SelectContext(ctx, &tenants, q.Rebind(query), args...); err != nil {
		return nil, postgres.HandleError(err, "tenant", nil)
	}
	return tenants, nil
}

func (r *tenantRepository) Count(ctx context.Context, filter *types.TenantFilter) (int, error) {
	b := r.filtered(filter)

	q := r.client.Querier(ctx)
	query, args, err := b.buildCount("tenants")
	if err != nil {
		return 0, err
	}

	var count int
	if err := q.GetContext(ctx, &count, q.Rebind(query), args...); err != nil {
		return 0, postgres.HandleError(err, "tenant", nil)
	}
	return count, nil
}

// filtered is not tenant scoped: only the admin lists tenants
func (r *tenantRepository) filtered(filter *types.TenantFilter) *selectBuilder {
	b := &selectBuilder{}
	if filter == nil {
		ApplyBaseFilters(b, nil)
		return b
	}
	ApplyBaseFilters(b, filter)

	if len(filter.TenantIDs) > 0 {
		b.where("id = ANY(?)", postgresArray(filter.TenantIDs))
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		b.where("(business_name ILIKE ? OR owner_name ILIKE ? OR email ILIKE ?)", pattern, pattern, pattern)
	}
	if filter.Locked != nil {
		b.where("is_locked = ?", *filter.Locked)
	}
	if filter.Suspended != nil {
		b.where("is_suspended = ?", *filter.Suspended)
	}
	return b
}

func (r *tenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	query := `
		UPDATE tenants SET
			business_name = :business_name,
			owner_name = :owner_name,
			phone = :phone,
			gstin = :gstin,
			address = :address,
			state_code = :state_code,
			logo_url = :logo_url,
			signature_url = :signature_url,
			footer_note = :footer_note,
			password_hash = :password_hash,
			is_locked = :is_locked,
			is_suspended = :is_suspended,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := r.client.Querier(ctx).NamedExecContext(ctx, query, t)
	if err != nil {
		return postgres.HandleError(err, "tenant", map[string]any{"tenant_id": t.ID})
	}
	if rowsAffected(res) == 0 {
		return notFound("tenant", t.ID)
	}
	return nil
}

func (r *tenantRepository) Delete(ctx context.Context, id string) error {
	res, err := r.client.Querier(ctx).ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return postgres.HandleError(err, "tenant", map[string]any{"tenant_id": id})
	}
	if rowsAffected(res) == 0 {
		return notFound("tenant", id)
	}
	return nil
}
