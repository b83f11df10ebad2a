package postgres

import (
	"context"

	"github.com/flexprice/gstbill/internal/domain/settings"
	"github.com/flexprice/gstbill/internal/logger"
	"github.com/flexprice/gstbill/internal/postgres"
)

type settingsRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewSettingsRepository(client postgres.IClient, logger *logger.Logger) settings.Repository {
	return &settingsRepository{client: client, logger: logger}
}

const settingsColumns = `id, tenant_id, sales_prefix, purchase_prefix, quotation_prefix, default_tax_rate,
	default_tax_type, state_code, default_terms, footer_note, signatory_name, signatory_designation,
	signature_url, due_days, created_at, updated_at`

func (r *settingsRepository) Get(ctx context.Context, tenantID string) (*settings.Settings, error) {
	var s settings.Settings
	err := r.client.Querier(ctx).GetContext(ctx, &s,
		`SELECT `+settingsColumns+` FROM settings WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return nil, postgres.HandleError(err, "settings", map[string]any{"tenant_id": tenantID})
	}
	return &s, nil
}

// Upsert keeps the row id and creation time of an existing row
func (r *settingsRepository) Upsert(ctx context.Context, s *settings.Settings) error {
	query := `
		INSERT INTO settings (` + settingsColumns + `) VALUES (
			:id, :tenant_id, :sales_prefix, :purchase_prefix, :quotation_prefix, :default_tax_rate,
			:default_tax_type, :state_code, :default_terms, :footer_note, :signatory_name, :signatory_designation,
			:signature_url, :due_days, :created_at, :updated_at
		)
		ON CONFLICT (tenant_id) DO UPDATE SET
			sales_prefix = EXCLUDED.sales_prefix,
			purchase_prefix = EXCLUDED.purchase_prefix,
			quotation_prefix = EXCLUDED.quotation_prefix,
			default_tax_rate = EXCLUDED.default_tax_rate,
			default_tax_type = EXCLUDED.default_tax_type,
			state_code = EXCLUDED.state_code,
			default_terms = EXCLUDED.default_terms,
			footer_note = EXCLUDED.footer_note,
			signatory_name = EXCLUDED.signatory_name,
			signatory_designation = EXCLUDED.signatory_designation,
			signature_url = EXCLUDED.signature_url,
			due_days = EXCLUDED.due_days,
			updated_at = EXCLUDED.updated_at`

	r.logger.Debugw("saving settings", "tenant_id", s.TenantID)

	_, err := r.client.Querier(ctx).NamedExecContext(ctx, query, s)
	return postgres.HandleError(err, "settings", map[string]any{"tenant_id": s.TenantID})
}

func (r *settingsRepository) DeleteByTenant(ctx context.Context, tenantID string) (int64, error) {
	res, err := r.client.Querier(ctx).ExecContext(ctx, `DELETE FROM settings WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return 0, postgres.HandleError(err, "settings", map[string]any{"tenant_id": tenantID})
	}
	return rowsAffected(res), nil
}
