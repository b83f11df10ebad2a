package postgres

import (
	"context"
	"time"

	"github.com/flexprice/gstbill/internal/domain/bankaccount"
	"github.com/flexprice/gstbill/internal/logger"
	"github.com/flexprice/gstbill/internal/postgres"
	"github.com/flexprice/gstbill/internal/types"
)

type bankAccountRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewBankAccountRepository(client postgres.IClient, logger *logger.Logger) bankaccount.Repository {
	return &bankAccountRepository{client: client, logger: logger}
}

const bankAccountColumns = `id, tenant_id, account_holder, bank_name, account_number, ifsc, branch, upi_id,
	is_default, status, created_at, updated_at, created_by, updated_by`

func (r *bankAccountRepository) Create(ctx context.Context, a *bankaccount.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (` + bankAccountColumns + `) VALUES (
			:id, :tenant_id, :account_holder, :bank_name, :account_number, :ifsc, :branch, :upi_id,
			:is_default, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating bank account",
		"bank_account_id", a.ID,
		"tenant_id", a.TenantID,
		"is_default", a.IsDefault,
	)

	_, err := r.client.Querier(ctx).NamedExecContext(ctx, query, a)
	return postgres.HandleError(err, "bank account", map[string]any{"bank_account_id": a.ID})
}

func (r *bankAccountRepository) Get(ctx context.Context, id string) (*bankaccount.BankAccount, error) {
	b, err := newTenantQuery(ctx)
	if err != nil {
		return nil, err
	}
	b.where("id = ?", id).where("status = ?", types.StatusPublished)
	return r.getOne(ctx, b, map[string]any{"bank_account_id": id})
}

func (r *bankAccountRepository) GetDefault(ctx context.Context) (*bankaccount.BankAccount, error) {
	b, err := newTenantQuery(ctx)
	if err != nil {
		return nil, err
	}
	b.where("is_default").where("status = ?", types.StatusPublished)
	return r.getOne(ctx, b, nil)
}

func (r *bankAccountRepository) getOne(ctx context.Context, b *selectBuilder, details map[string]any) (*bankaccount.BankAccount, error) {
	q := r.client.Querier(ctx)
	query, args, err := b.build(bankAccountColumns, "bank_accounts")
	if err != nil {
		return nil, err
	}

	var a bankaccount.BankAccount
	if err := q.GetContext(ctx, &a, q.Rebind(query), args...); err != nil {
		return nil, postgres.HandleError(err, "bank account", details)
	}
	return &a, nil
}

// List returns the default account first
func (r *bankAccountRepository) List(ctx context.Context) ([]*bankaccount.BankAccount, error) {
	b, err := newTenantQuery(ctx)
	if err != nil {
		return nil, err
	}
	ApplyBaseFilters(b, nil)
	b.orderBy = "is_default DESC, created_at ASC, id ASC"

	q := r.client.Querier(ctx)
	query, args, err := b.build(bankAccountColumns, "bank_accounts")
	if err != nil {
		return nil, err
	}

	accounts := make([]*bankaccount.BankAccount, 0)
	if err := q.SelectContext(ctx, &accounts, q.Rebind(query), args...); err != nil {
		return nil, postgres.HandleError(err, "bank account", nil)
	}
	return accounts, nil
}

func (r *bankAccountRepository) Update(ctx context.Context, a *bankaccount.BankAccount) error {
	query := `
		UPDATE bank_accounts SET
			account_holder = :account_holder,
			bank_name = :bank_name,
			account_number = :account_number,
			ifsc = :ifsc,
			branch = :branch,
			upi_id = :upi_id,
			is_default = :is_default,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id AND status = 'published'`

	res, err := r.client.Querier(ctx).NamedExecContext(ctx, query, a)
	if err != nil {
		return postgres.HandleError(err, "bank account", map[string]any{"bank_account_id": a.ID})
	}
	if rowsAffected(res) == 0 {
		return notFound("bank_account", a.ID)
	}
	return nil
}

func (r *bankAccountRepository) ClearDefault(ctx context.Context) error {
	tenantID, err := postgres.TenantID(ctx)
	if err != nil {
		return err
	}

	_, err = r.client.Querier(ctx).ExecContext(ctx, `
		UPDATE bank_accounts SET is_default = FALSE, updated_at = $1
		WHERE tenant_id = $2 AND is_default`,
		time.Now().UTC(), tenantID,
	)
	return postgres.HandleError(err, "bank account", map[string]any{"tenant_id": tenantID})
}

// Delete soft deletes the account and drops its default flag
func (r *bankAccountRepository) Delete(ctx context.Context, id string) error {
	tenantID, err := postgres.TenantID(ctx)
	if err != nil {
		return err
	}

	res, err := r.client.Querier(ctx).ExecContext(ctx, `
		UPDATE bank_accounts SET status = $1, is_default = FALSE, updated_at = $2, updated_by = $3
		WHERE id = $4 AND tenant_id = $5 AND status <> $1`,
		types.StatusDeleted, time.Now().UTC(), types.GetUserID(ctx), id, tenantID,
	)
	if err != nil {
		return postgres.HandleError(err, "bank account", map[string]any{"bank_account_id": id})
	}
	if rowsAffected(res) == 0 {
		return notFound("bank_account", id)
	}
	return nil
}

func (r *bankAccountRepository) DeleteByTenant(ctx context.Context, tenantID string) (int64, error) {
	res, err := r.client.Querier(ctx).ExecContext(ctx, `DELETE FROM bank_accounts WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return 0, postgres.HandleError(err, "bank account", map[string]any{"tenant_id": tenantID})
	}
	return rowsAffected(res), nil
}
