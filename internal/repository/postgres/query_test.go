package postgres

import (
	"context"
	"testing"

	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectBuilder(t *testing.T) {
	ctx := types.SetTenantID(context.Background(), "tenant_1")
	b, err := newTenantQuery(ctx)
	require.NoError(t, err)

	filter := types.NewCustomerFilter()
	filter.Sort = lo.ToPtr("name")
	filter.Order = lo.ToPtr("asc")
	filter.Limit = lo.ToPtr(10)
	filter.Offset = lo.ToPtr(20)

	ApplyQueryOptions(b, filter, "name")
	b.where("name ILIKE ?", likePattern("50%_off"))

	query, args, err := b.build("id, name", "customers")
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name FROM customers WHERE (tenant_id = ? AND status = ? AND name ILIKE ?) ORDER BY name ASC, id ASC LIMIT 10 OFFSET 20", query)
	assert.Equal(t, []interface{}{"tenant_1", "published", `%50\%\_off%`}, args)

	count, countArgs, err := b.buildCount("customers")
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM customers WHERE (tenant_id = ? AND status = ? AND name ILIKE ?)", count)
	assert.Len(t, countArgs, 3)
}

func TestSortingRejectsUnknownColumns(t *testing.T) {
	b := &selectBuilder{}
	filter := types.NewCustomerFilter()
	filter.Sort = lo.ToPtr("name; DROP TABLE customers")

	ApplySorting(b, filter, "name")
	assert.Equal(t, "created_at DESC, id DESC", b.orderBy)
}

func TestUnlimitedFilterHasNoLimit(t *testing.T) {
	b := &selectBuilder{}
	ApplyPagination(b, types.NewNoLimitCustomerFilter())
	query, args, err := b.build("id", "customers")
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM customers", query)
	assert.Empty(t, args)
}

func TestInvoiceFilterConditions(t *testing.T) {
	b := &selectBuilder{}
	filter := types.NewNoLimitInvoiceFilter()
	filter.Tag = "SALES"
	filter.OnlyOutstanding = true
	applyInvoiceFilter(b, filter)

	query, args, err := b.buildCount("invoices")
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM invoices WHERE (status = ? AND tags @> ?::jsonb AND balance_amount > 0 AND invoice_status NOT IN (?, ?))", query)
	assert.Len(t, args, 4)
}

func TestTenantQueryRequiresTenant(t *testing.T) {
	_, err := newTenantQuery(context.Background())
	assert.True(t, ierr.IsUnauthorized(err))
}

func TestJSONB(t *testing.T) {
	in := jsonb[[]string]{V: []string{"SALES", "urgent"}}
	value, err := in.Value()
	require.NoError(t, err)

	var out jsonb[[]string]
	require.NoError(t, out.Scan(value))
	assert.Equal(t, in.V, out.V)

	var empty jsonb[[]string]
	require.NoError(t, empty.Scan(nil))
	assert.Nil(t, empty.V)
}
