package postgres

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/postgres"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/lib/pq"
	"github.com/samber/lo"
)

// selectBuilder accumulates the conditions, order and page of a list query
// and renders it with squirrel. Placeholders stay ?, the querier rebinds them
// to $n before execution.
type selectBuilder struct {
	conditions sq.And
	orderBy    string
	limit      int
	offset     int
}

func (b *selectBuilder) where(condition string, args ...interface{}) *selectBuilder {
	b.conditions = append(b.conditions, sq.Expr(condition, args...))
	return b
}

func (b *selectBuilder) filtered(q sq.SelectBuilder) sq.SelectBuilder {
	if len(b.conditions) == 0 {
		return q
	}
	return q.Where(b.conditions)
}

// build selects columns from table with the WHERE, ORDER BY and LIMIT/OFFSET
func (b *selectBuilder) build(columns, table string) (string, []interface{}, error) {
	q := b.filtered(sq.Select(columns).From(table))
	if b.orderBy != "" {
		q = q.OrderBy(b.orderBy)
	}
	if b.limit > 0 {
		q = q.Limit(uint64(b.limit)).Offset(uint64(b.offset))
	}
	return toSQL(q)
}

// buildCount renders a count over the same conditions, ignoring order and paging
func (b *selectBuilder) buildCount(table string) (string, []interface{}, error) {
	return toSQL(b.filtered(sq.Select("COUNT(*)").From(table)))
}

func toSQL(q sq.SelectBuilder) (string, []interface{}, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return "", nil, ierr.WithError(err).
			WithHint("Failed to build query").
			Mark(ierr.ErrDatabase)
	}
	return query, args, nil
}

// newTenantQuery scopes a query to the tenant in ctx
func newTenantQuery(ctx context.Context) (*selectBuilder, error) {
	tenantID, err := postgres.TenantID(ctx)
	if err != nil {
		return nil, err
	}
	b := &selectBuilder{}
	b.where("tenant_id = ?", tenantID)
	return b, nil
}

// ApplyBaseFilters applies the status filter of a list query
func ApplyBaseFilters(b *selectBuilder, filter types.BaseFilter) {
	if filter == nil {
		b.where("status = ?", types.StatusPublished)
		return
	}
	b.where("status = ?", filter.GetStatus())
}

// ApplySorting orders by the filter's sort column when it is allowed, created_at otherwise
func ApplySorting(b *selectBuilder, filter types.BaseFilter, allowed ...string) {
	column, order := types.FILTER_DEFAULT_SORT, types.FILTER_DEFAULT_ORDER
	if filter != nil {
		if lo.Contains(append(allowed, "created_at", "updated_at"), filter.GetSort()) {
			column = filter.GetSort()
		}
		if filter.GetOrder() == types.OrderAsc {
			order = types.OrderAsc
		}
	}
	b.orderBy = fmt.Sprintf("%s %s, id %s", column, strings.ToUpper(order), strings.ToUpper(order))
}

// ApplyPagination applies pagination if the filter is not unlimited
func ApplyPagination(b *selectBuilder, filter types.BaseFilter) {
	if filter == nil || filter.IsUnlimited() || filter.GetLimit() <= 0 {
		return
	}
	b.limit = filter.GetLimit()
	b.offset = filter.GetOffset()
}

// ApplyQueryOptions applies all common query options (base filters, pagination, sorting)
func ApplyQueryOptions(b *selectBuilder, filter types.BaseFilter, sortable ...string) {
	ApplyBaseFilters(b, filter)
	ApplySorting(b, filter, sortable...)
	ApplyPagination(b, filter)
}

// likePattern escapes LIKE metacharacters and wraps s for a contains match
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}

// jsonb stores any value as a JSONB column
type jsonb[T any] struct {
	V T
}

func (j jsonb[T]) Value() (driver.Value, error) {
	return json.Marshal(j.V)
}

func (j *jsonb[T]) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return ierr.NewErrorf("cannot scan %T into jsonb", src).Mark(ierr.ErrDatabase)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, &j.V)
}

func rowsAffected(res interface{ RowsAffected() (int64, error) }) int64 {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}

func notFound(entity, id string) error {
	return ierr.NewErrorf("%s %s not found", entity, id).
		WithHintf("%s not found", strings.ToUpper(entity[:1])+entity[1:]).
		WithReportableDetails(map[string]any{
			entity + "_id": id,
		}).
		Mark(ierr.ErrNotFound)
}

// postgresArray binds a string slice to an ANY(?) parameter
func postgresArray(values []string) interface{} {
	return pq.StringArray(values)
}
