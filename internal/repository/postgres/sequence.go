package postgres

import (
	"context"
	"strings"

	"github.com/flexprice/gstbill/internal/domain/sequence"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/logger"
	"github.com/flexprice/gstbill/internal/postgres"
)

type sequenceCounter struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewSequenceCounter stores counters in the sequences table. The upsert takes a
// row lock, so concurrent callers on one key are serialized by postgres.
func NewSequenceCounter(client postgres.IClient, logger *logger.Logger) sequence.Counter {
	return &sequenceCounter{client: client, logger: logger}
}

func (c *sequenceCounter) Next(ctx context.Context, key string) (int64, error) {
	tenantID, err := tenantFromKey(key)
	if err != nil {
		return 0, err
	}

	var value int64
	err = c.client.Querier(ctx).QueryRowxContext(ctx, `
		INSERT INTO sequences (key, tenant_id, last_value) VALUES ($1, $2, 1)
		ON CONFLICT (key) DO UPDATE SET last_value = sequences.last_value + 1, updated_at = NOW()
		RETURNING last_value`,
		key, tenantID,
	).Scan(&value)
	if err != nil {
		return 0, postgres.HandleError(err, "sequence", map[string]any{"key": key})
	}

	c.logger.Debugw("allocated sequence value", "key", key, "value", value)
	return value, nil
}

func (c *sequenceCounter) DeleteByTenant(ctx context.Context, tenantID string) error {
	_, err := c.client.Querier(ctx).ExecContext(ctx, `DELETE FROM sequences WHERE tenant_id = $1`, tenantID)
	return postgres.HandleError(err, "sequence", map[string]any{"tenant_id": tenantID})
}

// tenantFromKey reads the owner out of a kind:tenant[:...] key
func tenantFromKey(key string) (string, error) {
	parts := strings.Split(key, ":")
	if len(parts) < 2 || parts[1] == "" {
		return "", ierr.NewErrorf("malformed sequence key %q", key).
			WithHint("Invalid sequence key").
			Mark(ierr.ErrValidation)
	}
	return parts[1], nil
}
