package redis

import (
	"context"

	"github.com/flexprice/gstbill/internal/domain/sequence"
	ierr "github.com/flexprice/gstbill/internal/errors"
)

const counterPrefix = keyPrefix + "seq:"

type counter struct {
	client *Client
}

// NewCounter keeps sequences in redis. INCR is atomic so no coordination is needed.
func NewCounter(client *Client) sequence.Counter {
	return &counter{client: client}
}

func counterKey(key string) string {
	return counterPrefix + key
}

func (c *counter) Next(ctx context.Context, key string) (int64, error) {
	n, err := c.client.rdb.Incr(ctx, counterKey(key)).Result()
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to allocate sequence value").
			WithReportableDetails(map[string]any{"key": key}).
			Mark(ierr.ErrDatabase)
	}
	return n, nil
}

func (c *counter) DeleteByTenant(ctx context.Context, tenantID string) error {
	var deleted int
	for _, pattern := range sequence.TenantKeyPatterns(tenantID) {
		iter := c.client.rdb.Scan(ctx, 0, counterKey(pattern), 100).Iterator()
		for iter.Next(ctx) {
			if err := c.client.rdb.Del(ctx, iter.Val()).Err(); err != nil {
				return ierr.WithError(err).
					WithHint("Failed to delete sequences").
					Mark(ierr.ErrDatabase)
			}
			deleted++
		}
		if err := iter.Err(); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to delete sequences").
				Mark(ierr.ErrDatabase)
		}
	}

	c.client.logger.Debugw("deleted tenant sequences", "tenant_id", tenantID, "count", deleted)
	return nil
}
