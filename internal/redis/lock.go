package redis

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/lock"
)

type locker struct {
	client *Client
}

// NewLocker returns a lock.Locker shared by every replica using this redis
func NewLocker(client *Client) lock.Locker {
	return &locker{client: client}
}

func (l *locker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	held, err := l.client.locker.Obtain(ctx, keyPrefix+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, ierr.WithError(err).
			WithHint("Failed to obtain lock").
			WithReportableDetails(map[string]any{"key": key}).
			Mark(ierr.ErrDatabase)
	}

	release := func(ctx context.Context) error {
		if err := held.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return err
		}
		return nil
	}
	return release, true, nil
}
