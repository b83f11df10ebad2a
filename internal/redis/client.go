package redis

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/flexprice/gstbill/internal/config"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/logger"
	goredis "github.com/redis/go-redis/v9"
)

// keyPrefix namespaces every key this service writes
const keyPrefix = "gstbill:"

// Client bundles the redis connection with a lock client on top of it
type Client struct {
	rdb    *goredis.Client
	locker *redislock.Client
	logger *logger.Logger
}

// NewClient connects to redis. It returns nil, nil when redis is disabled.
func NewClient(cfg *config.Configuration, log *logger.Logger) (*Client, error) {
	if !cfg.Redis.Enabled {
		log.Infow("redis disabled, using postgres counters and local locks")
		return nil, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:       cfg.Redis.Address,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		MaxRetries: 3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to connect to redis").
			WithReportableDetails(map[string]any{"address": cfg.Redis.Address}).
			Mark(ierr.ErrDatabase)
	}

	log.Infow("connected to redis", "address", cfg.Redis.Address, "db", cfg.Redis.DB)
	return &Client{
		rdb:    rdb,
		locker: redislock.New(rdb),
		logger: log,
	}, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
