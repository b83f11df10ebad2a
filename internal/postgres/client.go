package postgres

import (
	"context"

	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/logger"
	"go.uber.org/fx"
)

// IClient defines the interface for postgres client operations
type IClient interface {
	// WithTx wraps the given function in a transaction. Nested calls become savepoints.
	WithTx(ctx context.Context, fn func(context.Context) error) error

	// Querier returns the current transaction if ctx carries one, or the pool
	Querier(ctx context.Context) Querier

	// Ping checks that the database answers
	Ping(ctx context.Context) error
}

// Client is the IClient backed by a connection pool
type Client struct {
	db     *DB
	logger *logger.Logger
}

// Module provides an fx.Option to integrate the postgres client with the application
func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			NewDB,
			NewClient,
		),
	)
}

// NewClient creates a new client with transaction management
func NewClient(db *DB, logger *logger.Logger) IClient {
	return &Client{
		db:     db,
		logger: logger,
	}
}

func (c *Client) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return c.db.WithTx(ctx, fn)
}

func (c *Client) Querier(ctx context.Context) Querier {
	return c.db.GetQuerier(ctx)
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return ierr.WithError(err).
			WithHint("Database is unreachable").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
