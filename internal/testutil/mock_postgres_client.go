package testutil

import (
	"context"
	"sync/atomic"

	"github.com/flexprice/gstbill/internal/logger"
	"github.com/flexprice/gstbill/internal/postgres"
)

var _ postgres.IClient = (*MockPostgresClient)(nil) // Ensure MockPostgresClient implements IClient

// MockPostgresClient is a mock implementation of postgres client for testing.
// The in-memory stores never touch the querier.
type MockPostgresClient struct {
	logger  *logger.Logger
	txs     atomic.Int64
	// PingErr, when set, is returned by Ping
	PingErr error
}

// NewMockPostgresClient creates a new mock postgres client
func NewMockPostgresClient(logger *logger.Logger) *MockPostgresClient {
	return &MockPostgresClient{
		logger: logger,
	}
}

// WithTx runs fn without a real transaction; nothing is rolled back on error
func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	c.txs.Add(1)
	return fn(ctx)
}

func (c *MockPostgresClient) Querier(ctx context.Context) postgres.Querier {
	return nil
}

func (c *MockPostgresClient) Ping(context.Context) error {
	return c.PingErr
}

// TxCount is the number of WithTx calls so far
func (c *MockPostgresClient) TxCount() int64 {
	return c.txs.Load()
}
