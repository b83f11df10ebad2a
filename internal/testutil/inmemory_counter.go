package testutil

import (
	"context"
	"path"
	"sync"

	"github.com/flexprice/gstbill/internal/domain/sequence"
)

var _ sequence.Counter = (*InMemoryCounter)(nil)

// InMemoryCounter implements sequence.Counter with a mutex
type InMemoryCounter struct {
	mu     sync.Mutex
	values map[string]int64
	// Err, when set, is returned by Next
	Err error
}

func NewInMemoryCounter() *InMemoryCounter {
	return &InMemoryCounter{values: make(map[string]int64)}
}

func (c *InMemoryCounter) Next(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return 0, c.Err
	}
	c.values[key]++
	return c.values[key], nil
}

func (c *InMemoryCounter) DeleteByTenant(_ context.Context, tenantID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.values {
		for _, pattern := range sequence.TenantKeyPatterns(tenantID) {
			if ok, _ := path.Match(pattern, key); ok {
				delete(c.values, key)
				break
			}
		}
	}
	return nil
}

// Value returns the current value of key without incrementing it
func (c *InMemoryCounter) Value(key string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key]
}

// Set seeds key, e.g. to simulate numbers issued before a test
func (c *InMemoryCounter) Set(key string, v int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = v
}

func (c *InMemoryCounter) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = make(map[string]int64)
	c.Err = nil
}
