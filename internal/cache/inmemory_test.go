package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := newInMemoryCache(true)

	key := GenerateKey(PrefixSettings, "tenant_1")
	assert.Equal(t, "settings:v1::tenant_1", key)

	c.Set(ctx, key, "value", 0)
	got, ok := c.Get(ctx, key)
	assert.True(t, ok)
	assert.Equal(t, "value", got)

	c.Set(ctx, GenerateKey(PrefixTenant, "tenant_1"), "t", time.Minute)
	c.DeleteByPrefix(ctx, PrefixSettings)
	_, ok = c.Get(ctx, key)
	assert.False(t, ok)
	_, ok = c.Get(ctx, GenerateKey(PrefixTenant, "tenant_1"))
	assert.True(t, ok)

	c.Flush(ctx)
	_, ok = c.Get(ctx, GenerateKey(PrefixTenant, "tenant_1"))
	assert.False(t, ok)
}

func TestDisabledCacheAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	c := newInMemoryCache(false)

	c.Set(ctx, "k", "v", time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}
