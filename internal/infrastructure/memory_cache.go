package infrastructure

import (
	"context"
	"sync"
)

// MemoryCache keeps responses in process memory for single-instance deployments and tests.
type MemoryCache struct {
	entries sync.Map
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Get(_ context.Context, message string) (string, bool) {
	v, ok := c.entries.Load(message)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (c *MemoryCache) Put(_ context.Context, message, response string) {
	c.entries.Store(message, response)
}
