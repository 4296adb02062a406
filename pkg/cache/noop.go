package cache

import (
	"context"
)

// noopCache is used when no Redis address is configured. Every read misses.
type noopCache struct {
	stats counters
}

func NewNoopCache() Cache {
	return &noopCache{}
}

func (n *noopCache) Get(context.Context, string, interface{}) (bool, error) {
	n.stats.misses.Add(1)
	return false, nil
}

func (n *noopCache) Set(context.Context, string, interface{}) error { return nil }

func (n *noopCache) Delete(context.Context, string) error { return nil }

func (n *noopCache) DeletePattern(context.Context, string) error { return nil }

func (n *noopCache) Stats() StatsSnapshot { return n.stats.snapshot() }

func (n *noopCache) Close() error { return nil }
