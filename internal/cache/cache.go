// Package cache stores planned routes between snapped nodes.
//
// Keys embed the network fingerprint, so entries of a replaced network are never
// served after reload; they simply expire.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LdDl/campusnav"
)

// ErrCacheMiss is returned by helpers when an item is not found in cache.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a byte-oriented key-value store with expiration.
type Cache interface {
	// Get returns stored data. Second value is false on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Close() error
}

// RouteKey returns key of route between two nodes of the network with given fingerprint.
func RouteKey(fingerprint uint64, start, end campusnav.NodeID) string {
	return fmt.Sprintf("route:%016x:%d:%d", fingerprint, start, end)
}

// NullCache is a no-op cache that never stores anything.
// Used when caching is disabled.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always returns a cache miss.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set does nothing.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Close does nothing.
func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
