package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/LdDl/campusnav"
)

// GetRoute decodes route stored under key. ErrCacheMiss is returned when there is none.
func GetRoute(ctx context.Context, c Cache, key string) (*campusnav.Route, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCacheMiss
	}
	route := &campusnav.Route{}
	if err := json.Unmarshal(data, route); err != nil {
		return nil, errors.Wrapf(err, "Can't decode cached route '%s'", key)
	}
	return route, nil
}

// SetRoute stores route under key.
func SetRoute(ctx context.Context, c Cache, key string, route *campusnav.Route, ttl time.Duration) error {
	data, err := json.Marshal(route)
	if err != nil {
		return errors.Wrap(err, "Can't encode route")
	}
	return c.Set(ctx, key, data, ttl)
}
