package routing

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/fleetlogix/hos-planner/internal/domain"
)

// RouteCache caches FetchRoute results in Redis, keyed by origin/destination.
// fetch_route is a pure, repeatable external call (§4.2): the same pair of
// coordinates always resolves to the same route until the oracle's own data
// changes, so caching it is a performance optimization over the oracle, not
// persisted trip state (§6 "Persisted state: None" is about requests/trips).
type RouteCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRouteCache builds a RouteCache backed by client. Entries expire after
// ttl, mirroring the tracking-service's Redis TTL-on-write pattern.
func NewRouteCache(client *redis.Client, ttl time.Duration) *RouteCache {
	return &RouteCache{client: client, ttl: ttl}
}

func routeCacheKey(origin, destination domain.Location) string {
	return fmt.Sprintf("route:%f,%f:%f,%f", origin.Latitude, origin.Longitude, destination.Latitude, destination.Longitude)
}

// Get returns the cached RouteInformation for origin/destination, if present.
func (c *RouteCache) Get(ctx context.Context, origin, destination domain.Location) (domain.RouteInformation, bool) {
	if c == nil || c.client == nil {
		return domain.RouteInformation{}, false
	}
	data, err := c.client.Get(ctx, routeCacheKey(origin, destination)).Bytes()
	if err != nil {
		return domain.RouteInformation{}, false
	}
	var ri domain.RouteInformation
	if err := json.Unmarshal(data, &ri); err != nil {
		return domain.RouteInformation{}, false
	}
	return ri, true
}

// Set stores ri under origin/destination's cache key, expiring after c.ttl.
// Write failures are not reported; a cache miss on the next request simply
// falls back to the oracle.
func (c *RouteCache) Set(ctx context.Context, origin, destination domain.Location, ri domain.RouteInformation) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(ri)
	if err != nil {
		return
	}
	c.client.Set(ctx, routeCacheKey(origin, destination), data, c.ttl)
}
