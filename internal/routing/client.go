// Package routing implements the Routing Oracle Client (§4.2): a thin,
// concurrency-safe fasthttp client that turns an origin/destination pair
// into a RouteInformation, converting the oracle's meters/seconds wire
// units into the planner's miles/hours domain units.
package routing

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/paulmach/go.geojson"
	"github.com/valyala/fasthttp"

	"github.com/fleetlogix/hos-planner/internal/apperr"
	"github.com/fleetlogix/hos-planner/internal/domain"
)

const (
	metersPerMile    = 1609.344
	secondsPerHour   = 3600.0
	coordinateTolDeg = 1e-9
)

// Config configures a Client.
type Config struct {
	// BaseURL is the routing oracle's base address, e.g. "http://osrm:5000/route/v1/driving".
	BaseURL string
	// Timeout bounds a single fetch_route call. Defaults to 10s if zero.
	Timeout time.Duration
	// Cache, if non-nil, is consulted before and populated after every
	// oracle round trip. Nil disables caching entirely.
	Cache *RouteCache
}

// Client fetches RouteInformation from an external routing oracle. A
// Client is safe for concurrent use by multiple goroutines; the only
// shared, internally synchronized resource is the fasthttp connection
// pool (§4.5 Shared resources).
type Client struct {
	cfg        Config
	httpClient *fasthttp.Client
	cache      *RouteCache
}

// NewClient builds a Client from cfg, defaulting Timeout when unset.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg: cfg,
		httpClient: &fasthttp.Client{
			Name: "hos-planner-routing-client",
		},
		cache: cfg.Cache,
	}
}

// oracleResponse mirrors the wire contract in §4.2: {"routes": [{"distance":
// meters, "duration": seconds, "geometry": {"coordinates": [[lon,lat],...]}}]}.
type oracleResponse struct {
	Routes []oracleRoute `json:"routes"`
}

type oracleRoute struct {
	DistanceMeters float64        `json:"distance"`
	DurationSecs   float64        `json:"duration"`
	Geometry       oracleGeometry `json:"geometry"`
}

type oracleGeometry struct {
	Coordinates [][]float64 `json:"coordinates"`
}

// FetchRoute returns the RouteInformation between origin and destination.
// Degenerate input (coordinates equal within tolerance) short-circuits to
// (0, 0, [origin]) without a network call, per §4.2.
func (c *Client) FetchRoute(ctx context.Context, origin, destination domain.Location) (domain.RouteInformation, error) {
	if origin.Near(destination, coordinateTolDeg) {
		return domain.RouteInformation{
			DistanceMiles: 0,
			DurationHours: 0,
			Geometry:      []domain.Location{origin},
		}, nil
	}

	if ri, ok := c.cache.Get(ctx, origin, destination); ok {
		return ri, nil
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	uri := fmt.Sprintf("%s/%f,%f;%f,%f?overview=full&geometries=geojson",
		c.cfg.BaseURL, origin.Longitude, origin.Latitude, destination.Longitude, destination.Latitude)
	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)

	timeout := c.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	if err := c.httpClient.DoTimeout(req, resp, timeout); err != nil {
		return domain.RouteInformation{}, apperr.RoutingUnavailable(err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return domain.RouteInformation{}, apperr.RoutingUnavailable(
			fmt.Errorf("routing oracle returned status %d", resp.StatusCode()))
	}

	var out oracleResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return domain.RouteInformation{}, apperr.RoutingMalformed(fmt.Sprintf("invalid json: %v", err))
	}
	if len(out.Routes) == 0 {
		return domain.RouteInformation{}, apperr.RoutingMalformed("response contains no routes")
	}
	route := out.Routes[0]
	if len(route.Geometry.Coordinates) == 0 {
		return domain.RouteInformation{}, apperr.RoutingMalformed("route geometry has no coordinates")
	}

	geom := geojson.NewLineStringGeometry(route.Geometry.Coordinates)
	locations := make([]domain.Location, 0, len(geom.LineString))
	for _, coord := range geom.LineString {
		if len(coord) < 2 {
			return domain.RouteInformation{}, apperr.RoutingMalformed("geometry coordinate missing lat/lon")
		}
		locations = append(locations, domain.Location{Longitude: coord[0], Latitude: coord[1]})
	}

	result := domain.RouteInformation{
		DistanceMiles: metersToMiles(route.DistanceMeters),
		DurationHours: secondsToHours(route.DurationSecs),
		Geometry:      locations,
	}
	c.cache.Set(ctx, origin, destination, result)
	return result, nil
}

func metersToMiles(meters float64) float64 { return meters / metersPerMile }
func secondsToHours(seconds float64) float64 { return seconds / secondsPerHour }
