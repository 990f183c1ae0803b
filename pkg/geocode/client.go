// Package geocode resolves Indian district and city names to coordinates via
// an offline gazetteer (primary) and OpenStreetMap Nominatim (optional).
package geocode

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// ErrUnresolved reports that no provider could place the query. Callers must
// treat it as a per-record signal, not a failure of the batch.
var ErrUnresolved = errors.New("geocode: location unresolved")

// Query is one location to resolve. Description supplies extra free text the
// district extractor can mine when Location itself is vague.
type Query struct {
	Location    string
	State       string
	Description string
}

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Provider resolves a query to a coordinate or returns ErrUnresolved.
type Provider interface {
	Resolve(ctx context.Context, q Query) (Coordinate, error)
}

// Option configures the Nominatim client.
type Option func(*nominatim)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(n *nominatim) {
		n.httpClient = hc
	}
}

// WithRateLimit sets the requests-per-second limit. Nominatim's usage policy
// caps anonymous clients at 1 req/s.
func WithRateLimit(rps float64) Option {
	return func(n *nominatim) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		n.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithBaseURL overrides the Nominatim endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(n *nominatim) {
		n.baseURL = u
	}
}

// WithUserAgent sets the User-Agent header Nominatim requires.
func WithUserAgent(ua string) Option {
	return func(n *nominatim) {
		n.userAgent = ua
	}
}

// WithMaxRetries bounds retry attempts per query.
func WithMaxRetries(n int) Option {
	return func(c *nominatim) {
		c.maxRetries = n
	}
}

// WithRetryBackoff sets the base delay between retry attempts.
func WithRetryBackoff(d time.Duration) Option {
	return func(n *nominatim) {
		n.backoff = d
	}
}

// WithTimeout sets the per-request timeout when no custom client is given.
func WithTimeout(d time.Duration) Option {
	return func(n *nominatim) {
		n.httpClient.Timeout = d
	}
}
