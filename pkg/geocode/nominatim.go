package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultNominatimURL = "https://nominatim.openstreetmap.org"

// nominatim resolves queries against the OpenStreetMap Nominatim API. No API
// key required; the usage policy demands a real User-Agent and 1 req/s.
type nominatim struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	fallback   Provider
}

// NewNominatim builds the Nominatim provider. Queries it definitively cannot
// place fall through to the offline gazetteer before reporting ErrUnresolved;
// transport failures surface to the caller so a breaker can degrade the whole
// provider. Wrap with WithBreaker for that.
func NewNominatim(opts ...Option) Provider {
	n := &nominatim{
		baseURL:    defaultNominatimURL,
		userAgent:  "furnacex-intel-cli/1.0",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(1, 1),
		maxRetries: 3,
		backoff:    time.Second,
		fallback:   NewGazetteer(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

type nominatimHit struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve queries Nominatim with a bounded retry. An empty result is
// definitive and falls back to the gazetteer; exhausted retries return the
// transport error.
func (n *nominatim) Resolve(ctx context.Context, q Query) (Coordinate, error) {
	district := ExtractDistrict(q.Location, q.Description, q.State)

	var lastErr error
	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * n.backoff
			select {
			case <-ctx.Done():
				return Coordinate{}, eris.Wrap(ctx.Err(), "geocode: nominatim")
			case <-time.After(backoff):
			}
		}

		coord, found, err := n.search(ctx, district, q.State)
		if err != nil {
			lastErr = err
			zap.L().Debug("nominatim lookup failed, retrying",
				zap.String("district", district),
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			continue
		}
		if found {
			return coord, nil
		}
		// Definitive empty result: no point retrying.
		break
	}

	if lastErr != nil {
		return Coordinate{}, eris.Wrapf(lastErr, "geocode: nominatim exhausted %d retries for %q", n.maxRetries, district)
	}
	return n.fallback.Resolve(ctx, q)
}

func (n *nominatim) search(ctx context.Context, district, state string) (Coordinate, bool, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return Coordinate{}, false, eris.Wrap(err, "geocode: rate limiter")
	}

	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s, %s, India", district, state))
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("addressdetails", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		n.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return Coordinate{}, false, eris.Wrap(err, "geocode: build request")
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return Coordinate{}, false, eris.Wrap(err, "geocode: nominatim request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Coordinate{}, false, eris.Errorf("geocode: nominatim status %d: %s", resp.StatusCode, body)
	}

	var hits []nominatimHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return Coordinate{}, false, eris.Wrap(err, "geocode: decode response")
	}
	if len(hits) == 0 {
		return Coordinate{}, false, nil
	}

	lat, err := strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return Coordinate{}, false, eris.Wrap(err, "geocode: parse lat")
	}
	lon, err := strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return Coordinate{}, false, eris.Wrap(err, "geocode: parse lon")
	}
	return Coordinate{Lat: lat, Lon: lon}, true, nil
}
