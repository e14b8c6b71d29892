package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"matchfeed-engine/internal/cache"
	"matchfeed-engine/internal/fetch"
)

const limiterClass = "geocode"

// Client reverse-geocodes coordinates into a place name. Primary endpoint
// with retries, one shot at the fallback endpoint, then an offline coarse
// descriptor; a lookup never fails outright. Responses are cached ~24h
// since addresses do not move.
type Client struct {
	primaryURL  string
	fallbackURL string
	hc          *http.Client
	limiter     *fetch.ClassLimiter
	policy      fetch.Policy
	cache       *cache.Cache[string]
	logger      *zap.Logger
}

type Options struct {
	PrimaryURL  string
	FallbackURL string
	TTL         time.Duration
	MinDelay    time.Duration
	Policy      fetch.Policy
	Limiter     *fetch.ClassLimiter
	Logger      *zap.Logger
}

func NewClient(opts Options) *Client {
	lim := opts.Limiter
	if lim == nil {
		lim = fetch.NewClassLimiter()
	}
	if opts.MinDelay > 0 {
		lim.SetDelay(limiterClass, opts.MinDelay)
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		primaryURL:  opts.PrimaryURL,
		fallbackURL: opts.FallbackURL,
		hc:          &http.Client{Timeout: 20 * time.Second},
		limiter:     lim,
		policy:      opts.Policy,
		cache:       cache.New[string](ttl),
		logger:      logger,
	}
}

// Cache exposes the underlying cache for scheduled sweeps.
func (c *Client) Cache() *cache.Cache[string] { return c.cache }

// geocodeResponse covers the usual JSON address breakdowns.
type geocodeResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"address"`
}

func (r geocodeResponse) label() string {
	place := r.Address.City
	if place == "" {
		place = r.Address.Town
	}
	if place == "" {
		place = r.Address.Village
	}
	var parts []string
	for _, p := range []string{place, r.Address.State, r.Address.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	return r.DisplayName
}

// ReverseGeocode resolves (lat, lon) to a human-readable place name.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) string {
	key := cache.CoordKey(lat, lon)

	name, err := c.cache.GetOrFetch(ctx, key, func(ctx context.Context) (string, error) {
		v := fetch.WithFallback(ctx, c.policy,
			func(ctx context.Context) (string, error) {
				return c.lookup(ctx, c.primaryURL, lat, lon)
			},
			c.secondary(lat, lon),
			func() string {
				c.logger.Warn("geocoders unavailable, using offline descriptor",
					zap.Float64("lat", lat), zap.Float64("lon", lon))
				return CoarseDescriptor(lat, lon)
			},
		)
		return v, nil
	})
	if err != nil {
		// Unreachable in practice: the fallback chain cannot fail.
		return CoarseDescriptor(lat, lon)
	}
	return name
}

func (c *Client) secondary(lat, lon float64) func(context.Context) (string, error) {
	if c.fallbackURL == "" {
		return nil
	}
	return func(ctx context.Context) (string, error) {
		return c.lookup(ctx, c.fallbackURL, lat, lon)
	}
}

func (c *Client) lookup(ctx context.Context, base string, lat, lon float64) (string, error) {
	if base == "" {
		return "", fetch.Terminalf("no geocoder endpoint configured")
	}
	if err := c.limiter.Wait(ctx, limiterClass); err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "matchfeed/1.0 (+local)")

	res, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("geocode get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", &fetch.StatusError{Code: res.StatusCode}
	}

	var body geocodeResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fetch.Terminalf("geocode decode: %v", err)
	}

	label := body.label()
	if label == "" {
		return "", fetch.Terminalf("geocode response carried no address")
	}
	return label, nil
}

// CoarseDescriptor derives a place descriptor purely from the coordinates,
// for when every geocoder is down.
func CoarseDescriptor(lat, lon float64) string {
	ns := "N"
	if lat < 0 {
		ns = "S"
	}
	ew := "E"
	if lon < 0 {
		ew = "W"
	}
	return fmt.Sprintf("near %.1f°%s %.1f°%s", math.Abs(lat), ns, math.Abs(lon), ew)
}
