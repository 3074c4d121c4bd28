// Package client provides the HTTP client shared by all app integrations,
// with optional Redis-backed response revalidation and error classification.
package client

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Sternrassler/pipeline-components/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for app API requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "components_http_requests_total",
		Help: "Total app API requests by app and status",
	}, []string{"app", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "components_http_request_duration_seconds",
		Help:    "App API request duration in seconds by app",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"app"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "components_http_errors_total",
		Help: "Total app API errors by app and class",
	}, []string{"app", "class"})
)

// DefaultUserAgent is sent when Config.UserAgent is empty.
const DefaultUserAgent = "pipeline-components/0.1.0"

// Client performs requests against one app API.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// App is the app slug used in metrics, logs and cache keys.
	App string

	// BaseURL is prefixed to every Request path.
	BaseURL string

	// UserAgent header.
	UserAgent string

	// Headers are set on every request (e.g. Authorization).
	Headers map[string]string

	// Redis enables response revalidation caching for GET requests (optional).
	Redis *redis.Client

	// CacheTTL is how long validated responses stay cached when the API
	// sends no Expires header.
	CacheTTL time.Duration

	// Timeout bounds every HTTP request.
	Timeout time.Duration
}

// DefaultConfig returns a configuration without caching.
func DefaultConfig(app, baseURL string) Config {
	return Config{
		App:       app,
		BaseURL:   baseURL,
		UserAgent: DefaultUserAgent,
		Headers:   map[string]string{},
		CacheTTL:  cache.DefaultTTL,
		Timeout:   30 * time.Second,
	}
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	if cfg.App == "" {
		return nil, fmt.Errorf("app is required")
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url must be absolute (got %q)", cfg.BaseURL)
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: log.With().Str("component", "http-client").Str("app", cfg.App).Logger(),
	}

	if cfg.Redis != nil {
		c.cache = cache.NewManager(cfg.Redis)
	}

	return c, nil
}

// Do performs an HTTP request. GET requests are revalidated against the
// response cache when one is configured. Responses are returned for every
// status; only transport failures produce an error.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	app := c.config.App
	path := req.URL.Path

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(app).Observe(time.Since(startTime).Seconds())
	}()

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	for key, value := range c.config.Headers {
		req.Header.Set(key, value)
	}

	// Revalidation only applies to GETs
	var cacheKey cache.Key
	var cachedEntry *cache.Entry
	useCache := c.cache != nil && req.Method == http.MethodGet
	if useCache {
		cacheKey = cache.Key{
			App:        app,
			Path:       path,
			Query:      req.URL.Query(),
			Credential: req.Header.Get("Authorization"),
		}

		entry, err := c.cache.Get(ctx, cacheKey)
		if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Str("path", path).Msg("Cache get error")
		}
		if cache.ShouldMakeConditionalRequest(entry) {
			cachedEntry = entry
			cache.AddConditionalHeaders(req, entry)
			c.logger.Debug().
				Str("path", path).
				Str("etag", entry.ETag).
				Msg("Making conditional request")
		}
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", path).
		Msg("Executing request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		errorsTotal.WithLabelValues(app, string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues(app, "network_error").Inc()
		c.logger.Error().Err(err).Str("path", path).Msg("HTTP request failed")
		return nil, &APIError{
			App:        app,
			ErrorClass: ErrorClassNetwork,
			Message:    fmt.Sprintf("%s %s", req.Method, path),
			Err:        err,
		}
	}

	requestsTotal.WithLabelValues(app, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusNotModified && cachedEntry != nil {
		c.logger.Debug().Str("path", path).Msg("304 Not Modified - using cache")
		cache.NotModifiedResponses.WithLabelValues(app).Inc()

		if expiresStr := resp.Header.Get("Expires"); expiresStr != "" {
			if newExpires, err := http.ParseTime(expiresStr); err == nil {
				if err := c.cache.UpdateTTL(ctx, cacheKey, newExpires); err != nil {
					c.logger.Warn().Err(err).Msg("Failed to update cache TTL")
				}
			}
		}

		resp.Body.Close()
		return cache.EntryToResponse(cachedEntry), nil
	}

	if resp.StatusCode >= 400 {
		errClass := classify(resp, nil)
		errorsTotal.WithLabelValues(app, string(errClass)).Inc()
		c.logger.Warn().
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("App API request error")
		return resp, nil
	}

	if useCache && resp.StatusCode == http.StatusOK {
		c.store(req, resp, cacheKey)
	}

	return resp, nil
}

// store caches a 200 response that carries validators.
func (c *Client) store(req *http.Request, resp *http.Response, key cache.Key) {
	if resp.Header.Get("ETag") == "" && resp.Header.Get("Last-Modified") == "" {
		return
	}

	entry, err := cache.ResponseToEntry(resp, c.config.CacheTTL)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to create cache entry")
		return
	}

	if err := c.cache.Set(req.Context(), key, entry); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to cache response")
		return
	}

	c.logger.Debug().
		Str("path", key.Path).
		Dur("ttl", entry.TTL()).
		Msg("Cached response")
}

// App returns the app slug.
func (c *Client) App() string {
	return c.config.App
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// GetCache returns the cache manager, nil when caching is disabled.
func (c *Client) GetCache() *cache.Manager {
	return c.cache
}
