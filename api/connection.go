package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jpillora/backoff"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/promptlane/promptlane-go/metrics"
)

const (
	defaultVersion    = "v1"
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
)

// Connection talks to the PromptLane HTTP API. Requests carry a bearer
// token and JSON bodies; transient failures (429, 5xx, transport
// errors) are retried with jittered exponential backoff up to the
// configured ceiling.
type Connection struct {
	baseURL    string
	apiKey     string
	version    string
	maxRetries int
	retryMin   time.Duration
	retryMax   time.Duration
	client     *http.Client
	logger     *zap.Logger
	collector  *metrics.Collector
}

// Option configures a Connection.
type Option func(*Connection)

// WithVersion overrides the API version segment of request paths.
func WithVersion(version string) Option {
	return func(c *Connection) { c.version = version }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Connection) { c.client.Timeout = timeout }
}

// WithMaxRetries bounds the number of retry attempts after the first
// request.
func WithMaxRetries(n int) Option {
	return func(c *Connection) { c.maxRetries = n }
}

// WithRetryWait overrides the backoff window between retries.
func WithRetryWait(min, max time.Duration) Option {
	return func(c *Connection) {
		c.retryMin = min
		c.retryMax = max
	}
}

// WithLogger attaches a logger for request debugging.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Connection) { c.logger = logger }
}

// WithMetrics attaches a metrics collector recording request durations
// and retries.
func WithMetrics(collector *metrics.Collector) Option {
	return func(c *Connection) { c.collector = collector }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Connection) { c.client = client }
}

// New creates an API connection for the given base URL and key.
func New(baseURL, apiKey string, opts ...Option) *Connection {
	c := &Connection{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		version:    defaultVersion,
		maxRetries: defaultMaxRetries,
		retryMin:   500 * time.Millisecond,
		retryMax:   10 * time.Second,
		client:     &http.Client{Timeout: defaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases idle connections held by the underlying client.
func (c *Connection) Close() {
	c.client.CloseIdleConnections()
}

func (c *Connection) buildURL(path string) string {
	path = strings.TrimLeft(path, "/")
	if !strings.HasPrefix(path, c.version+"/") {
		path = c.version + "/" + path
	}
	return c.baseURL + "/" + path
}

func retryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Request performs one API call. body is JSON-encoded when non-nil and
// the response body is decoded into out when non-nil. Resource-specific
// endpoints (versions, members, invitations) go through here directly.
func (c *Connection) Request(ctx context.Context, method, path string, body any, params url.Values, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "encoding %s %s body", method, path)
		}
	}

	target := c.buildURL(path)
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	wait := &backoff.Backoff{Min: c.retryMin, Max: c.retryMax, Factor: 2, Jitter: true}

	var resp *http.Response
	var err error
	for attempt := 0; ; attempt++ {
		req, reqErr := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(payload))
		if reqErr != nil {
			return errors.Wrapf(reqErr, "building %s %s", method, path)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err = c.client.Do(req)
		if err == nil {
			c.collector.ObserveRequest(method, path, strconv.Itoa(resp.StatusCode), time.Since(start))
			if !retryableStatus(resp.StatusCode) {
				break
			}
		} else {
			c.collector.ObserveRequest(method, path, "error", time.Since(start))
		}

		if attempt >= c.maxRetries {
			break
		}
		if resp != nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
		c.collector.IncRetry(method, path)
		c.logger.Debug("retrying request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt+1))

		select {
		case <-time.After(wait.Duration()):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "reading %s %s response", method, path)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "decoding %s %s response", method, path)
	}
	return nil
}

// List fetches a collection, with filters passed as query parameters.
func (c *Connection) List(ctx context.Context, resource string, filters map[string]string, out any) error {
	var params url.Values
	if len(filters) > 0 {
		params = url.Values{}
		for k, v := range filters {
			params.Set(k, v)
		}
	}
	return c.Request(ctx, http.MethodGet, resource, nil, params, out)
}

// Get fetches a single entity by id or key. A 404 surfaces as
// ErrNotFound rather than a bare miss.
func (c *Connection) Get(ctx context.Context, resource, idOrKey string, out any) (bool, error) {
	if err := c.Request(ctx, http.MethodGet, joinPath(resource, idOrKey), nil, nil, out); err != nil {
		return false, err
	}
	return true, nil
}

// Create posts a new entity and decodes the server's representation of
// it into out.
func (c *Connection) Create(ctx context.Context, resource string, data any, out any) error {
	return c.Request(ctx, http.MethodPost, resource, data, nil, out)
}

// Update puts changed fields for an entity and decodes the committed
// state into out.
func (c *Connection) Update(ctx context.Context, resource, idOrKey string, data any, out any) error {
	return c.Request(ctx, http.MethodPut, joinPath(resource, idOrKey), data, nil, out)
}

// Delete removes an entity. Success is inferred from a 2xx response.
func (c *Connection) Delete(ctx context.Context, resource, idOrKey string) (bool, error) {
	if err := c.Request(ctx, http.MethodDelete, joinPath(resource, idOrKey), nil, nil, nil); err != nil {
		return false, err
	}
	return true, nil
}

func joinPath(resource, id string) string {
	if id == "" {
		return resource
	}
	return resource + "/" + id
}
