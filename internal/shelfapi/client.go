// Package shelfapi is the client for the Dynamic Shelf Pricer backend.
//
// Every call is a single round trip: no retries, no deduplication, and the
// response status is not inspected before the body is decoded. A non-2xx
// response whose body still decodes into the expected record is a success.
package shelfapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	errx "github.com/dynamic-shelf-pricer/console/internal/core/error"
	"github.com/dynamic-shelf-pricer/console/internal/model"
	logx "github.com/dynamic-shelf-pricer/console/pkg/logger"
)

const (
	DefaultBaseURL = "http://localhost:8000"

	productsPath  = "/api/products"
	recommendPath = "/api/recommend"
	simulatePath  = "/api/simulate"
	healthPath    = "/health"
)

// Config is filled by envconfig. A zero Timeout means requests never time out.
type Config struct {
	Base    string        `envconfig:"API_BASE" default:"http://localhost:8000"`
	Timeout time.Duration `envconfig:"API_TIMEOUT" default:"0s"`
}

// New builds a Client from the config.
func (c Config) New() *Client {
	return NewClient(c.Base, WithTimeout(c.Timeout))
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithTimeout bounds every request; zero leaves requests unbounded. It only
// touches the http.Client owned by this Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient returns a client for the backend at baseURL, falling back to
// DefaultBaseURL when it is empty.
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend origin the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchProducts returns the catalog in backend order.
func (c *Client) FetchProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(newRequest(ctx, http.MethodGet, c.baseURL).Path(productsPath), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// RecommendPrice asks the backend for a price for one product under the given context.
func (c *Client) RecommendPrice(ctx context.Context, req model.RecommendRequest) (model.Recommendation, error) {
	var rec model.Recommendation
	if err := c.do(newRequest(ctx, http.MethodPost, c.baseURL).Path(recommendPath).JSON(req), &rec); err != nil {
		return model.Recommendation{}, err
	}
	return rec, nil
}

// Simulate runs the backend's multi-day replay.
func (c *Client) Simulate(ctx context.Context, req model.SimulationRequest) (model.SimulationResult, error) {
	if err := req.Validate(); err != nil {
		return model.SimulationResult{}, errx.Validation("simulation", err)
	}
	var out model.SimulationResult
	if err := c.do(newRequest(ctx, http.MethodPost, c.baseURL).Path(simulatePath).JSON(req), &out); err != nil {
		return model.SimulationResult{}, err
	}
	return out, nil
}

// Health probes the backend liveness endpoint.
func (c *Client) Health(ctx context.Context) (model.Health, error) {
	var h model.Health
	if err := c.do(newRequest(ctx, http.MethodGet, c.baseURL).Path(healthPath), &h); err != nil {
		return model.Health{}, err
	}
	if h.Status == "" {
		return model.Health{}, errx.WrapDecode(fmt.Errorf("health: status is missing"))
	}
	return h, nil
}

func (c *Client) do(b *requestBuilder, result any) error {
	req, err := b.Build()
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logx.Debug().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("backend request failed")
		return errx.WrapUpstream(fmt.Errorf("%s %s: %w", req.Method, b.path, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errx.WrapUpstream(fmt.Errorf("read %s response: %w", b.path, err))
	}

	logx.Debug().
		Str("method", req.Method).
		Str("path", b.path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend request")

	if err := json.Unmarshal(body, result); err != nil {
		return errx.WrapDecode(&ResponseError{
			Path:       b.path,
			StatusCode: resp.StatusCode,
			Body:       body,
			Err:        err,
		})
	}
	return nil
}

// ResponseError describes a backend body that did not decode into the expected record.
type ResponseError struct {
	Path       string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *ResponseError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("decode %s (HTTP %d): %v: %s", e.Path, e.StatusCode, e.Err, body)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}
