package anymarket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the AnyMarket v2 API root.
	DefaultBaseURL = "https://api.anymarket.com.br/v2"

	// StatusTransportError is the synthetic status reported when retries
	// are exhausted by network-level failures.
	StatusTransportError = 599

	tokenHeader = "gumgaToken"
)

// APIError is a terminal (non-2xx) response from the hub API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("anymarket API error (status %d): %s", e.Status, snippet(e.Body, 300))
}

// IsNotFound reports whether err is a 404 from the hub API.
func IsNotFound(err error) bool {
	return ErrorStatus(err) == http.StatusNotFound
}

// ErrorStatus extracts the HTTP status carried by err, or 0 when err holds
// none.
func ErrorStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Client is an AnyMarket v2 API client. Auth is a static account token sent
// in the gumgaToken header on every request.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	retrier     *Retrier
	rateLimiter *rate.Limiter
	logger      *logrus.Entry
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRetrier overrides the retry policy.
func WithRetrier(r *Retrier) ClientOption {
	return func(c *Client) { c.retrier = r }
}

// WithRateLimit overrides request pacing (requests per second).
func WithRateLimit(limit rate.Limit) ClientOption {
	return func(c *Client) { c.rateLimiter = rate.NewLimiter(limit, 1) }
}

// WithLogger overrides the client logger.
func WithLogger(logger *logrus.Entry) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a new hub API client for one account token.
func NewClient(baseURL, token string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     baseURL,
		token:       token,
		retrier:     NewRetrier(nil),
		rateLimiter: rate.NewLimiter(rate.Limit(10), 1),
		logger:      logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do issues one API call with bounded retry and exponential backoff on
// transient failures (429/5xx/network). It returns the final status and raw
// payload; when transport failures exhaust the retries the status is the
// synthetic StatusTransportError and err carries the last failure.
func (c *Client) Do(ctx context.Context, method, path string, params url.Values, body interface{}) (int, []byte, error) {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var jsonBody []byte
	if body != nil {
		var err error
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return 0, nil, err
		}

		var reqBody *bytes.Reader
		if jsonBody != nil {
			reqBody = bytes.NewReader(jsonBody)
		} else {
			reqBody = bytes.NewReader(nil)
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(tokenHeader, c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return 0, nil, ctx.Err()
			}
			if attempt >= c.retrier.MaxRetries() {
				return StatusTransportError, []byte(err.Error()), fmt.Errorf("request to %s failed after %d retries: %w", fullURL, attempt, err)
			}
			wait := c.retrier.Backoff(attempt, 0)
			c.logger.WithFields(logrus.Fields{
				"url":     fullURL,
				"attempt": attempt + 1,
				"wait":    wait.String(),
			}).WithError(err).Warn("request failed, retrying")
			if err := c.retrier.Wait(ctx, wait); err != nil {
				return 0, nil, err
			}
			continue
		}

		respBody, readErr := readAll(resp)
		if readErr != nil {
			resp.Body.Close()
			return 0, nil, readErr
		}
		retryAfter := ParseRetryAfter(resp)
		status := resp.StatusCode
		resp.Body.Close()

		if status < 400 {
			return status, respBody, nil
		}

		if !c.retrier.ShouldRetry(status, nil) || attempt >= c.retrier.MaxRetries() {
			return status, respBody, nil
		}

		wait := c.retrier.Backoff(attempt, retryAfter)
		c.logger.WithFields(logrus.Fields{
			"url":     fullURL,
			"status":  status,
			"attempt": attempt + 1,
			"wait":    wait.String(),
		}).Warn("transient API failure, retrying")
		if err := c.retrier.Wait(ctx, wait); err != nil {
			return 0, nil, err
		}
	}
}

// GetProduct fetches one product by its catalog id.
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	status, body, err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch product %d: %w", id, err)
	}
	if status != http.StatusOK {
		return nil, &APIError{Status: status, Body: string(body)}
	}

	var product Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("parse product %d: %w", id, err)
	}
	return &product, nil
}

// SearchProductsBySku queries the catalog by partner code. A payload that is
// not the expected paged envelope degrades to an empty result.
func (c *Client) SearchProductsBySku(ctx context.Context, partnerCode string) ([]Product, error) {
	params := url.Values{}
	params.Set("sku", partnerCode)

	status, body, err := c.Do(ctx, http.MethodGet, "/products", params, nil)
	if err != nil {
		return nil, fmt.Errorf("search products by sku %q: %w", partnerCode, err)
	}
	if status != http.StatusOK {
		return nil, &APIError{Status: status, Body: string(body)}
	}

	var envelope struct {
		Content []Product `json:"content"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.logger.WithField("sku", partnerCode).Warn("unexpected product search payload shape")
		return nil, nil
	}
	return envelope.Content, nil
}

// CreateProduct submits a product for creation. Success is HTTP 201 (the API
// occasionally answers 200 for idempotent resubmissions).
func (c *Client) CreateProduct(ctx context.Context, product *Product) (*Product, error) {
	status, body, err := c.Do(ctx, http.MethodPost, "/products", nil, product)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return nil, &APIError{Status: status, Body: string(body)}
	}

	var created Product
	if err := json.Unmarshal(body, &created); err != nil {
		// some create responses carry no body
		return product, nil
	}
	return &created, nil
}

// StockQuery selects stock entries by SKU reference and location.
type StockQuery struct {
	Sku          string // partner code
	SkuID        int64  // catalog internal id
	StockLocalID int64
}

// GetStocks queries the stock-by-location endpoint. The endpoint answers
// either a paged envelope or a bare list depending on the filter; anything
// else degrades to an empty result.
func (c *Client) GetStocks(ctx context.Context, query StockQuery) ([]StockEntry, error) {
	params := url.Values{}
	if query.Sku != "" {
		params.Set("sku", query.Sku)
	}
	if query.SkuID != 0 {
		params.Set("skuId", strconv.FormatInt(query.SkuID, 10))
	}
	if query.StockLocalID != 0 {
		params.Set("stockLocalId", strconv.FormatInt(query.StockLocalID, 10))
	}

	status, body, err := c.Do(ctx, http.MethodGet, "/stocks", params, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch stocks: %w", err)
	}
	if status != http.StatusOK {
		return nil, &APIError{Status: status, Body: string(body)}
	}

	var envelope struct {
		Content []StockEntry `json:"content"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Content != nil {
		return envelope.Content, nil
	}
	var list []StockEntry
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}

	c.logger.WithField("params", params.Encode()).Warn("unexpected stocks payload shape")
	return nil, nil
}

func readAll(resp *http.Response) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return buf.Bytes(), nil
}

func snippet(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
