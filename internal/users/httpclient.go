package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public demo API the client talks to by default.
const DefaultBaseURL = "https://dummyjson.com"

// maxResponseBody caps how much of a response body is read. The full demo
// user list is well under 1 MiB.
const maxResponseBody = 16 << 20

// maxErrorBody caps how much of a failed response body ends up in an
// HTTPStatusError.
const maxErrorBody = 512

// Source fetches user collections from a remote endpoint.
type Source interface {
	// FetchAll returns every user the endpoint lists, in response order.
	FetchAll(ctx context.Context) ([]User, error)

	// Search returns the users matching query, in response order.
	Search(ctx context.Context, query string) ([]User, error)
}

// Compile-time interface check.
var _ Source = (*HTTPClient)(nil)

// HTTPClient implements Source over plain HTTP GET requests with JSON bodies.
type HTTPClient struct {
	http      *http.Client
	baseURL   string
	userAgent string
	maxBody   int64
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithBaseURL points the client at a different API root.
func WithBaseURL(base string) ClientOption {
	return func(c *HTTPClient) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.http = hc
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *HTTPClient) {
		c.userAgent = ua
	}
}

// NewHTTPClient creates a client for the users API.
func NewHTTPClient(opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: DefaultBaseURL,
		maxBody: maxResponseBody,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root requests are sent to.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// FetchAll issues GET <base>/users.
func (c *HTTPClient) FetchAll(ctx context.Context) ([]User, error) {
	return c.get(ctx, "fetch all", c.baseURL+"/users")
}

// Search issues GET <base>/users/search?q=<query>.
func (c *HTTPClient) Search(ctx context.Context, query string) ([]User, error) {
	return c.get(ctx, "search", SearchURL(c.baseURL, query))
}

// SearchURL builds the search endpoint URL for query. The query is
// percent-encoded with spaces as %20; an empty query yields "q=".
func SearchURL(base, query string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
	return strings.TrimRight(base, "/") + "/users/search?q=" + escaped
}

// get performs a GET and decodes the users envelope.
func (c *HTTPClient) get(ctx context.Context, op, target string) ([]User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("users: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, URL: target, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, &NetworkError{Op: op, URL: target, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt := string(body)
		if len(excerpt) > maxErrorBody {
			excerpt = excerpt[:maxErrorBody]
		}
		return nil, &HTTPStatusError{
			Op:         op,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(excerpt),
		}
	}

	if int64(len(body)) > c.maxBody {
		return nil, &DecodeError{Op: op, Err: fmt.Errorf("response body exceeds %d bytes", c.maxBody)}
	}

	var env usersEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}
	if env.Users == nil {
		return nil, &DecodeError{Op: op, Err: errors.New(`missing "users" field`)}
	}
	return *env.Users, nil
}
