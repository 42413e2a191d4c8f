package boxview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

const Version = "1.2.1"

const (
	// EnvAPIKey is consulted when Config.APIKey is empty.
	EnvAPIKey = "BOX_VIEW_API_KEY"

	DefaultBaseURL   = "https://view-api.box.com/1/"
	DefaultUploadURL = "https://upload.view-api.box.com/1/"

	DefaultTimeout    = 60 * time.Second
	DefaultMaxRetries = 3
)

type Config struct {
	// APIKey authenticates every request. Falls back to EnvAPIKey.
	APIKey string

	BaseURL   string
	UploadURL string

	// Timeout bounds each request, including reading the body.
	Timeout time.Duration

	// MaxRetries bounds retries of requests that failed before any response
	// was received. POST and PUT are only retried when the connection could
	// not be established. Zero means DefaultMaxRetries, negative disables
	// retries.
	MaxRetries int

	// Header holds extra headers sent with every request.
	Header http.Header

	// HTTPClient replaces the default transport chain, retries included.
	// Authentication and default headers are still added on top of it.
	HTTPClient *http.Client

	Logger hclog.Logger

	// LookupEnv resolves EnvAPIKey. Defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)
}

// Client talks to the Box View API. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	uploadURL  string
	logger     hclog.Logger
}

func NewClient(cfg Config) (*Client, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		lookup := cfg.LookupEnv
		if lookup == nil {
			lookup = os.LookupEnv
		}
		apiKey, _ = lookup(EnvAPIKey)
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UploadURL == "" {
		cfg.UploadURL = DefaultUploadURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}

	for _, raw := range []string{cfg.BaseURL, cfg.UploadURL} {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid url %q: %w", raw, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("url %q must use http or https scheme", raw)
		}
	}

	return &Client{
		httpClient: newHTTPClient(cfg, apiKey, cfg.Logger),
		baseURL:    cfg.BaseURL,
		uploadURL:  cfg.UploadURL,
		logger:     cfg.Logger,
	}, nil
}

type requestOptions struct {
	query  url.Values
	header http.Header

	// json, when set, is encoded as the request body.
	json interface{}

	body        []byte
	contentType string
}

// do resolves path against the base URL and performs the request. Any
// response carrying Retry-After fails with *RetryAfterError, any other
// non-2xx response fails with *APIError. On success the caller owns the
// response body.
func (c *Client) do(ctx context.Context, method, path string, opts requestOptions) (*http.Response, error) {
	endpoint, err := joinURL(c.baseURL, path)
	if err != nil {
		return nil, err
	}
	if len(opts.query) > 0 {
		if endpoint, err = addToURL(endpoint, opts.query); err != nil {
			return nil, err
		}
	}

	body := opts.body
	contentType := opts.contentType
	if opts.json != nil {
		body, err = json.Marshal(opts.json)
		if err != nil {
			return nil, fmt.Errorf("error encoding request body: %w", err)
		}
		contentType = "application/json"
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	for k, vs := range opts.header {
		req.Header[http.CanonicalHeaderKey(k)] = vs
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "url", endpoint, "error", err)
		return nil, err
	}
	c.logger.Debug("request",
		"method", method,
		"url", endpoint,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// checkResponse looks at Retry-After before the status code: a throttled
// response may carry a nominally successful status.
func (c *Client) checkResponse(resp *http.Response) error {
	if v := resp.Header.Get("Retry-After"); v != "" {
		drainAndClose(resp.Body)
		return newRetryAfterError(resp, v, time.Now())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			c.logger.Debug("error reading error response body", "error", err)
		}
		return newAPIError(resp, body)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, opts requestOptions, result interface{}) error {
	resp, err := c.do(ctx, method, path, opts)
	if err != nil {
		return err
	}
	defer drainAndClose(resp.Body)

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}

func drainAndClose(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	body.Close()
}
