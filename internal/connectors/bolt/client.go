package bolt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stancil-services/boltsync/internal/core/domain"
	"github.com/stancil-services/boltsync/internal/logger"
	"github.com/stancil-services/boltsync/internal/metrics"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries = 3

	// RetryDelay is the backoff unit. Retry n waits n units.
	RetryDelay = 5 * time.Second

	// ClientName is sent in the Authorization header.
	ClientName = "stancil-services"

	// UserAgent identifies the connector.
	UserAgent = "Mozilla/5.0 (compatible; boltsync/1.0)"

	// maxErrorBody bounds how much of an error body ends up in an error message.
	maxErrorBody = 512
)

// Options configures a Client.
type Options struct {
	// BaseURL is the API root. A trailing slash is stripped.
	BaseURL string

	// Token is the API token.
	Token string

	// Timeout bounds a single request. Zero means DefaultTimeout.
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt.
	// Negative means MaxRetries.
	MaxRetries int

	// RetryDelay is the backoff unit. Negative means RetryDelay.
	RetryDelay time.Duration

	// HTTPClient overrides the HTTP client. Its Timeout is left alone.
	HTTPClient *http.Client
}

// Response is the outcome of a GET.
type Response struct {
	// StatusCode is the HTTP status of the final attempt.
	StatusCode int

	// Body is the decoded response body. Nil when NoData is set.
	Body []byte

	// NoData is set when transient failures outlasted the retry budget.
	NoData bool

	// Reason describes why NoData was set.
	Reason string
}

// Client issues authenticated GET requests against the Bolt API.
type Client struct {
	baseURL    string
	token      string
	http       *http.Client
	maxRetries int
	retryDelay time.Duration

	// sleep waits between attempts. Replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a new Bolt API client.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = MaxRetries
	}

	retryDelay := opts.RetryDelay
	if retryDelay < 0 {
		retryDelay = RetryDelay
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		token:      opts.Token,
		http:       httpClient,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		sleep:      sleepContext,
	}
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get fetches path with the given query parameters.
//
// Retryable statuses are retried up to MaxRetries times with a linear
// backoff of RetryDelay * attempt. When the budget is spent the returned
// Response has NoData set and the error is nil. Network errors are
// retried the same way and returned once the budget is spent.
func (c *Client) Get(ctx context.Context, path string, params map[string]string) (*Response, error) {
	reqURL := c.buildURL(path, params)
	attempts := c.maxRetries + 1

	for attempt := 1; attempt <= attempts; attempt++ {
		status, body, err := c.do(ctx, path, reqURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("Request attempt %d/%d for %s failed: %v", attempt, attempts, path, err)
			if attempt == attempts {
				return nil, &RequestError{URL: reqURL, Attempts: attempts, Err: err}
			}
			metrics.RecordRetry(path, "network")
			if err := c.backoff(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}

		verdict := Classify(status, body)
		switch verdict.Class {
		case ClassOK:
			return &Response{StatusCode: status, Body: body}, nil

		case ClassFatalAuth:
			logger.Error("Authentication failed for %s - check API token", path)
			return nil, &AuthError{URL: reqURL}

		case ClassFatalOther:
			if status < http.StatusBadRequest {
				return nil, fmt.Errorf("%w: %s: %s", domain.ErrMalformedResponse, path, verdict.Reason)
			}
			return nil, &APIError{StatusCode: status, Message: truncate(string(body)), URL: reqURL}

		case ClassRetryable:
			logger.Warn("%s for %s (status %d). Attempt %d/%d", verdict, path, status, attempt, attempts)
			if attempt == attempts {
				logger.Error("%s for %s after %d attempts", verdict.Reason, path, attempts)
				return &Response{StatusCode: status, NoData: true, Reason: verdict.String()}, nil
			}
			metrics.RecordRetry(path, verdict.Reason)
			if err := c.backoff(ctx, attempt); err != nil {
				return nil, err
			}
		}
	}

	// Unreachable: the final attempt always returns.
	return &Response{NoData: true, Reason: "retry budget spent"}, nil
}

// do performs a single request and returns the status and decoded body.
func (c *Client) do(ctx context.Context, path, reqURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordRequest(path, 0, time.Since(start))
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	metrics.RecordRequest(path, resp.StatusCode, time.Since(start))
	if err != nil {
		return 0, nil, fmt.Errorf("read body: %w", err)
	}

	logger.Debug("GET %s -> %d (%d bytes)", path, resp.StatusCode, len(body))
	return resp.StatusCode, body, nil
}

// setHeaders applies the authentication and browser-compatibility headers.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf(`Token token="%s", name="%s"`, c.token, ClientName))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept-Encoding", AcceptEncoding)
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Referer", c.baseURL+"/")
	req.Header.Set("Origin", c.baseURL)
}

func (c *Client) buildURL(path string, params map[string]string) string {
	u := c.baseURL + path
	if len(params) == 0 {
		return u
	}
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	return u + "?" + q.Encode()
}

// backoff waits RetryDelay * attempt.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	return c.sleep(ctx, c.retryDelay*time.Duration(attempt))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func truncate(s string) string {
	if len(s) <= maxErrorBody {
		return s
	}
	return s[:maxErrorBody] + "..."
}

// readBody reads the whole body, undoing any content encoding.
func readBody(resp *http.Response) ([]byte, error) {
	r, err := decodeBody(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		return nil, err
	}
	if closer, ok := r.(io.Closer); ok {
		defer closer.Close()
	}
	return io.ReadAll(r)
}
