package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	apierrors "github.com/olgasafonova/bears-api/internal/errors"
	"github.com/olgasafonova/bears-api/metrics"
	"github.com/olgasafonova/bears-api/tracing"
)

const (
	// BaseURL is the English Wikipedia action API endpoint
	BaseURL = "https://en.wikipedia.org/w/api.php"

	// DefaultTimeout bounds every upstream request
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent identifies this service; Wikipedia rejects requests without one
	DefaultUserAgent = "bears-api/1.0 (https://github.com/olgasafonova/bears-api)"

	// maxErrorBody caps how much of an error response is kept for logs
	maxErrorBody = 200
)

// Client talks to the MediaWiki action API
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	userAgent  string
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithLogger sets a custom logger
func WithLogger(l *slog.Logger) ClientOption {
	return func(client *Client) {
		client.logger = l
	}
}

// WithBaseURL points the client at a different api.php endpoint
func WithBaseURL(u string) ClientOption {
	return func(client *Client) {
		client.baseURL = u
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) ClientOption {
	return func(client *Client) {
		if ua != "" {
			client.userAgent = ua
		}
	}
}

// WithTimeout replaces the HTTP client timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(client *Client) {
		if d > 0 {
			client.httpClient = newHTTPClient(d)
		}
	}
}

// NewClient creates a new Wikipedia API client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: newHTTPClient(DefaultTimeout),
		logger:     slog.Default(),
		baseURL:    BaseURL,
		userAgent:  DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// doRequest issues a single GET against the action API and decodes the JSON
// body into result. validate, if set, inspects the decoded envelope; its error
// is reported like any other failure of the call. No retries are attempted.
func (c *Client) doRequest(ctx context.Context, action string, params url.Values, result any, validate func() error) (err error) {
	ctx, span := tracing.StartSpan(ctx, "wikipedia."+action)
	defer span.End()
	tracing.AddUpstreamAttributes(span, action, params.Get("page")+params.Get("titles"))

	start := time.Now()
	defer func() {
		metrics.RecordAPICall(action, time.Since(start).Seconds(), apierrors.Reason(err))
		tracing.RecordError(span, err)
	}()

	params.Set("format", "json")
	params.Set("origin", "*")
	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("Wikipedia API request", "action", action, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	body, err := readAndClose(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apierrors.NewUpstreamStatusError(action, resp.StatusCode, truncate(string(body), maxErrorBody))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return apierrors.WrapEnvelopeError(action, "decode body", err)
	}

	if validate != nil {
		return validate()
	}
	return nil
}

// readAndClose reads the response body and closes it
func readAndClose(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return body, err
}

// truncate shortens a string to at most maxLen bytes, adding "..." if
// truncated. The cut never splits a UTF-8 sequence.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// newHTTPClient creates an HTTP client with tuned transport settings
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
