/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

package webexsdk

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/maruel/ksid"

	"github.com/jeokrohn/wxc-sdk-sub004/apimodel"
)

// TrackingIDHeader is the request header Webex uses to correlate a request
// with server-side logs.
const TrackingIDHeader = "TrackingID"

// Logger is the interface for SDK logging. Any logger that implements Printf
// (such as the standard library's *log.Logger) can be used.
type Logger interface {
	Printf(format string, v ...any)
}

// Plugin represents a Webex API plugin
type Plugin interface {
	// Name returns the name of the plugin
	Name() string
}

// Client is the main Webex client struct
type Client struct {
	// HTTP client used to communicate with the API
	httpClient *http.Client

	// Base URL for API requests
	BaseURL *url.URL

	// Access token for API authentication, guarded by tokenMu
	tokenMu     sync.RWMutex
	accessToken string

	// Plugins registered with the client
	pluginsMu sync.Mutex
	plugins   map[string]Plugin

	// Configuration for the client
	Config *Config

	// Logger for SDK operations
	logger Logger
}

// GetAccessToken returns the access token used for API authentication
func (c *Client) GetAccessToken() string {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()
	return c.accessToken
}

// SetAccessToken replaces the access token. Safe to call while requests are
// in flight; requests already sent keep the old token.
func (c *Client) SetAccessToken(token string) error {
	if token == "" {
		return fmt.Errorf("access token cannot be empty")
	}
	c.tokenMu.Lock()
	c.accessToken = token
	c.tokenMu.Unlock()
	return nil
}

// WithAccessToken returns a client that shares c's transport and
// configuration but authenticates with token. Plugins registered with c are
// not carried over.
func (c *Client) WithAccessToken(token string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("access token cannot be empty")
	}
	return &Client{
		httpClient:  c.httpClient,
		BaseURL:     c.BaseURL,
		accessToken: token,
		plugins:     make(map[string]Plugin),
		Config:      c.Config,
		logger:      c.logger,
	}, nil
}

// GetHTTPClient returns the HTTP client used for API requests
func (c *Client) GetHTTPClient() *http.Client {
	return c.httpClient
}

// GetLogger returns the logger used by the SDK.
func (c *Client) GetLogger() Logger {
	return c.logger
}

// Config holds the configuration for the Webex client
type Config struct {
	// BaseURL is the base URL of the Webex API
	BaseURL string

	// Timeout for API requests
	Timeout time.Duration

	// Default headers to include in API requests
	DefaultHeaders map[string]string

	// Custom HTTP client to use instead of the default one
	// If nil, a default client will be created with the specified Timeout
	HttpClient *http.Client

	// MaxRetries is the maximum number of retries for transient errors (429, 502, 503, 504).
	// Set to 0 to disable retries. Default: 3.
	MaxRetries int

	// RetryBaseDelay is the initial delay between retries. Default: 1s.
	// Subsequent retries use exponential backoff (delay * 2^attempt).
	RetryBaseDelay time.Duration

	// Logger is the logger for SDK operations. If nil, the standard library's
	// default logger (log.Default()) is used.
	Logger Logger

	// UnknownFields selects how response keys without a matching model field
	// are handled by DecodeResponse. Default: apimodel.Allow.
	UnknownFields apimodel.Strictness

	// DisableCompression turns off gzip/br/zstd response negotiation.
	DisableCompression bool
}

// DefaultConfig returns a default configuration for the Webex client
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "https://webexapis.com/v1",
		Timeout:        30 * time.Second,
		DefaultHeaders: make(map[string]string),
		HttpClient:     nil,
		MaxRetries:     3,
		RetryBaseDelay: 1 * time.Second,
		UnknownFields:  apimodel.Allow,
	}
}

// NewClient creates a new Webex client with the given access token and optional configuration
func NewClient(accessToken string, config *Config) (*Client, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("access token cannot be empty")
	}

	if config == nil {
		config = DefaultConfig()
	}

	baseURL, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil {
		return nil, err
	}

	// Create HTTP client - either use the provided custom client or create a default one
	httpClient := config.HttpClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: config.Timeout,
		}
	}
	if !config.DisableCompression {
		httpClient = withDecompression(httpClient)
	}

	// Set up logger - use provided logger or default
	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}

	client := &Client{
		httpClient:  httpClient,
		BaseURL:     baseURL,
		accessToken: accessToken,
		plugins:     make(map[string]Plugin),
		logger:      logger,
		Config:      config,
	}

	return client, nil
}

// RegisterPlugin registers a plugin with the client
func (c *Client) RegisterPlugin(plugin Plugin) {
	c.pluginsMu.Lock()
	defer c.pluginsMu.Unlock()
	c.plugins[plugin.Name()] = plugin
}

// GetPlugin returns a plugin by name
func (c *Client) GetPlugin(name string) (Plugin, bool) {
	c.pluginsMu.Lock()
	defer c.pluginsMu.Unlock()
	plugin, ok := c.plugins[name]
	return plugin, ok
}

// Endpoint returns the absolute URL for a path relative to BaseURL.
func (c *Client) Endpoint(path string) string {
	return c.BaseURL.String() + "/" + strings.TrimLeft(path, "/")
}

// Request performs an HTTP request to the Webex API with automatic retry
// for transient errors (429, 502, 503, 504).
// The caller is responsible for closing the response body when done.
func (c *Client) Request(method, path string, params url.Values, body interface{}) (*http.Response, error) {
	return c.RequestWithRetry(context.Background(), method, path, params, body)
}

// RequestWithContext performs a single HTTP request to the Webex API with the given context.
// The context can be used for per-request timeouts and cancellation.
// The caller is responsible for closing the response body when done.
func (c *Client) RequestWithContext(ctx context.Context, method, path string, params url.Values, body interface{}) (*http.Response, error) {
	fullURL, err := c.requestURL(path, params)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, method, fullURL, body)
}

// requestURL returns the absolute URL for path with params as query string.
func (c *Client) requestURL(path string, params url.Values) (string, error) {
	u, err := url.Parse(c.Endpoint(path))
	if err != nil {
		return "", err
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	return u.String(), nil
}

// RequestWithRetry performs an HTTP request with automatic retry for transient errors.
// It retries on HTTP 429 (Too Many Requests, respecting Retry-After header) and
// transient server errors (502, 503, 504) using exponential backoff.
// The caller is responsible for closing the response body when done.
func (c *Client) RequestWithRetry(ctx context.Context, method, path string, params url.Values, body interface{}) (*http.Response, error) {
	return c.retry(ctx, method+" "+path, func() (*http.Response, error) {
		return c.RequestWithContext(ctx, method, path, params, body)
	})
}

// RequestURL performs an HTTP request to a full URL (not relative to BaseURL).
// This is used for pagination where Link headers contain absolute URLs.
// The request includes the same authentication and default headers as regular requests.
// The caller is responsible for closing the response body when done.
func (c *Client) RequestURL(method, fullURL string, body interface{}) (*http.Response, error) {
	return c.RequestURLWithRetry(context.Background(), method, fullURL, body)
}

// RequestURLWithRetry performs an HTTP request to a full URL with retry logic.
func (c *Client) RequestURLWithRetry(ctx context.Context, method, fullURL string, body interface{}) (*http.Response, error) {
	return c.retry(ctx, method+" "+fullURL, func() (*http.Response, error) {
		return c.do(ctx, method, fullURL, body)
	})
}

// do sends a single JSON request to an absolute URL.
func (c *Client) do(ctx context.Context, method, fullURL string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := apimodel.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, "application/json")

	return c.httpClient.Do(req)
}

// setHeaders applies authentication, tracking and default headers.
func (c *Client) setHeaders(req *http.Request, contentType string) {
	req.Header.Set("Authorization", "Bearer "+c.GetAccessToken())
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(TrackingIDHeader, NewTrackingID())

	// Add default headers
	for k, v := range c.Config.DefaultHeaders {
		req.Header.Set(k, v)
	}
}

// NewTrackingID returns a fresh, time-sortable tracking identifier.
func NewTrackingID() string {
	return "WXCSDK_" + ksid.NewID().String()
}

// retry runs send until it returns a non-retryable status or MaxRetries is
// exhausted. Bodies of discarded responses are closed.
func (c *Client) retry(ctx context.Context, what string, send func() (*http.Response, error)) (*http.Response, error) {
	maxRetries := c.Config.MaxRetries
	baseDelay := c.Config.RetryBaseDelay
	if baseDelay == 0 {
		baseDelay = 1 * time.Second
	}

	for attempt := 0; ; attempt++ {
		resp, err := send()
		if err != nil {
			return nil, err
		}

		if !isRetryableStatus(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		delay := retryDelay(resp, baseDelay, attempt)
		c.logger.Printf("webexsdk: %s returned %d, retry %d/%d in %s", what, resp.StatusCode, attempt+1, maxRetries, delay)
		_ = resp.Body.Close()

		// Wait with context cancellation support
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// isRetryableStatus reports whether a status is transient. Telephony
// endpoints answer 423 Locked while an earlier change to the same resource
// is still being provisioned.
func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		statusCode == http.StatusLocked ||
		statusCode == http.StatusBadGateway ||
		statusCode == http.StatusServiceUnavailable ||
		statusCode == http.StatusGatewayTimeout
}

// retryDelay calculates the delay before the next retry attempt.
// For 429 and 423 responses, it respects the Retry-After header if present.
// Otherwise, it uses exponential backoff: baseDelay * 2^attempt.
func retryDelay(resp *http.Response, baseDelay time.Duration, attempt int) time.Duration {
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusLocked {
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if seconds, err := strconv.Atoi(ra); err == nil && seconds > 0 {
				return time.Duration(seconds) * time.Second
			}
		}
	}
	return baseDelay * (1 << uint(attempt))
}

// MultipartField represents a text field in a multipart request.
type MultipartField struct {
	Name  string
	Value string
}

// MultipartFile represents a file to upload in a multipart request.
type MultipartFile struct {
	FieldName string // Form field name (e.g., "file")
	FileName  string // Original filename (e.g., "greeting.wav")
	Content   []byte // Raw file bytes
}

// RequestMultipart performs a multipart/form-data POST request to the Webex API
// with automatic retry for transient errors. Used for announcement and
// voicemail greeting uploads.
// The caller is responsible for closing the response body when done.
func (c *Client) RequestMultipart(ctx context.Context, method, path string, fields []MultipartField, files []MultipartFile) (*http.Response, error) {
	// The multipart body is rebuilt on each retry attempt.
	return c.retry(ctx, method+" "+path, func() (*http.Response, error) {
		return c.doMultipartRequest(ctx, method, path, fields, files)
	})
}

// doMultipartRequest performs a single multipart/form-data request.
func (c *Client) doMultipartRequest(ctx context.Context, method, path string, fields []MultipartField, files []MultipartFile) (*http.Response, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for _, f := range fields {
		if err := writer.WriteField(f.Name, f.Value); err != nil {
			return nil, fmt.Errorf("error writing field %s: %w", f.Name, err)
		}
	}

	for _, f := range files {
		part, err := writer.CreateFormFile(f.FieldName, f.FileName)
		if err != nil {
			return nil, fmt.Errorf("error creating form file %s: %w", f.FileName, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, fmt.Errorf("error writing file %s: %w", f.FileName, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("error closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Endpoint(path), &body)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, writer.FormDataContentType())

	return c.httpClient.Do(req)
}

// ParseResponse parses an HTTP response into the given interface. Unknown
// fields are ignored; use DecodeResponse to honour the configured strictness.
func ParseResponse(resp *http.Response, v interface{}) error {
	return parseResponse(resp, v, apimodel.Ignore)
}

// DecodeResponse parses an HTTP response into v using the client's
// UnknownFields strictness. A nil v only checks the status.
func (c *Client) DecodeResponse(resp *http.Response, v interface{}) error {
	return parseResponse(resp, v, c.Config.UnknownFields)
}

func parseResponse(resp *http.Response, v interface{}, mode apimodel.Strictness) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return NewAPIError(resp, body)
	}

	if v == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := apimodel.Unmarshal(body, v, mode); err != nil {
		return fmt.Errorf("error parsing response: %w", err)
	}
	return nil
}

// Get sends a GET request and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, params url.Values, out interface{}) error {
	return c.call(ctx, http.MethodGet, path, params, nil, out)
}

// Post sends a POST request with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, params url.Values, body, out interface{}) error {
	return c.call(ctx, http.MethodPost, path, params, body, out)
}

// Put sends a PUT request with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, params url.Values, body, out interface{}) error {
	return c.call(ctx, http.MethodPut, path, params, body, out)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, params url.Values) error {
	return c.call(ctx, http.MethodDelete, path, params, nil, nil)
}

func (c *Client) call(ctx context.Context, method, path string, params url.Values, body, out interface{}) error {
	resp, err := c.RequestWithRetry(ctx, method, path, params, body)
	if err != nil {
		return err
	}
	return c.DecodeResponse(resp, out)
}
