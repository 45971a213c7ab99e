package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yildizm/pyscope/internal/logger"
)

const (
	// DefaultBaseURL is used when no base URL is configured
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout bounds each request
	DefaultTimeout = 30 * time.Second

	analyzePath      = "/api/v1/analyze"
	visualizePath    = "/api/v1/visualize"
	analyzeErrorPath = "/api/v1/analyze-error"
	healthPath       = "/"

	maxErrorBody = 64 * 1024
)

// Options configures a Client
type Options struct {
	// BaseURL of the analysis backend, e.g. http://localhost:8000
	BaseURL string

	// Timeout for each HTTP request
	Timeout time.Duration

	// UserAgent sent with every request
	UserAgent string

	// Logger receives request traces; nil disables logging
	Logger *logger.Logger

	// HTTPClient overrides the default client (tests)
	HTTPClient *http.Client
}

// Client talks to the analysis backend. It holds no mutable state and is
// safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	client    *http.Client
	userAgent string
	log       *logger.Logger
}

// New creates a backend client
func New(opts Options) (*Client, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", base)
	}
	if baseURL.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing host", base)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		baseURL:   baseURL,
		client:    httpClient,
		userAgent: opts.UserAgent,
		log:       log.WithComponent("api"),
	}, nil
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// AnalyzeCode runs static analysis on the given source
func (c *Client) AnalyzeCode(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	var resp AnalyzeResponse
	if err := c.do(ctx, http.MethodPost, analyzePath, req, &resp); err != nil {
		return nil, err
	}
	if err := validateAnalyze(&resp); err != nil {
		return nil, invalidResponse(analyzePath, err)
	}
	return &resp, nil
}

// VisualizeCode simulates execution of the given source
func (c *Client) VisualizeCode(ctx context.Context, req VisualizeRequest) (*VisualizeResponse, error) {
	var resp VisualizeResponse
	if err := c.do(ctx, http.MethodPost, visualizePath, req, &resp); err != nil {
		return nil, err
	}
	if err := validateVisualize(&resp); err != nil {
		return nil, invalidResponse(visualizePath, err)
	}
	return &resp, nil
}

// AnalyzeError explains an error message in the context of the source
func (c *Client) AnalyzeError(ctx context.Context, req ErrorAnalyzeRequest) (*ErrorAnalyzeResponse, error) {
	var resp ErrorAnalyzeResponse
	if err := c.do(ctx, http.MethodPost, analyzeErrorPath, req, &resp); err != nil {
		return nil, err
	}
	if err := validateErrorAnalyze(&resp); err != nil {
		return nil, invalidResponse(analyzeErrorPath, err)
	}
	return &resp, nil
}

// Health queries the backend root endpoint
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, healthPath, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Status == "" {
		return nil, invalidResponse(healthPath, fmt.Errorf("missing status"))
	}
	return &resp, nil
}

// do performs a single JSON round trip. No retries.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	endpoint := c.baseURL.JoinPath(path)
	start := time.Now()

	var reader io.Reader = http.NoBody
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return newTransportError(ErrTypeInternal, path, "failed to marshal request", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return newTransportError(ErrTypeInternal, path, "failed to create request", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		te := classifyRequestError(ctx, path, err)
		c.log.DebugWithFields("request failed", []logger.Field{
			logger.Endpoint(path), logger.F("type", te.Type), logger.Duration(time.Since(start)),
		})
		return te
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.DebugWithFields("response received", []logger.Field{
		logger.Endpoint(path), logger.F("status", resp.StatusCode), logger.Duration(time.Since(start)),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		te := newTransportError(ErrTypeStatus, path, statusMessage(resp.StatusCode, raw), nil)
		te.StatusCode = resp.StatusCode
		return te
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return classifyRequestError(ctx, path, ctx.Err())
		}
		return newTransportError(ErrTypeDecode, path, "failed to decode response", err)
	}

	return nil
}

// statusMessage folds a backend error body into a readable message
func statusMessage(status int, raw []byte) string {
	msg := fmt.Sprintf("request failed with status %d", status)

	var body backendErrorBody
	if json.Unmarshal(raw, &body) != nil {
		return msg
	}

	var parts []string
	if body.Error != "" {
		parts = append(parts, body.Error)
	}
	switch d := body.Detail.(type) {
	case string:
		if d != "" && d != body.Error {
			parts = append(parts, d)
		}
	case nil:
	default:
		if b, err := json.Marshal(d); err == nil {
			parts = append(parts, string(b))
		}
	}

	if len(parts) == 0 {
		return msg
	}
	return msg + ": " + strings.Join(parts, ": ")
}

func invalidResponse(endpoint string, err error) *TransportError {
	return newTransportError(ErrTypeInvalidResponse, endpoint, "invalid response", err)
}
