// Package api is the client for the storefront REST API.
//
// Every call takes a context, attaches the bearer token when one is
// available and classifies the outcome into a Kind. A 401 response is
// reported to the registered OnUnauthorized observers before the error is
// returned; the client never retries and never caches.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/maison/internal/log"
	"github.com/felixgeelhaar/maison/internal/version"
)

// DefaultTimeout bounds each request when no HTTP client is supplied.
const DefaultTimeout = 30 * time.Second

// TokenSource yields the current bearer token, or "" when signed out.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

// Token calls f.
func (f TokenFunc) Token() string { return f() }

// Client is the storefront API client. It is safe for concurrent use.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	tokens          TokenSource
	logger          *log.Logger
	userAgent       string
	normalizeImages bool

	mu        sync.RWMutex
	observers []func(*Error)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithImageNormalization controls whether product images are replaced by
// the placeholder set. It is on by default.
func WithImageNormalization(on bool) Option {
	return func(c *Client) { c.normalizeImages = on }
}

// NewClient creates a client for the API rooted at baseURL,
// e.g. "http://localhost:8000/api".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		httpClient:      &http.Client{Timeout: DefaultTimeout},
		tokens:          TokenFunc(func() string { return "" }),
		logger:          log.Discard(),
		userAgent:       version.GetInfo().UserAgent(),
		normalizeImages: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "api")
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// WithToken returns a client that sends token instead of asking the token
// source. Unauthorized observers are not carried over.
func (c *Client) WithToken(token string) *Client {
	return &Client{
		baseURL:         c.baseURL,
		httpClient:      c.httpClient,
		tokens:          TokenFunc(func() string { return token }),
		logger:          c.logger,
		userAgent:       c.userAgent,
		normalizeImages: c.normalizeImages,
	}
}

// OnUnauthorized registers fn to be called whenever the API rejects the
// credential. Observers run synchronously on the calling goroutine.
func (c *Client) OnUnauthorized(fn func(*Error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

func (c *Client) publishUnauthorized(e *Error) {
	c.mu.RLock()
	observers := slices.Clone(c.observers)
	c.mu.RUnlock()
	for _, fn := range observers {
		fn(e)
	}
}

// body is an encoded request payload.
type body struct {
	contentType string
	data        []byte
}

func jsonBody(v any) (*body, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return &body{contentType: "application/json", data: data}, nil
}

func formBody(values url.Values) *body {
	return &body{contentType: "application/x-www-form-urlencoded", data: []byte(values.Encode())}
}

func fileBody(field, filename string, r io.Reader) (*body, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}
	return &body{contentType: w.FormDataContentType(), data: buf.Bytes()}, nil
}

// call is one request to an endpoint.
type call struct {
	op       string
	endpoint Endpoint
	params   []string
	query    url.Values
	body     *body
}

// do performs the call and decodes a successful response into out, which
// may be nil.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	requestID := uuid.NewString()
	path := cl.endpoint.expand(cl.params...)
	target := c.baseURL + path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var reader io.Reader
	if cl.body != nil {
		reader = bytes.NewReader(cl.body.data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.endpoint.Method, target, reader)
	if err != nil {
		return &Error{Op: cl.op, Kind: KindNetwork, RequestID: requestID, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("User-Agent", c.userAgent)
	if cl.body != nil {
		req.Header.Set("Content-Type", cl.body.contentType)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "request failed",
			"method", req.Method, "path", path, "request_id", requestID,
			"duration", time.Since(start), "error", err)
		return newNetworkError(cl.op, requestID, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "request completed",
		"method", req.Method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "duration", time.Since(start))

	if Classify(resp.StatusCode) != KindSuccess {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := newStatusError(cl.op, requestID, resp.StatusCode, errorDetail(data))
		if apiErr.Kind == KindUnauthorized {
			c.publishUnauthorized(apiErr)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return newDecodeError(cl.op, requestID, resp.StatusCode, err)
	}
	return nil
}

// errorResponse covers the error bodies the API produces: a plain detail
// string, a list of validation problems, or an error/message pair.
type errorResponse struct {
	Detail  json.RawMessage `json:"detail"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

type validationProblem struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

func errorDetail(data []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return strings.TrimSpace(string(data))
	}

	if len(resp.Detail) > 0 {
		var s string
		if json.Unmarshal(resp.Detail, &s) == nil {
			return s
		}
		var problems []validationProblem
		if json.Unmarshal(resp.Detail, &problems) == nil && len(problems) > 0 {
			msgs := make([]string, 0, len(problems))
			for _, p := range problems {
				if field := fieldName(p.Loc); field != "" {
					msgs = append(msgs, field+": "+p.Msg)
				} else {
					msgs = append(msgs, p.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}
	if resp.Error != "" {
		return resp.Error
	}
	return resp.Message
}

func fieldName(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	if s, ok := loc[len(loc)-1].(string); ok {
		return s
	}
	return ""
}

// Message is the acknowledgement body returned by action endpoints.
type Message struct {
	Message string `json:"message" yaml:"message"`
}
