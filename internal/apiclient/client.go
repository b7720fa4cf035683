// Package apiclient is the single point of HTTP communication with the
// otamanga backend.
//
// Every call goes through Client.Request, which attaches the JSON headers and
// the session cookie jar, normalizes error responses into *APIError and logs
// each failure with its endpoint before returning it. Resource groups (Auth,
// Mangas, Authors, ...) map a domain action to a verb and a path and decode
// the result into canonical domain types.
package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

// DefaultBaseURL is the production backend.
const DefaultBaseURL = "https://otamanga-production.up.railway.app/api"

// APIError is returned for any non-2xx response.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

// Error returns the backend-provided message, or "Error <status>".
func (e *APIError) Error() string {
	return e.Message
}

// IsUnauthorized reports whether err is an *APIError with status 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Options customizes a single request.
type Options struct {
	// Method defaults to GET.
	Method string
	// Body is sent as-is; callers encode JSON.
	Body []byte
	// Header values replace the defaults key by key.
	Header http.Header
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithLogger sets the logger used for failures and warnings.
func WithLogger(lg *zap.Logger) Option {
	return func(c *Client) { c.lg = lg }
}

// WithTransport sets the underlying round tripper. It is always wrapped with
// otelhttp instrumentation.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.transport = rt }
}

// WithInstrumentation passes options to the otelhttp transport.
func WithInstrumentation(opts ...otelhttp.Option) Option {
	return func(c *Client) { c.otelOpts = append(c.otelOpts, opts...) }
}

// WithToken attaches a bearer token to every request in addition to the
// session cookies.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// Client talks to the backend REST API.
type Client struct {
	baseURL   string
	lg        *zap.Logger
	transport http.RoundTripper
	otelOpts  []otelhttp.Option
	token     string
	http      *http.Client

	Auth            *AuthService
	Mangas          *MangaService
	Authors         *AuthorService
	Categories      *CategoryService
	Orders          *OrderService
	Metrics         *MetricService
	Recommendations *RecommendationService
}

// New creates a Client. Cookies set by the backend are kept in a jar that is
// attached to every request.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:   DefaultBaseURL,
		lg:        zap.NewNop(),
		transport: http.DefaultTransport,
	}
	for _, o := range opts {
		o(c)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, errors.Wrap(err, "create cookie jar")
	}
	c.http = &http.Client{
		Jar:       jar,
		Transport: otelhttp.NewTransport(c.transport, c.otelOpts...),
	}

	c.Auth = &AuthService{c: c}
	c.Mangas = &MangaService{c: c}
	c.Authors = &AuthorService{c: c}
	c.Categories = &CategoryService{c: c}
	c.Orders = &OrderService{c: c}
	c.Metrics = &MetricService{c: c}
	c.Recommendations = &RecommendationService{c: c}
	return c, nil
}

// BaseURL returns the backend base URL, without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping reports whether the backend answers. Client errors count as
// reachable; only transport failures and 5xx responses fail.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.send(ctx, "/Category", Options{})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
			return nil
		}
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// Request performs a single HTTP exchange with the backend and returns the
// response body, validated as JSON. A 204 response yields a nil result.
func (c *Client) Request(ctx context.Context, endpoint string, opts Options) (jx.Raw, error) {
	raw, err := c.request(ctx, endpoint, opts)
	if err != nil {
		return nil, c.logFailure(endpoint, err)
	}
	return raw, nil
}

// logFailure logs err with the endpoint it came from and returns it.
func (c *Client) logFailure(endpoint string, err error) error {
	c.lg.Error("API request failed",
		zap.String("endpoint", endpoint),
		zap.Error(err),
	)
	return err
}

func (c *Client) request(ctx context.Context, endpoint string, opts Options) (jx.Raw, error) {
	resp, err := c.send(ctx, endpoint, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	if err := jx.DecodeBytes(data).Validate(); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	return jx.Raw(data), nil
}

// stream copies a successful response body to w without parsing it.
func (c *Client) stream(ctx context.Context, endpoint string, w io.Writer) (int64, error) {
	n, err := func() (int64, error) {
		resp, err := c.send(ctx, endpoint, Options{})
		if err != nil {
			return 0, err
		}
		defer func() { _ = resp.Body.Close() }()

		n, err := io.Copy(w, resp.Body)
		if err != nil {
			return n, errors.Wrap(err, "copy response")
		}
		return n, nil
	}()
	if err != nil {
		return n, c.logFailure(endpoint, err)
	}
	return n, nil
}

// send performs the exchange and returns the response when its status is
// 2xx. Any other status is consumed and turned into an *APIError.
func (c *Client) send(ctx context.Context, endpoint string, opts Options) (*http.Response, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, vv := range opts.Header {
		req.Header.Del(k)
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send request")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.lg.Warn("Session unauthorized or expired", zap.String("endpoint", endpoint))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()
		// The body is best-effort: a read failure falls back to the generic message.
		data, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data, resp.StatusCode),
		}
	}
	return resp, nil
}

// errorMessage extracts the "message" field of a JSON error body.
func errorMessage(data []byte, status int) string {
	var msg string
	d := jx.DecodeBytes(data)
	if d.Next() == jx.Object {
		err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
			if msg == "" && strings.EqualFold(string(key), "message") && d.Next() == jx.String {
				s, err := d.Str()
				if err != nil {
					return err
				}
				msg = s
				return nil
			}
			return d.Skip()
		})
		if err != nil {
			msg = ""
		}
	}
	if msg == "" {
		return fmt.Sprintf("Error %d", status)
	}
	return msg
}
