// Package client is the authenticated request client: every call carries the
// page's CSRF token, payloads are encoded as form or JSON, and every response
// is classified into a decoded JSON body or a typed *Error. Failures are shown
// on the notification surface and then returned to the caller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"

	"github.com/joestump/sara/internal/build"
	"github.com/joestump/sara/internal/metrics"
	"github.com/joestump/sara/internal/notify"
)

// DefaultMaxBodyBytes caps how much of a response body is read.
const DefaultMaxBodyBytes = 10 << 20

// Body is a decoded JSON response object. A 204 response yields an empty Body.
type Body map[string]any

// String returns the string value at key, or "".
func (b Body) String(key string) string {
	s, _ := b[key].(string)
	return s
}

// Client sends authenticated requests. It is safe for concurrent use; the
// token is read once by New and never refreshed.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	rawBase    string
	token      string
	header     string
	encoding   Encoding
	surface    notify.Surface
	logger     zerolog.Logger
	userAgent  string
	maxBody    int64
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets the transport. Share it with the TokenSource so the
// session cookie and the token belong to the same session.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL resolves relative request URLs against base.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.rawBase = base }
}

// WithHeader sets the header name carrying the token.
func WithHeader(name string) Option {
	return func(c *Client) { c.header = name }
}

// WithEncoding selects how Values payloads are encoded.
func WithEncoding(e Encoding) Option {
	return func(c *Client) { c.encoding = e }
}

// WithSurface sets where failures are shown.
func WithSurface(s notify.Surface) Option {
	return func(c *Client) { c.surface = s }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMaxBodyBytes sets the largest response body accepted. A larger
// successful response fails; a larger error response is reported by status.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewHTTPClient returns an http.Client with a cookie jar, so session cookies
// set by the backend are replayed on later calls.
func NewHTTPClient(timeout time.Duration) *http.Client {
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return &http.Client{Jar: jar, Timeout: timeout}
}

// New builds a client and reads the forgery token from src once. A source
// that finds no token is logged and tolerated: requests still go out and
// the backend decides. Any other source error is returned.
func New(ctx context.Context, src TokenSource, opts ...Option) (*Client, error) {
	c := &Client{
		header:    DefaultHeader,
		encoding:  EncodingForm,
		surface:   notify.Discard,
		logger:    zerolog.Nop(),
		userAgent: build.UserAgent(),
		maxBody:   DefaultMaxBodyBytes,
	}
	for _, o := range opts {
		o(c)
	}
	if c.httpClient == nil {
		c.httpClient = NewHTTPClient(30 * time.Second)
	}
	if c.rawBase != "" {
		u, err := url.Parse(c.rawBase)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", c.rawBase, err)
		}
		c.baseURL = u
	}

	if src != nil {
		tok, err := src.Token(ctx)
		switch {
		case errors.Is(err, ErrNoToken):
			c.logger.Warn().Msg("no csrf token available; requests will be sent without one")
		case err != nil:
			return nil, fmt.Errorf("read csrf token: %w", err)
		default:
			c.token = tok
		}
	}
	return c, nil
}

// Token returns the forgery token read at construction.
func (c *Client) Token() string { return c.token }

// Encoding returns the configured Values encoding.
func (c *Client) Encoding() Encoding { return c.encoding }

// HTTPClient returns the underlying transport.
func (c *Client) HTTPClient() *http.Client { return c.httpClient }

// Send issues one request and returns the decoded JSON object. method is
// case-insensitive and defaults to GET; payload may be nil. Every failure is
// an *Error, shown on the surface before it is returned. Any valid JSON
// reply succeeds; a top-level value that is not an object yields an empty
// Body, and SendValue returns it as decoded.
func (c *Client) Send(ctx context.Context, rawURL, method string, payload Payload) (Body, error) {
	v, err := c.SendValue(ctx, rawURL, method, payload)
	if err != nil {
		return nil, err
	}
	if obj, ok := v.(map[string]any); ok {
		return Body(obj), nil
	}
	return Body{}, nil
}

// SendValue is Send returning the decoded JSON value of any shape: an
// object, array, string, number, bool or nil. A 204 yields an empty Body.
func (c *Client) SendValue(ctx context.Context, rawURL, method string, payload Payload) (any, error) {
	var v any
	if err := c.SendInto(ctx, rawURL, method, payload, &v); err != nil {
		return nil, err
	}
	if v == nil {
		// 204, or a literal null.
		return Body{}, nil
	}
	return v, nil
}

// SendInto is Send decoding the response into out. A body that does not
// decode into out is a KindUnexpectedContentType failure. When out is nil
// the body is discarded.
func (c *Client) SendInto(ctx context.Context, rawURL, method string, payload Payload, out any) error {
	method = normalizeMethod(method)
	start := time.Now()

	raw, status, err := c.do(ctx, rawURL, method, payload)
	if err == nil && out != nil {
		if derr := json.Unmarshal(raw, out); derr != nil {
			err = newError(KindUnexpectedContentType, status, msgUnexpectedContentType, derr)
		}
	}
	metrics.ClientRequestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		var e *Error
		if !errors.As(err, &e) {
			e = newError(KindNetwork, 0, err.Error(), err)
		}
		return c.fail(rawURL, method, e)
	}
	metrics.ClientRequestsTotal.WithLabelValues("success").Inc()
	return nil
}

// do performs the round trip and returns the raw JSON bytes of a successful
// response ("null" for 204) with its status code.
func (c *Client) do(ctx context.Context, rawURL, method string, payload Payload) ([]byte, int, error) {
	target, err := c.resolve(rawURL)
	if err != nil {
		return nil, 0, newError(KindRequest, 0, err.Error(), err)
	}

	header := http.Header{}
	header.Set(c.header, c.token)

	var reader io.Reader
	if payload != nil {
		body, contentType, err := payload.encode(c.encoding)
		if err != nil {
			return nil, 0, newError(KindRequest, 0, "encode payload: "+err.Error(), err)
		}
		reader = body
		if contentType != "" {
			header.Set("Content-Type", contentType)
		}
	}
	header.Set("Accept", contentTypeJSON)
	if c.userAgent != "" {
		header.Set("User-Agent", c.userAgent)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, 0, newError(KindRequest, 0, err.Error(), err)
	}
	req.Header = header

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, newError(KindNetwork, 0, err.Error(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	// One byte past the limit tells an oversized body from one that fits.
	data, readErr := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	tooLarge := int64(len(data)) > c.maxBody
	if tooLarge {
		data = data[:c.maxBody]
	}

	// A response arrived: a failed or oversized read of an error body still
	// leaves the status phrase to report.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, newError(KindHTTP, resp.StatusCode, failureMessage(resp.StatusCode, data), readErr)
	}
	if readErr != nil {
		return nil, 0, newError(KindNetwork, 0, readErr.Error(), readErr)
	}
	if tooLarge {
		return nil, resp.StatusCode, newError(KindUnexpectedContentType, resp.StatusCode, msgResponseTooLarge,
			fmt.Errorf("response body exceeds %d bytes", c.maxBody))
	}
	if resp.StatusCode == http.StatusNoContent {
		return []byte("null"), resp.StatusCode, nil
	}
	if !isJSON(resp.Header.Get("Content-Type")) {
		return nil, resp.StatusCode, newError(KindUnexpectedContentType, resp.StatusCode, msgUnexpectedContentType, nil)
	}
	return data, resp.StatusCode, nil
}

func (c *Client) resolve(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if c.baseURL != nil {
		u = c.baseURL.ResolveReference(u)
	}
	return u.String(), nil
}

func (c *Client) fail(rawURL, method string, e *Error) error {
	metrics.ClientRequestsTotal.WithLabelValues(e.Kind.String()).Inc()
	c.logger.Warn().
		Err(e.Unwrap()).
		Str("kind", e.Kind.String()).
		Int("status", e.Status).
		Str("method", method).
		Str("url", rawURL).
		Msg(e.Message)
	c.surface.Notify(e.Message, notify.SeverityDanger)
	return e
}

// failureMessage extracts "message" from a JSON error body, falling back to
// the standard status phrase.
func failureMessage(status int, body []byte) string {
	var eb struct {
		Message string `json:"message"`
	}
	if len(bytes.TrimSpace(body)) > 0 && json.Unmarshal(body, &eb) == nil && eb.Message != "" {
		return eb.Message
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return msgRequestFailed
}

func normalizeMethod(m string) string {
	if m == "" {
		return http.MethodGet
	}
	return strings.ToUpper(m)
}

// isJSON accepts application/json and any +json media type.
func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == contentTypeJSON || strings.HasSuffix(mt, "+json")
}
