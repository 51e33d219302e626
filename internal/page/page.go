package page

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/rs/zerolog"

	"github.com/joestump/sara/internal/client"
	"github.com/joestump/sara/internal/notify"
)

// TokenFrom selects where the page's forgery token is read from.
type TokenFrom string

const (
	TokenFromMeta   TokenFrom = "meta"
	TokenFromCookie TokenFrom = "cookie"
)

type options struct {
	httpClient *http.Client
	encoding   client.Encoding
	header     string
	metaName   string
	cookieName string
	tokenFrom  TokenFrom
	surface    notify.Surface
	rollback   bool
	logger     zerolog.Logger
}

// Option configures Open.
type Option func(*options)

// WithHTTPClient sets the transport used for the page and every call it
// makes. It needs a cookie jar for the session to survive across calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithEncoding selects how structured payloads are encoded.
func WithEncoding(e client.Encoding) Option {
	return func(o *options) { o.encoding = e }
}

// WithCSRFHeader sets the request header carrying the token.
func WithCSRFHeader(name string) Option {
	return func(o *options) { o.header = name }
}

// WithTokenFrom selects the token source. name overrides the meta tag or
// cookie name when non-empty.
func WithTokenFrom(from TokenFrom, name string) Option {
	return func(o *options) {
		o.tokenFrom = from
		if name == "" {
			return
		}
		if from == TokenFromCookie {
			o.cookieName = name
		} else {
			o.metaName = name
		}
	}
}

// WithSurface mirrors every notification to s as well as the page banner.
func WithSurface(s notify.Surface) Option {
	return func(o *options) { o.surface = s }
}

// WithThemeRollback makes the theme toggle revert on a failed save.
func WithThemeRollback() Option {
	return func(o *options) { o.rollback = true }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Page is a loaded page with its controllers. Navigate and Reload fetch a
// fresh document and rebuild the client, the theme toggle and the session;
// callers should fetch them through the accessors rather than hold them.
type Page struct {
	opts    options
	banner  *notify.Banner
	loading *Indicator
	surface notify.Surface

	mu      sync.RWMutex
	url     *url.URL
	doc     *Document
	client  *client.Client
	theme   *ThemeToggle
	session *Session
}

// Open fetches pageURL and bootstraps the controllers against it.
func Open(ctx context.Context, pageURL string, opts ...Option) (*Page, error) {
	o := options{
		encoding:  client.EncodingForm,
		header:    client.DefaultHeader,
		tokenFrom: TokenFromMeta,
		logger:    zerolog.Nop(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.httpClient == nil {
		o.httpClient = client.NewHTTPClient(0)
	}

	p := &Page{
		opts:    o,
		banner:  notify.NewBanner(nil),
		loading: NewIndicator(true),
	}
	p.surface = p.banner
	if o.surface != nil {
		p.surface = notify.Tee(p.banner, o.surface)
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL %q: %w", pageURL, err)
	}
	if err := p.load(ctx, u); err != nil {
		return nil, err
	}
	return p, nil
}

// Navigate loads target, resolved against the current page URL.
func (p *Page) Navigate(ctx context.Context, target string) error {
	ref, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", target, err)
	}
	return p.load(ctx, p.URL().ResolveReference(ref))
}

// Reload loads the current page again.
func (p *Page) Reload(ctx context.Context) error {
	return p.load(ctx, p.URL())
}

func (p *Page) load(ctx context.Context, u *url.URL) error {
	if !p.loading.Visible() {
		p.loading.Toggle()
	}
	defer p.loading.Toggle()

	doc, err := p.fetch(ctx, u)
	if err != nil {
		return err
	}

	c, err := client.New(ctx, p.tokenSource(doc, u),
		client.WithHTTPClient(p.opts.httpClient),
		client.WithBaseURL(u.String()),
		client.WithHeader(p.opts.header),
		client.WithEncoding(p.opts.encoding),
		client.WithSurface(p.surface),
		client.WithLogger(p.opts.logger),
	)
	if err != nil {
		return err
	}

	themeOpts := []ThemeOption{WithThemeLogger(p.opts.logger)}
	if p.opts.rollback {
		themeOpts = append(themeOpts, WithRollback())
	}

	// A fresh document starts without a banner.
	p.banner.Dismiss()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = u
	p.doc = doc
	p.client = c
	p.theme = NewThemeToggle(c, doc.ThemeURL, doc.Dark, themeOpts...)
	p.session = NewSession(c, p.surface, p)
	p.opts.logger.Debug().Str("url", u.String()).Bool("dark", doc.Dark).Msg("page loaded")
	return nil
}

func (p *Page) fetch(ctx context.Context, u *url.URL) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")
	resp, err := p.opts.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch page %s: %s", u, resp.Status)
	}
	return ParseDocument(resp.Body, p.opts.metaName)
}

func (p *Page) tokenSource(doc *Document, u *url.URL) client.TokenSource {
	if p.opts.tokenFrom == TokenFromCookie {
		return client.Cookie{Jar: p.opts.httpClient.Jar, URL: u, Name: p.opts.cookieName}
	}
	return client.StaticToken(doc.CSRFToken)
}

// URL returns the current page URL.
func (p *Page) URL() *url.URL {
	p.mu.RLock()
	defer p.mu.RUnlock()
	u := *p.url
	return &u
}

// Document returns the parsed current page.
func (p *Page) Document() *Document {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.doc
}

// Client returns the request client bound to the current page.
func (p *Page) Client() *client.Client {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client
}

// Theme returns the theme toggle of the current page.
func (p *Page) Theme() *ThemeToggle {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.theme
}

// Session returns the login/logout controller of the current page.
func (p *Page) Session() *Session {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.session
}

// Banner returns the page's notification banner.
func (p *Page) Banner() *notify.Banner { return p.banner }

// Loading returns the page's loading indicator.
func (p *Page) Loading() *Indicator { return p.loading }
