package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// DefaultHeader is the request header carrying the forgery token.
	DefaultHeader = "X-CSRFToken"
	// DefaultMetaName is the name attribute of the <meta> tag holding the token.
	DefaultMetaName = "csrf-token"
	// DefaultCookieName is the cookie holding the token.
	DefaultCookieName = "csrftoken"
)

// ErrNoToken is returned by a TokenSource that found no token.
var ErrNoToken = errors.New("csrf token not found")

// TokenSource yields the forgery token. New reads it exactly once.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a token already known to the caller.
type StaticToken string

func (s StaticToken) Token(context.Context) (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

// MetaTag reads the token from a <meta name=Name content=...> tag of the page
// at PageURL. Name defaults to DefaultMetaName.
type MetaTag struct {
	HTTPClient *http.Client
	PageURL    string
	Name       string
}

func (m MetaTag) Token(ctx context.Context) (string, error) {
	hc := m.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.PageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html")
	resp, err := hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch page: %s", resp.Status)
	}
	return ParseMetaToken(resp.Body, m.Name)
}

// ParseMetaToken parses an HTML document and returns the content of the
// <meta> tag called name (DefaultMetaName when empty).
func ParseMetaToken(r io.Reader, name string) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}
	if tok, ok := MetaContent(doc, name); ok && tok != "" {
		return tok, nil
	}
	return "", ErrNoToken
}

// MetaContent walks n and returns the content attribute of the first
// <meta name=name> element.
func MetaContent(n *html.Node, name string) (string, bool) {
	if name == "" {
		name = DefaultMetaName
	}
	if n.Type == html.ElementNode && n.DataAtom == atom.Meta && Attr(n, "name") == name {
		return Attr(n, "content"), true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if v, ok := MetaContent(c, name); ok {
			return v, true
		}
	}
	return "", false
}

// Attr returns the value of attribute key on n, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// Cookie reads the token from a same-origin cookie already stored in Jar for
// URL. Name defaults to DefaultCookieName.
type Cookie struct {
	Jar  http.CookieJar
	URL  *url.URL
	Name string
}

func (c Cookie) Token(context.Context) (string, error) {
	if c.Jar == nil || c.URL == nil {
		return "", ErrNoToken
	}
	name := c.Name
	if name == "" {
		name = DefaultCookieName
	}
	for _, ck := range c.Jar.Cookies(c.URL) {
		if ck.Name == name && ck.Value != "" {
			return ck.Value, nil
		}
	}
	return "", ErrNoToken
}
