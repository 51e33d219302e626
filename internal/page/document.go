package page

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/joestump/sara/internal/client"
)

const (
	themeButtonID = "theme-toggle-btn"
	logoutID      = "logoutBtn"
	darkClass     = "dark"
)

// Document is what the controllers need from a rendered page.
type Document struct {
	// CSRFToken is the content of the csrf-token meta tag, if any.
	CSRFToken string
	// Dark reports whether <body> carries the dark marker class.
	Dark bool
	// ThemeURL is the data-url of the theme toggle button; empty when the
	// page has no toggle.
	ThemeURL string
	// LoggedIn reports whether the page renders a logout control.
	LoggedIn bool
}

// ParseDocument reads an HTML page. metaName selects the token meta tag and
// defaults to csrf-token.
func ParseDocument(r io.Reader, metaName string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	doc := &Document{}
	doc.CSRFToken, _ = client.MetaContent(root, metaName)
	walk(root, doc)
	return doc, nil
}

func walk(n *html.Node, doc *Document) {
	if n.Type == html.ElementNode {
		if n.DataAtom == atom.Body && hasClass(n, darkClass) {
			doc.Dark = true
		}
		switch client.Attr(n, "id") {
		case themeButtonID:
			doc.ThemeURL = client.Attr(n, "data-url")
		case logoutID:
			doc.LoggedIn = true
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, doc)
	}
}

func hasClass(n *html.Node, class string) bool {
	return slices.Contains(strings.Fields(client.Attr(n, "class")), class)
}
