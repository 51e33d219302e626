// Package page holds the page-level controllers that consume the request
// client: the theme toggle, the login/logout session flow, the loading
// indicator, and the page bootstrap that wires them together.
package page

import (
	"context"

	"github.com/joestump/sara/internal/client"
)

// Sender is the part of *client.Client the controllers use.
type Sender interface {
	Send(ctx context.Context, url, method string, payload client.Payload) (client.Body, error)
}

// Navigator moves the page to another URL or reloads it.
type Navigator interface {
	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error
}
