package page_test

import (
	"context"
	"sync"

	"github.com/joestump/sara/internal/client"
)

type call struct {
	URL     string
	Method  string
	Payload client.Payload
}

// fakeSender records calls and answers from a queue of responses.
type fakeSender struct {
	mu    sync.Mutex
	calls []call
	body  client.Body
	err   error
}

func (f *fakeSender) Send(_ context.Context, url, method string, payload client.Payload) (client.Body, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{URL: url, Method: method, Payload: payload})
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

func (f *fakeSender) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

type fakeNav struct {
	navigated []string
	reloads   int
}

func (n *fakeNav) Navigate(_ context.Context, url string) error {
	n.navigated = append(n.navigated, url)
	return nil
}

func (n *fakeNav) Reload(context.Context) error {
	n.reloads++
	return nil
}
