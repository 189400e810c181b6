// Package httpclienttest provides a scripted httpclient.Transport for tests.
package httpclienttest

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/samvad-hq/samvad-netkit/pkg/httpclient"
)

// Response is a static httpclient.Response.
type Response struct {
	Code    int
	Headers http.Header
	Content []byte
}

// NewResponse returns a Response with the given status and body.
func NewResponse(code int, body string) *Response {
	return &Response{Code: code, Headers: make(http.Header), Content: []byte(body)}
}

// WithHeader sets a response header and returns r.
func (r *Response) WithHeader(key, value string) *Response {
	if r.Headers == nil {
		r.Headers = make(http.Header)
	}
	r.Headers.Set(key, value)
	return r
}

func (r *Response) StatusCode() int     { return r.Code }
func (r *Response) Header() http.Header { return r.Headers }
func (r *Response) Body() []byte        { return r.Content }

// Transport records every request it receives and answers with Resp/Err,
// or with Handler when set. Delay is honored cooperatively: a context that
// ends first aborts the wait with ctx.Err().
type Transport struct {
	Delay   time.Duration
	Resp    httpclient.Response
	Err     error
	Handler func(ctx context.Context, req *httpclient.Request) (httpclient.Response, error)

	mu       sync.Mutex
	requests []*httpclient.Request
}

// Do implements httpclient.Transport.
func (t *Transport) Do(ctx context.Context, req *httpclient.Request) (httpclient.Response, error) {
	t.mu.Lock()
	t.requests = append(t.requests, req)
	t.mu.Unlock()

	if t.Delay > 0 {
		timer := time.NewTimer(t.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if t.Handler != nil {
		return t.Handler(ctx, req)
	}
	return t.Resp, t.Err
}

// Calls returns how many times Do was invoked.
func (t *Transport) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.requests)
}

// Requests returns the requests received so far, oldest first.
func (t *Transport) Requests() []*httpclient.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*httpclient.Request, len(t.requests))
	copy(out, t.requests)
	return out
}
