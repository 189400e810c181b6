package httpclient

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Response is a minimal HTTP response contract.
type Response interface {
	StatusCode() int
	Header() http.Header
	Body() []byte
}

// Transport performs a single request/response exchange. Concrete HTTP stacks
// (resty, fakes in tests) plug in here and are consumed through Client.
type Transport interface {
	Do(ctx context.Context, req *Request) (Response, error)
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
//
// A timeout <= 0 means no per-call timeout; the transport's own policy applies.
// Failures unwrap to one of ErrTransport, ErrTimeout, ErrCanceled or ErrTargetFormat.
type Client interface {
	SendRequest(ctx context.Context, req *Request) (Response, error)
	GetString(ctx context.Context, rawURL string, timeout time.Duration) (string, error)
	GetStringURL(ctx context.Context, target *url.URL, timeout time.Duration) (string, error)
}
