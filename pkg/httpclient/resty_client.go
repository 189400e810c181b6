package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds calls made through a resty transport when no per-call timeout is given.
const DefaultTimeout = 15 * time.Second

// RestyTransport adapts resty.Client to the Transport interface.
type RestyTransport struct {
	client *resty.Client
}

// NewRestyTransport wraps an existing resty client. A nil client gets DefaultTimeout.
func NewRestyTransport(rc *resty.Client) *RestyTransport {
	if rc == nil {
		rc = newRestyBaseClient(DefaultTimeout)
	}
	return &RestyTransport{client: rc}
}

// NewRestyClient creates a Client backed by resty with the specified default timeout.
func NewRestyClient(timeout time.Duration, opts ...Option) Client {
	return New(NewRestyTransport(newRestyBaseClient(timeout)), opts...)
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom settings.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

// Do performs req with the specified context.
func (t *RestyTransport) Do(ctx context.Context, req *Request) (Response, error) {
	r := t.client.R().SetContext(ctx)
	if len(req.Header) > 0 {
		r.SetHeaderMultiValues(req.Header)
	}
	if len(req.Body) > 0 {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.URL.String())
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte        { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int     { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Header() http.Header { return r.resp.Header() }
