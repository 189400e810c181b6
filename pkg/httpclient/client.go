package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"
)

const (
	opSend = "send"
	opGet  = "get"
)

// Option configures a Client built by New.
type Option func(*client)

// WithLogger routes request logs to log.
func WithLogger(log Logger) Option {
	return func(c *client) { c.log = ensureLogger(log) }
}

// client implements Client on top of any Transport.
type client struct {
	transport Transport
	log       Logger
}

// New wraps transport with the Client contract: cancellation is checked before
// the transport is touched, per-call timeouts are applied, and failures are
// classified. A nil transport falls back to a resty transport with DefaultTimeout.
func New(transport Transport, opts ...Option) Client {
	if transport == nil {
		transport = NewRestyTransport(NewRestyHTTPClient(DefaultTimeout))
	}
	c := &client{transport: transport, log: noopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// SendRequest sends req as-is and returns the transport's response unchanged.
// Non-2xx statuses are not errors.
func (c *client) SendRequest(ctx context.Context, req *Request) (Response, error) {
	if req == nil {
		return nil, targetError(opSend, "", errors.New("request is nil"))
	}
	if err := validateTarget(req.URL); err != nil {
		return nil, c.reject(targetError(opSend, targetString(req.URL), err))
	}
	return c.do(ctx, opSend, req, 0)
}

// GetString issues a GET to rawURL and returns the body as text.
func (c *client) GetString(ctx context.Context, rawURL string, timeout time.Duration) (string, error) {
	target, err := ParseTarget(rawURL)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Op = opGet
		}
		return "", c.reject(err)
	}
	return c.getString(ctx, target, timeout)
}

// GetStringURL is GetString for an already parsed target.
func (c *client) GetStringURL(ctx context.Context, target *url.URL, timeout time.Duration) (string, error) {
	if err := validateTarget(target); err != nil {
		return "", c.reject(targetError(opGet, targetString(target), err))
	}
	return c.getString(ctx, target, timeout)
}

func (c *client) getString(ctx context.Context, target *url.URL, timeout time.Duration) (string, error) {
	req := &Request{Method: http.MethodGet, URL: target, Header: make(http.Header)}

	resp, err := c.do(ctx, opGet, req, timeout)
	if err != nil {
		return "", err
	}

	code := resp.StatusCode()
	if code < http.StatusOK || code >= http.StatusMultipleChoices {
		err := &Error{
			Op:   opGet,
			URL:  target.String(),
			Kind: ErrTransport,
			Err:  &StatusError{Code: code, Header: resp.Header(), Body: resp.Body()},
		}
		c.log.WarnObj("http get returned non-success status", "http_status_error", map[string]any{
			"url":    target.String(),
			"status": code,
		})
		return "", err
	}

	return decodeText(resp.Header().Get("Content-Type"), resp.Body()), nil
}

// do runs a single exchange against the transport.
func (c *client) do(ctx context.Context, op string, req *Request, timeout time.Duration) (Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	target := req.URL.String()

	if err := ctx.Err(); err != nil {
		return nil, c.fail(op, req, classify(ctx, ctx, err), err)
	}

	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.transport.Do(callCtx, req)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			return nil, c.reject(err)
		}
		return nil, c.fail(op, req, classify(ctx, callCtx, err), err)
	}
	if resp == nil {
		return nil, c.fail(op, req, ErrTransport, errors.New("transport returned no response"))
	}
	// The transport may have ignored the context; a response that arrives
	// after the deadline or cancellation is not handed out.
	if err := callCtx.Err(); err != nil {
		return nil, c.fail(op, req, classify(ctx, callCtx, err), err)
	}

	c.log.DebugObj("http exchange completed", "http_exchange", map[string]any{
		"op":         op,
		"method":     req.Method,
		"url":        target,
		"status":     resp.StatusCode(),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return resp, nil
}

func (c *client) fail(op string, req *Request, kind, cause error) error {
	return c.reject(&Error{Op: op, URL: req.URL.String(), Kind: kind, Err: cause})
}

func (c *client) reject(err error) error {
	c.log.WarnObj("http exchange failed", "http_error", map[string]any{
		"error": err.Error(),
	})
	return err
}
