package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-netkit/internal/config"
	"github.com/samvad-hq/samvad-netkit/internal/logger"
	"github.com/samvad-hq/samvad-netkit/pkg/httpclient"
	"github.com/samvad-hq/samvad-netkit/pkg/problem"
)

// Fetcher binds the resty transport behind httpclient.Client and interprets
// problem details bodies returned by servers.
type Fetcher struct {
	client httpclient.Client
	log    logger.Logger
}

// Result is the outcome of Send.
type Result struct {
	Status  int              `json:"status" yaml:"status"`
	Header  http.Header      `json:"header" yaml:"header"`
	Body    string           `json:"body,omitempty" yaml:"body,omitempty"`
	Problem *problem.Details `json:"problem,omitempty" yaml:"problem,omitempty"`
}

// NewFetcher builds a fetcher backed by resty and configured from cfg.
func NewFetcher(cfg *config.Config, log logger.Logger) (*Fetcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	rc := httpclient.NewRestyHTTPClient(cfg.HTTPTimeout)
	if cfg.UserAgent != "" {
		rc.SetHeader("User-Agent", cfg.UserAgent)
	}
	rc.SetHeader("Accept", "*/*")

	client := httpclient.New(httpclient.NewRestyTransport(rc), httpclient.WithLogger(log))
	log.DebugObj("http client initialized", "http_client_config", map[string]any{
		"transport":       "resty",
		"timeout_seconds": int(cfg.HTTPTimeout.Seconds()),
		"user_agent":      cfg.UserAgent,
	})

	return NewFetcherWithClient(client, log), nil
}

// NewFetcherWithClient wraps an existing client, e.g. one over a fake transport.
func NewFetcherWithClient(client httpclient.Client, log logger.Logger) *Fetcher {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Fetcher{client: client, log: log}
}

// Get fetches rawURL as text. When the server answers with a non-success
// problem details body, the returned error wraps the decoded *problem.Details.
func (f *Fetcher) Get(ctx context.Context, rawURL string, timeout time.Duration) (string, error) {
	if f == nil || f.client == nil {
		return "", fmt.Errorf("fetcher is not initialized")
	}

	body, err := f.client.GetString(ctx, rawURL, timeout)
	if err == nil {
		return body, nil
	}

	var se *httpclient.StatusError
	if errors.As(err, &se) && problem.IsProblem(se.Header.Get("Content-Type")) {
		details, perr := problem.Parse(se.Body)
		if perr != nil {
			f.log.WarnObj("problem body could not be decoded", "problem_error", map[string]any{
				"url":   rawURL,
				"error": perr.Error(),
			})
			return "", err
		}
		return "", fmt.Errorf("get %s: status %d: %w", rawURL, se.Code, details)
	}
	return "", err
}

// Send performs a request with the given method, headers and body. Non-success
// statuses are returned in Result, with Problem set for problem details bodies.
func (f *Fetcher) Send(ctx context.Context, method, rawURL string, headers map[string]string, body []byte, timeout time.Duration) (*Result, error) {
	if f == nil || f.client == nil {
		return nil, fmt.Errorf("fetcher is not initialized")
	}

	req, err := httpclient.NewRequest(method, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.SetHeaders(headers)

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := f.client.SendRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	res := &Result{Status: resp.StatusCode(), Header: resp.Header()}
	if problem.IsProblem(resp.Header().Get("Content-Type")) {
		details, perr := problem.Parse(resp.Body())
		if perr == nil {
			res.Problem = details
			return res, nil
		}
		f.log.WarnObj("problem body could not be decoded", "problem_error", map[string]any{
			"url":   rawURL,
			"error": perr.Error(),
		})
	}
	res.Body = string(resp.Body())
	return res, nil
}

// ParseHeaders turns "Key: Value" or "Key=Value" pairs into a header map.
func ParseHeaders(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		idx := strings.IndexAny(pair, ":=")
		if idx <= 0 {
			return nil, fmt.Errorf("invalid header %q (expected Key: Value)", pair)
		}
		key := strings.TrimSpace(pair[:idx])
		if key == "" {
			return nil, fmt.Errorf("invalid header %q (empty key)", pair)
		}
		out[key] = strings.TrimSpace(pair[idx+1:])
	}
	return out, nil
}
