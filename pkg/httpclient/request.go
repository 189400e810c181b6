package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Request describes an outgoing HTTP request.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte
}

// NewRequest builds a Request after validating rawURL. An empty method defaults to GET.
func NewRequest(method, rawURL string, body []byte) (*Request, error) {
	target, err := ParseTarget(rawURL)
	if err != nil {
		return nil, err
	}

	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}

	return &Request{
		Method: method,
		URL:    target,
		Header: make(http.Header),
		Body:   body,
	}, nil
}

// SetHeaders copies headers into the request, skipping empty keys and values.
func (r *Request) SetHeaders(headers map[string]string) *Request {
	if r.Header == nil {
		r.Header = make(http.Header, len(headers))
	}
	for k, v := range headers {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		r.Header.Set(key, val)
	}
	return r
}

// ParseTarget parses rawURL and checks that it is an absolute http(s) URL.
func ParseTarget(rawURL string) (*url.URL, error) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return nil, targetError("parse", rawURL, errors.New("url is empty"))
	}

	target, err := url.Parse(raw)
	if err != nil {
		return nil, targetError("parse", rawURL, err)
	}
	if err := validateTarget(target); err != nil {
		return nil, targetError("parse", rawURL, err)
	}
	return target, nil
}

func validateTarget(target *url.URL) error {
	if target == nil {
		return errors.New("url is nil")
	}
	switch strings.ToLower(target.Scheme) {
	case "http", "https":
	case "":
		return errors.New("missing scheme")
	default:
		return fmt.Errorf("unsupported scheme %q", target.Scheme)
	}
	if target.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

func targetError(op, rawURL string, err error) *Error {
	return &Error{Op: op, URL: rawURL, Kind: ErrTargetFormat, Err: err}
}

func targetString(target *url.URL) string {
	if target == nil {
		return ""
	}
	return target.String()
}
