package httpclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-netkit/pkg/httpclient"
	"github.com/samvad-hq/samvad-netkit/pkg/httpclient/httpclienttest"
)

func TestSendRequestPassesResponseThrough(t *testing.T) {
	want := httpclienttest.NewResponse(http.StatusTeapot, "short and stout").
		WithHeader("X-Kettle", "on").
		WithHeader("Content-Type", "text/plain")
	fake := &httpclienttest.Transport{Resp: want}
	client := httpclient.New(fake)

	req, err := httpclient.NewRequest("post", "https://example.com/brew?cup=1", []byte(`{"tea":"earl grey"}`))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.SetHeaders(map[string]string{"X-Trace": "abc", "X-Empty": " "})

	resp, err := client.SendRequest(context.Background(), req)
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if resp.StatusCode() != http.StatusTeapot {
		t.Fatalf("status = %d", resp.StatusCode())
	}
	if got := resp.Header().Get("X-Kettle"); got != "on" {
		t.Fatalf("header X-Kettle = %q", got)
	}
	if string(resp.Body()) != "short and stout" {
		t.Fatalf("body = %q", resp.Body())
	}

	sent := fake.Requests()
	if len(sent) != 1 {
		t.Fatalf("expected 1 transport call, got %d", len(sent))
	}
	if sent[0].Method != http.MethodPost || sent[0].URL.String() != "https://example.com/brew?cup=1" {
		t.Fatalf("unexpected request %s %s", sent[0].Method, sent[0].URL)
	}
	if sent[0].Header.Get("X-Trace") != "abc" || sent[0].Header.Get("X-Empty") != "" {
		t.Fatalf("unexpected request headers %v", sent[0].Header)
	}
	if string(sent[0].Body) != `{"tea":"earl grey"}` {
		t.Fatalf("request body = %q", sent[0].Body)
	}
}

func TestSendRequestDoesNotTreatErrorStatusAsFailure(t *testing.T) {
	fake := &httpclienttest.Transport{Resp: httpclienttest.NewResponse(http.StatusInternalServerError, "down")}
	req, _ := httpclient.NewRequest(http.MethodGet, "https://example.com", nil)

	resp, err := httpclient.New(fake).SendRequest(context.Background(), req)
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if resp.StatusCode() != http.StatusInternalServerError {
		t.Fatalf("status = %d", resp.StatusCode())
	}
}

func TestSendRequestCanceledBeforeStartSkipsTransport(t *testing.T) {
	fake := &httpclienttest.Transport{Resp: httpclienttest.NewResponse(http.StatusOK, "ok")}
	client := httpclient.New(fake)
	req, _ := httpclient.NewRequest(http.MethodGet, "https://example.com", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SendRequest(ctx, req)
	if !errors.Is(err, httpclient.ErrCanceled) {
		t.Fatalf("expected ErrCanceled, got %v", err)
	}
	if errors.Is(err, httpclient.ErrTransport) {
		t.Fatalf("cancellation must not be reported as a transport failure: %v", err)
	}
	if fake.Calls() != 0 {
		t.Fatalf("transport invoked %d times after cancellation", fake.Calls())
	}
}

func TestSendRequestCanceledInFlight(t *testing.T) {
	fake := &httpclienttest.Transport{Delay: time.Second, Resp: httpclienttest.NewResponse(http.StatusOK, "late")}
	client := httpclient.New(fake)
	req, _ := httpclient.NewRequest(http.MethodGet, "https://example.com", nil)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := client.SendRequest(ctx, req)
	if !errors.Is(err, httpclient.ErrCanceled) {
		t.Fatalf("expected ErrCanceled, got %v", err)
	}
}

func TestSendRequestRejectsMissingTarget(t *testing.T) {
	fake := &httpclienttest.Transport{}
	client := httpclient.New(fake)

	if _, err := client.SendRequest(context.Background(), nil); !errors.Is(err, httpclient.ErrTargetFormat) {
		t.Fatalf("nil request: expected ErrTargetFormat, got %v", err)
	}
	if _, err := client.SendRequest(context.Background(), &httpclient.Request{Method: http.MethodGet}); !errors.Is(err, httpclient.ErrTargetFormat) {
		t.Fatalf("nil url: expected ErrTargetFormat, got %v", err)
	}
	if fake.Calls() != 0 {
		t.Fatalf("transport should not be called for invalid targets")
	}
}

func TestGetStringTimeout(t *testing.T) {
	fake := &httpclienttest.Transport{
		Delay: 500 * time.Millisecond,
		Resp:  httpclienttest.NewResponse(http.StatusOK, "eventually"),
	}
	client := httpclient.New(fake)

	start := time.Now()
	_, err := client.GetString(context.Background(), "https://example.com/slow", 100*time.Millisecond)
	if !errors.Is(err, httpclient.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed >= 500*time.Millisecond {
		t.Fatalf("timeout not enforced, call took %s", elapsed)
	}

	var e *httpclient.Error
	if !errors.As(err, &e) || !e.Temporary() {
		t.Fatalf("timeout should be reported as temporary: %#v", err)
	}

	body, err := client.GetString(context.Background(), "https://example.com/slow", 0)
	if err != nil {
		t.Fatalf("GetString without timeout: %v", err)
	}
	if body != "eventually" {
		t.Fatalf("body = %q", body)
	}
}

func TestGetStringDiscardsResponseArrivingAfterDeadline(t *testing.T) {
	fake := &httpclienttest.Transport{
		Handler: func(context.Context, *httpclient.Request) (httpclient.Response, error) {
			time.Sleep(150 * time.Millisecond)
			return httpclienttest.NewResponse(http.StatusOK, "stale"), nil
		},
	}

	_, err := httpclient.New(fake).GetString(context.Background(), "https://example.com", 50*time.Millisecond)
	if !errors.Is(err, httpclient.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestGetStringMalformedURL(t *testing.T) {
	fake := &httpclienttest.Transport{Resp: httpclienttest.NewResponse(http.StatusOK, "ok")}
	client := httpclient.New(fake)

	for _, raw := range []string{"not a valid url", "", "://missing", "ftp://example.com/file", "/relative/path"} {
		_, err := client.GetString(context.Background(), raw, 0)
		if !errors.Is(err, httpclient.ErrTargetFormat) {
			t.Fatalf("%q: expected ErrTargetFormat, got %v", raw, err)
		}
		if errors.Is(err, httpclient.ErrTransport) {
			t.Fatalf("%q: target error must be distinct from transport failure", raw)
		}
		var e *httpclient.Error
		if !errors.As(err, &e) || e.Temporary() {
			t.Fatalf("%q: target errors are not retry safe", raw)
		}
	}
	if fake.Calls() != 0 {
		t.Fatalf("transport invoked for malformed targets")
	}
}

func TestGetStringURLSharesContract(t *testing.T) {
	fake := &httpclienttest.Transport{Resp: httpclienttest.NewResponse(http.StatusOK, "hello")}
	client := httpclient.New(fake)

	target, _ := url.Parse("https://example.com/greeting")
	body, err := client.GetStringURL(context.Background(), target, time.Second)
	if err != nil {
		t.Fatalf("GetStringURL: %v", err)
	}
	if body != "hello" {
		t.Fatalf("body = %q", body)
	}
	if got := fake.Requests()[0]; got.Method != http.MethodGet || got.URL != target {
		t.Fatalf("unexpected request %+v", got)
	}

	if _, err := client.GetStringURL(context.Background(), nil, 0); !errors.Is(err, httpclient.ErrTargetFormat) {
		t.Fatalf("nil url: expected ErrTargetFormat, got %v", err)
	}
	relative := &url.URL{Path: "/greeting"}
	if _, err := client.GetStringURL(context.Background(), relative, 0); !errors.Is(err, httpclient.ErrTargetFormat) {
		t.Fatalf("relative url: expected ErrTargetFormat, got %v", err)
	}
}

func TestGetStringTransportFailure(t *testing.T) {
	boom := errors.New("connection refused")
	fake := &httpclienttest.Transport{Err: boom}

	_, err := httpclient.New(fake).GetString(context.Background(), "https://example.com", 0)
	if !errors.Is(err, httpclient.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
	for _, other := range []error{httpclient.ErrTimeout, httpclient.ErrCanceled, httpclient.ErrTargetFormat} {
		if errors.Is(err, other) {
			t.Fatalf("transport failure also matched %v", other)
		}
	}
}

func TestGetStringNonSuccessStatus(t *testing.T) {
	fake := &httpclienttest.Transport{
		Resp: httpclienttest.NewResponse(http.StatusNotFound, `{"title":"Not Found"}`).
			WithHeader("Content-Type", "application/problem+json"),
	}

	_, err := httpclient.New(fake).GetString(context.Background(), "https://example.com/items/9", 0)
	var se *httpclient.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusNotFound || string(se.Body) != `{"title":"Not Found"}` {
		t.Fatalf("unexpected status error %+v", se)
	}
	if se.Header.Get("Content-Type") != "application/problem+json" {
		t.Fatalf("status error lost headers: %v", se.Header)
	}
	var e *httpclient.Error
	if !errors.As(err, &e) || e.Temporary() {
		t.Fatalf("404 should not be temporary")
	}
}

func TestCancellationIsPerCall(t *testing.T) {
	fake := &httpclienttest.Transport{
		Delay: 100 * time.Millisecond,
		Resp:  httpclienttest.NewResponse(http.StatusOK, "ok"),
	}
	client := httpclient.New(fake)

	canceled, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	var errCanceled, errLive error

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errCanceled = client.GetString(canceled, "https://example.com/a", 0)
	}()
	go func() {
		defer wg.Done()
		_, errLive = client.GetString(context.Background(), "https://example.com/b", 0)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	wg.Wait()

	if !errors.Is(errCanceled, httpclient.ErrCanceled) {
		t.Fatalf("expected first call canceled, got %v", errCanceled)
	}
	if errLive != nil {
		t.Fatalf("second call affected by unrelated cancellation: %v", errLive)
	}
}
