package odoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okResponse(inner string) string {
	return fmt.Sprintf(`<?xml version="1.0"?>
<methodResponse>
  <params>
    <param>
      <value>%s</value>
    </param>
  </params>
</methodResponse>`, inner)
}

const faultResponse = `<?xml version="1.0"?>
<methodResponse>
  <fault>
    <value>
      <struct>
        <member><name>faultCode</name><value><int>2</int></value></member>
        <member><name>faultString</name><value><string>Access Denied</string></value></member>
      </struct>
    </value>
  </fault>
</methodResponse>`

// newTestTransport points a transport at srv and replaces its sleep with a
// recorder so backoff is observable without waiting.
func newTestTransport(srv *httptest.Server, sleeps *[]time.Duration) *Transport {
	tr := NewTransport(TransportConfig{BaseURL: srv.URL})
	tr.sleep = func(ctx context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}
	return tr
}

func TestTransportCallSuccess(t *testing.T) {
	var gotPath string
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		fmt.Fprint(w, okResponse("<int>7</int>"))
	}))
	defer srv.Close()

	var sleeps []time.Duration
	tr := newTestTransport(srv, &sleeps)

	res, err := tr.Call(context.Background(), "common", "version", nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if res.Kind != KindInt || res.Int != 7 {
		t.Errorf("result = %#v, want int 7", res)
	}
	if gotPath != "/xmlrpc/2/common" {
		t.Errorf("path = %q, want /xmlrpc/2/common", gotPath)
	}
	if gotContentType != "text/xml" {
		t.Errorf("content type = %q, want text/xml", gotContentType)
	}
	if len(sleeps) != 0 {
		t.Errorf("slept %v, want no backoff on success", sleeps)
	}
}

func TestTransportCallFaultNotRetried(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, faultResponse)
	}))
	defer srv.Close()

	var sleeps []time.Duration
	tr := newTestTransport(srv, &sleeps)

	_, err := tr.Call(context.Background(), "object", "execute_kw", nil)
	var fault *Fault
	if !errors.As(err, &fault) {
		t.Fatalf("err = %v, want *Fault", err)
	}
	if fault.Code != 2 || fault.Message != "Access Denied" {
		t.Errorf("fault = %+v", fault)
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1: faults must not be retried", requests)
	}
	if len(sleeps) != 0 {
		t.Errorf("slept %v, want none", sleeps)
	}
}

func TestTransportRetriesNetworkFailure(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests <= 2 {
			// Drop the connection mid-request to simulate a network error.
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Fatal("response writer does not support hijacking")
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Fatalf("hijack: %v", err)
			}
			conn.Close()
			return
		}
		fmt.Fprint(w, okResponse("<string>ok</string>"))
	}))
	defer srv.Close()

	var sleeps []time.Duration
	tr := newTestTransport(srv, &sleeps)

	res, err := tr.Call(context.Background(), "common", "version", nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if res.Str != "ok" {
		t.Errorf("result = %#v, want string ok", res)
	}
	if requests != 3 {
		t.Errorf("requests = %d, want 3", requests)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(sleeps) != len(want) || sleeps[0] != want[0] || sleeps[1] != want[1] {
		t.Errorf("backoffs = %v, want %v", sleeps, want)
	}
}

func TestTransportExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // every attempt now fails to connect

	var sleeps []time.Duration
	tr := newTestTransport(srv, &sleeps)

	_, err := tr.Call(context.Background(), "common", "version", nil)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if te.Attempts != DefaultMaxRetries {
		t.Errorf("attempts = %d, want %d", te.Attempts, DefaultMaxRetries)
	}
	if len(sleeps) != DefaultMaxRetries-1 {
		t.Errorf("backoffs = %v, want %d of them", sleeps, DefaultMaxRetries-1)
	}
}

func TestTransportMalformedBodyNotRetried(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, "<html>not xml-rpc</html>")
	}))
	defer srv.Close()

	var sleeps []time.Duration
	tr := newTestTransport(srv, &sleeps)

	_, err := tr.Call(context.Background(), "common", "version", nil)
	if err == nil {
		t.Fatal("want decode error")
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1: malformed bodies must not be retried", requests)
	}
}

func TestTransportHTTPErrorNotRetried(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.Error(w, "proxy exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	var sleeps []time.Duration
	tr := newTestTransport(srv, &sleeps)

	_, err := tr.Call(context.Background(), "common", "version", nil)
	if err == nil {
		t.Fatal("want status error")
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1", requests)
	}
}

func TestTransportRespectsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	tr := NewTransport(TransportConfig{BaseURL: srv.URL})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.Call(ctx, "common", "version", nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
