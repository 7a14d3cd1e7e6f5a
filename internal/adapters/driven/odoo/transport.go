package odoo

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds a single HTTP attempt.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRetries is the total number of attempts per call.
	DefaultMaxRetries = 3
)

// Fault is an application-level XML-RPC fault returned by the server.
// Faults are terminal: the server answered, so the call is never retried.
type Fault struct {
	Code    int64
	Message string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("erp fault %d: %s", f.Code, f.Message)
}

// TransportError reports that every attempt of a call failed at the
// network level.
type TransportError struct {
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("erp call failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TransportConfig configures a Transport. Zero values fall back to the
// package defaults.
type TransportConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	Logger     *slog.Logger
}

// Transport posts XML-RPC method calls to one ERP endpoint and retries
// transient network failures with exponential backoff. Faults, non-2xx
// responses and malformed bodies are returned on the first occurrence.
type Transport struct {
	baseURL    string
	timeout    time.Duration
	maxRetries int
	httpClient *http.Client
	logger     *slog.Logger

	// sleep is swapped out in tests to observe backoff without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewTransport creates a Transport for the given endpoint base URL.
func NewTransport(cfg TransportConfig) *Transport {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    timeout,
		maxRetries: maxRetries,
		httpClient: &http.Client{},
		logger:     logger,
		sleep:      sleepContext,
	}
}

type methodCall struct {
	XMLName    xml.Name `xml:"methodCall"`
	MethodName string   `xml:"methodName"`
	Params     []param  `xml:"params>param"`
}

type param struct {
	Value Value `xml:"value"`
}

type methodResponse struct {
	XMLName xml.Name `xml:"methodResponse"`
	Params  []param  `xml:"params>param"`
	Fault   *struct {
		Value Value `xml:"value"`
	} `xml:"fault"`
}

// Call invokes method on the named service ("common" or "object") and
// returns the single result value of the response.
func (t *Transport) Call(ctx context.Context, service, method string, params []Value) (Value, error) {
	body, err := encodeCall(method, params)
	if err != nil {
		return Nil, fmt.Errorf("encoding call %s: %w", method, err)
	}
	url := t.baseURL + "/xmlrpc/2/" + service

	var lastErr error
	for attempt := 1; attempt <= t.maxRetries; attempt++ {
		result, retryable, err := t.attempt(ctx, url, body)
		if err == nil {
			return result, nil
		}
		if !retryable {
			return Nil, err
		}
		lastErr = err

		if attempt == t.maxRetries {
			break
		}
		backoff := time.Duration(1<<(attempt-1)) * time.Second
		t.logger.Warn("erp call failed, retrying",
			"service", service,
			"method", method,
			"attempt", attempt,
			"backoff", backoff,
			"error", err)
		if err := t.sleep(ctx, backoff); err != nil {
			return Nil, err
		}
	}
	return Nil, &TransportError{Attempts: t.maxRetries, Err: lastErr}
}

// attempt performs one HTTP round trip. The second return reports whether
// the failure is worth retrying; only transport-level errors are.
func (t *Transport) attempt(ctx context.Context, url string, body []byte) (Value, bool, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Nil, false, err
	}
	req.Header.Set("Content-Type", "text/xml")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		// The parent context being done means the caller gave up, not a
		// transient server hiccup.
		if ctx.Err() != nil {
			return Nil, false, ctx.Err()
		}
		return Nil, true, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return Nil, false, ctx.Err()
		}
		return Nil, true, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Nil, false, fmt.Errorf("erp http status %d: %s", resp.StatusCode, firstLine(raw))
	}

	var mr methodResponse
	if err := xml.Unmarshal(raw, &mr); err != nil {
		return Nil, false, fmt.Errorf("decoding erp response: %w", err)
	}
	if mr.Fault != nil {
		return Nil, false, decodeFault(mr.Fault.Value)
	}
	if len(mr.Params) == 0 {
		return Nil, false, nil
	}
	return mr.Params[0].Value, false, nil
}

func encodeCall(method string, params []Value) ([]byte, error) {
	wrapped := make([]param, 0, len(params))
	for _, p := range params {
		wrapped = append(wrapped, param{Value: p})
	}
	payload, err := xml.Marshal(methodCall{MethodName: method, Params: wrapped})
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), payload...), nil
}

func decodeFault(v Value) *Fault {
	f := &Fault{}
	if code, ok := v.Member("faultCode"); ok {
		f.Code = code.Int
	}
	if msg, ok := v.Member("faultString"); ok {
		f.Message = msg.Str
	}
	return f
}

func firstLine(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
