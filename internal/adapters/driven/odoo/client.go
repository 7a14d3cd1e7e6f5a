package odoo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andina-labs/cierre-core/internal/core/domain"
	"github.com/andina-labs/cierre-core/internal/core/ports/driven"
)

// Client talks XML-RPC to one ERP instance with one set of credentials.
type Client struct {
	transport *Transport
	database  string
	username  string
	apiKey    string
}

var _ driven.ERPClient = (*Client)(nil)

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL  string
	Database string
	Username string
	APIKey   string
	Logger   *slog.Logger
}

// NewClient creates a client for the given ERP endpoint and credentials.
func NewClient(cfg ClientConfig) *Client {
	return &Client{
		transport: NewTransport(TransportConfig{BaseURL: cfg.BaseURL, Logger: cfg.Logger}),
		database:  cfg.Database,
		username:  cfg.Username,
		apiKey:    cfg.APIKey,
	}
}

// Authenticate verifies the credentials against the common service and
// returns the ERP user ID. The ERP signals rejection by answering with
// boolean false instead of a uid.
func (c *Client) Authenticate(ctx context.Context) (int64, error) {
	res, err := c.transport.Call(ctx, "common", "authenticate", []Value{
		FromGo(c.database),
		FromGo(c.username),
		FromGo(c.apiKey),
		FromGo(map[string]any{}),
	})
	if err != nil {
		return 0, err
	}
	if res.Kind == KindInt && res.Int > 0 {
		return res.Int, nil
	}
	return 0, domain.ErrAuthenticationFailed
}

// ExecuteKw invokes a model method through the object service.
func (c *Client) ExecuteKw(ctx context.Context, uid int64, model, method string, args []any, kwargs map[string]any) (any, error) {
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	res, err := c.transport.Call(ctx, "object", "execute_kw", []Value{
		FromGo(c.database),
		FromGo(uid),
		FromGo(c.apiKey),
		FromGo(model),
		FromGo(method),
		FromGo(args),
		FromGo(kwargs),
	})
	if err != nil {
		return nil, err
	}
	return res.Interface(), nil
}

// SearchRead runs search_read on a model and decodes the record list.
func (c *Client) SearchRead(ctx context.Context, uid int64, model string, filter []any, fields []string) ([]map[string]any, error) {
	if filter == nil {
		filter = []any{}
	}
	raw, err := c.ExecuteKw(ctx, uid, model, "search_read", []any{filter}, map[string]any{"fields": fields})
	if err != nil {
		return nil, err
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected search_read result for %s: %T", model, raw)
	}
	records := make([]map[string]any, 0, len(list))
	for _, elem := range list {
		record, ok := elem.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unexpected search_read record for %s: %T", model, elem)
		}
		records = append(records, record)
	}
	return records, nil
}

// ClientFactory builds clients from stored connection parameters.
type ClientFactory struct {
	logger *slog.Logger
}

var _ driven.ERPClientFactory = (*ClientFactory)(nil)

// NewClientFactory creates a factory that attaches the given logger to
// every client it builds.
func NewClientFactory(logger *slog.Logger) *ClientFactory {
	return &ClientFactory{logger: logger}
}

func (f *ClientFactory) New(params domain.ConnectionParams) driven.ERPClient {
	return NewClient(ClientConfig{
		BaseURL:  params.BaseURL,
		Database: params.Database,
		Username: params.Username,
		APIKey:   params.APIKey,
		Logger:   f.logger,
	})
}
