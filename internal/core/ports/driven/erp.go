package driven

import (
	"context"

	"github.com/andina-labs/cierre-core/internal/core/domain"
)

// ERPClient is an authenticated-capable handle to one ERP instance.
// Results are decoded to native Go values: string, int64, float64, bool,
// []any, map[string]any or nil.
type ERPClient interface {
	// Authenticate verifies the credentials and returns the ERP user ID.
	// Returns domain.ErrAuthenticationFailed if the ERP rejects them.
	Authenticate(ctx context.Context) (int64, error)

	// ExecuteKw invokes a model method with positional args and keyword args.
	ExecuteKw(ctx context.Context, uid int64, model, method string, args []any, kwargs map[string]any) (any, error)

	// SearchRead runs a search_read on a model, returning the selected
	// fields of every matching record.
	SearchRead(ctx context.Context, uid int64, model string, filter []any, fields []string) ([]map[string]any, error)
}

// ERPClientFactory creates ERP clients from connection parameters.
// Keeping construction behind a port lets services be tested against
// fake ERP backends.
type ERPClientFactory interface {
	New(params domain.ConnectionParams) ERPClient
}
