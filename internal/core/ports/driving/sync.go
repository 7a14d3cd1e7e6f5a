package driving

import (
	"context"

	"github.com/andina-labs/cierre-core/internal/core/domain"
)

// SyncOrchestrator coordinates daily closing synchronization
type SyncOrchestrator interface {
	// SyncConnection pulls and persists the closing summaries of one
	// connection for the given date ("2006-01-02"). An empty date means
	// today in the engine's configured timezone.
	SyncConnection(ctx context.Context, connectionID, date string) (*domain.SyncResult, error)

	// SyncAll syncs every enabled connection for the given date. A
	// failure on one connection does not stop the others.
	SyncAll(ctx context.Context, date string) ([]*domain.SyncResult, error)
}

// Scheduler manages the periodic nightly sync
type Scheduler interface {
	// Start begins the sync scheduler
	Start(ctx context.Context) error

	// Stop stops the sync scheduler
	Stop(ctx context.Context) error
}
