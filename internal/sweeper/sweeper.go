// Package sweeper runs background maintenance over the ledger database.
package sweeper

import (
	"context"
)

// Sweeper is a background maintenance loop
type Sweeper interface {
	// Start sweeps until ctx is canceled or Stop is called
	Start(ctx context.Context) error

	// Stop signals the loop and waits for the page in progress, bounded by ctx
	Stop(ctx context.Context) error

	// Name identifies the sweeper in logs
	Name() string
}
