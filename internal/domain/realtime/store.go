package realtime

import (
	"context"
	"time"
)

// LeaseStore holds issued-credential bookkeeping.
// Storage only: expiry sweeps live in the janitor.
type LeaseStore interface {
	// Save records a new lease.
	Save(ctx context.Context, lease *Lease) error

	// Get retrieves a lease by ID.
	Get(ctx context.Context, id string) (*Lease, error)

	// List returns all leases, oldest first.
	List(ctx context.Context) ([]*Lease, error)

	// DeleteExpired removes leases expired at now and returns how many.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
