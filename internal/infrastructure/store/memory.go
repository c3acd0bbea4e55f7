package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/amo-server/internal/domain/realtime"
)

var (
	// ErrLeaseNotFound is returned when a lease is not found.
	ErrLeaseNotFound = errors.New("lease not found")
	// ErrLeaseAlreadyExists is returned when trying to save a lease ID twice.
	ErrLeaseAlreadyExists = errors.New("lease already exists")
)

// MemoryStore is a mutex-based in-memory lease store.
type MemoryStore struct {
	mu     sync.RWMutex
	leases map[string]*realtime.Lease
	log    zerolog.Logger
}

// NewMemoryStore creates a new in-memory lease store.
func NewMemoryStore(log zerolog.Logger) *MemoryStore {
	return &MemoryStore{
		leases: make(map[string]*realtime.Lease),
		log:    log.With().Str("component", "lease-store").Logger(),
	}
}

// Save stores a new lease.
func (s *MemoryStore) Save(ctx context.Context, lease *realtime.Lease) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.leases[lease.ID]; exists {
		return ErrLeaseAlreadyExists
	}
	cp := *lease
	s.leases[lease.ID] = &cp
	return nil
}

// Get retrieves a lease by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*realtime.Lease, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lease, ok := s.leases[id]
	if !ok {
		return nil, ErrLeaseNotFound
	}
	cp := *lease
	return &cp, nil
}

// List returns all leases ordered by creation time.
func (s *MemoryStore) List(ctx context.Context) ([]*realtime.Lease, error) {
	s.mu.RLock()
	result := make([]*realtime.Lease, 0, len(s.leases))
	for _, lease := range s.leases {
		cp := *lease
		result = append(result, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// DeleteExpired removes every lease expired at now.
func (s *MemoryStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, lease := range s.leases {
		if lease.Expired(now) {
			delete(s.leases, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored leases.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leases)
}
