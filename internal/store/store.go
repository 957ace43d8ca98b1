package store

import (
	"context"
	"sync"
)

// ArtistID is a cached identity-graph resolution for one catalog artist.
type ArtistID struct {
	MBID string
	Name string
}

// MBIDStore is the keyed lookup store the resolver consults before going to
// the network. Internals are adapter business; the pipeline only sees this.
type MBIDStore interface {
	// Get returns the cached identity for a catalog artist ID, nil on miss.
	Get(ctx context.Context, catalogID string) (*ArtistID, error)
	Put(ctx context.Context, catalogID string, id ArtistID) error
}

//
// ========================================================================
// In-memory adapter
// ========================================================================
//

type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]ArtistID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]ArtistID)}
}

func (s *MemoryStore) Get(_ context.Context, catalogID string) (*ArtistID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.m[catalogID]; ok {
		return &id, nil
	}
	return nil, nil
}

func (s *MemoryStore) Put(_ context.Context, catalogID string, id ArtistID) error {
	s.mu.Lock()
	s.m[catalogID] = id
	s.mu.Unlock()
	return nil
}
