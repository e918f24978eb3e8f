package store

import (
	"sync"

	"go-autoindex/internal/model"
)

// ListingStore accumulates crawled directories in completion order.
type ListingStore struct {
	listings []model.DirectoryListing
	mu       sync.RWMutex
}

func NewListingStore() *ListingStore {
	return &ListingStore{}
}

func (s *ListingStore) CreateListing(listing model.DirectoryListing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listings = append(s.listings, listing)
	return nil
}

// List returns a copy of the stored listings.
func (s *ListingStore) List() model.MatchedSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(model.MatchedSet, len(s.listings))
	copy(out, s.listings)
	return out
}

func (s *ListingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listings)
}
