package repository

import (
	"context"
	"sort"

	"estate/internal/model"
)

// MemoryStore serves a fixed listing corpus, used by the CLI and tests
type MemoryStore struct {
	listings []model.Listing
}

// NewMemoryStore copies listings into a new store
func NewMemoryStore(listings []model.Listing) *MemoryStore {
	out := make([]model.Listing, len(listings))
	copy(out, listings)
	for i := range out {
		out[i].Normalize()
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return &MemoryStore{listings: out}
}

// FetchActiveListings implements ListingStore
func (s *MemoryStore) FetchActiveListings(_ context.Context, scope model.VisibilityScope) ([]model.Listing, error) {
	out := []model.Listing{}
	for i := range s.listings {
		if scope.Allows(&s.listings[i]) {
			out = append(out, s.listings[i])
		}
	}
	return out, nil
}

// GetActiveListing implements ListingStore
func (s *MemoryStore) GetActiveListing(_ context.Context, scope model.VisibilityScope, id int64) (*model.Listing, error) {
	for i := range s.listings {
		if s.listings[i].ID == id && scope.Allows(&s.listings[i]) {
			l := s.listings[i]
			return &l, nil
		}
	}
	return nil, ErrListingNotFound
}
