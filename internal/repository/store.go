package repository

import (
	"context"
	"errors"

	"estate/internal/model"
)

// ErrListingNotFound is returned when a listing does not exist, is inactive,
// or lies outside the caller's visibility scope
var ErrListingNotFound = errors.New("listing not found")

// ListingStore is read-only access to active listings, pre-scoped to a caller
type ListingStore interface {
	// FetchActiveListings returns every active listing visible in scope, ordered by ID
	FetchActiveListings(ctx context.Context, scope model.VisibilityScope) ([]model.Listing, error)
	// GetActiveListing returns one active listing visible in scope
	GetActiveListing(ctx context.Context, scope model.VisibilityScope, id int64) (*model.Listing, error)
}
