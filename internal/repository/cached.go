package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/karlseguin/ccache/v3"

	"estate/internal/model"
)

// MemcacheClient is the subset of *memcache.Client the cache needs
type MemcacheClient interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
}

// CachedStore puts a two-level snapshot cache in front of a ListingStore:
// a process-local ccache, then an optional shared memcached. Snapshots are
// keyed by visibility scope and are shared read-only between queries.
type CachedStore struct {
	next     ListingStore
	local    *ccache.Cache[[]model.Listing]
	localTTL time.Duration
	memcache MemcacheClient
	mcTTL    time.Duration
}

// NewCachedStore wraps next. mc may be nil to run with the local level only.
func NewCachedStore(next ListingStore, maxSize int64, localTTL time.Duration, mc MemcacheClient, mcTTL time.Duration) *CachedStore {
	return &CachedStore{
		next:     next,
		local:    ccache.New(ccache.Configure[[]model.Listing]().MaxSize(maxSize)),
		localTTL: localTTL,
		memcache: mc,
		mcTTL:    mcTTL,
	}
}

// NewMemcacheClient connects to the given memcached hosts
func NewMemcacheClient(hosts ...string) *memcache.Client {
	client := memcache.New(hosts...)
	client.Timeout = 200 * time.Millisecond
	log.Printf("Cache repository initialized with Memcached at %v", hosts)
	return client
}

func snapshotKey(scope model.VisibilityScope) string {
	return "estate:listings:" + scope.Key()
}

// FetchActiveListings implements ListingStore
func (c *CachedStore) FetchActiveListings(ctx context.Context, scope model.VisibilityScope) ([]model.Listing, error) {
	key := snapshotKey(scope)

	// 1. Local cache first
	if item := c.local.Get(key); item != nil && !item.Expired() {
		return item.Value(), nil
	}

	// 2. Then memcached
	if c.memcache != nil {
		if listings, ok := c.getRemote(key); ok {
			c.local.Set(key, listings, c.localTTL)
			return listings, nil
		}
	}

	// 3. Finally the backing store
	listings, err := c.next.FetchActiveListings(ctx, scope)
	if err != nil {
		return nil, err
	}

	c.local.Set(key, listings, c.localTTL)
	if c.memcache != nil {
		c.setRemote(key, listings)
	}
	return listings, nil
}

// GetActiveListing implements ListingStore. Single reads bypass the cache so
// reveals always see the current record.
func (c *CachedStore) GetActiveListing(ctx context.Context, scope model.VisibilityScope, id int64) (*model.Listing, error) {
	return c.next.GetActiveListing(ctx, scope, id)
}

// Stop releases the local cache's background worker
func (c *CachedStore) Stop() {
	c.local.Stop()
}

func (c *CachedStore) getRemote(key string) ([]model.Listing, bool) {
	item, err := c.memcache.Get(key)
	if err != nil {
		if !errors.Is(err, memcache.ErrCacheMiss) {
			log.Printf("Error getting from Memcached: key=%s, error=%v", key, err)
		}
		return nil, false
	}

	var listings []model.Listing
	if err := json.Unmarshal(item.Value, &listings); err != nil {
		log.Printf("Error unmarshaling cache data from Memcached: key=%s, error=%v", key, err)
		return nil, false
	}
	return listings, true
}

func (c *CachedStore) setRemote(key string, listings []model.Listing) {
	data, err := json.Marshal(listings)
	if err != nil {
		log.Printf("Error marshaling cache data for Memcached: key=%s, error=%v", key, err)
		return
	}
	err = c.memcache.Set(&memcache.Item{
		Key:        key,
		Value:      data,
		Expiration: int32(c.mcTTL / time.Second),
	})
	if err != nil {
		log.Printf("Error setting cache in Memcached: key=%s, error=%v", key, err)
	}
}
