package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/karlseguin/ccache/v3"
	"github.com/redis/go-redis/v9"

	"estate/internal/model"
	"estate/internal/repository"
)

// MaskChar replaces the hidden digits of a contact number
const MaskChar = "X"

var (
	// ErrRevealNotAllowed is returned when the caller's role may not reveal contacts
	ErrRevealNotAllowed = errors.New("contact reveal not allowed for this role")
	// ErrMissingSession is returned when a reveal is attempted without a session
	ErrMissingSession = errors.New("contact reveal requires a session")
)

// Mask keeps the first two and last two characters and hides the rest.
// Inputs shorter than four characters are returned unchanged.
func Mask(contact string) string {
	if len(contact) < 4 {
		return contact
	}
	return contact[:2] + strings.Repeat(MaskChar, len(contact)-4) + contact[len(contact)-2:]
}

// MaskListing returns a view of l with the contact number masked
func MaskListing(l model.Listing, reasons []string) model.ListingView {
	l.ContactNumber = Mask(l.ContactNumber)
	return model.ListingView{Listing: l, MatchedReasons: reasons}
}

// RevealLedger remembers which (session, listing) pairs were already disclosed
type RevealLedger interface {
	// MarkRevealed records the pair and reports whether it was recorded for the first time
	MarkRevealed(ctx context.Context, sessionID string, listingID int64) (bool, error)
}

func ledgerKey(sessionID string, listingID int64) string {
	return fmt.Sprintf("reveal:%s:%d", sessionID, listingID)
}

// MemoryLedger keeps reveal marks in a local ccache
type MemoryLedger struct {
	mu    sync.Mutex
	cache *ccache.Cache[time.Time]
	ttl   time.Duration
}

// NewMemoryLedger creates a process-local ledger; marks expire after ttl
func NewMemoryLedger(maxSize int64, ttl time.Duration) *MemoryLedger {
	return &MemoryLedger{
		cache: ccache.New(ccache.Configure[time.Time]().MaxSize(maxSize)),
		ttl:   ttl,
	}
}

// MarkRevealed implements RevealLedger
func (m *MemoryLedger) MarkRevealed(_ context.Context, sessionID string, listingID int64) (bool, error) {
	key := ledgerKey(sessionID, listingID)

	m.mu.Lock()
	defer m.mu.Unlock()

	if item := m.cache.Get(key); item != nil && !item.Expired() {
		return false, nil
	}
	m.cache.Set(key, time.Now(), m.ttl)
	return true, nil
}

// Stop releases the ledger's background worker
func (m *MemoryLedger) Stop() {
	m.cache.Stop()
}

// RedisLedger keeps reveal marks in Redis so every instance shares them
type RedisLedger struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisLedger creates a ledger backed by rdb
func NewRedisLedger(rdb *redis.Client, ttl time.Duration) *RedisLedger {
	return &RedisLedger{rdb: rdb, ttl: ttl}
}

// MarkRevealed implements RevealLedger with SETNX
func (r *RedisLedger) MarkRevealed(ctx context.Context, sessionID string, listingID int64) (bool, error) {
	ok, err := r.rdb.SetNX(ctx, ledgerKey(sessionID, listingID), time.Now().Unix(), r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

// DisclosureGate performs authorised full contact reveals
type DisclosureGate struct {
	store   repository.ListingStore
	ledger  RevealLedger
	auditor Auditor
	now     func() time.Time
}

// NewDisclosureGate wires the gate to its collaborators
func NewDisclosureGate(store repository.ListingStore, ledger RevealLedger, auditor Auditor) *DisclosureGate {
	return &DisclosureGate{store: store, ledger: ledger, auditor: auditor, now: time.Now}
}

// Reveal returns the full contact number of a listing visible to the caller.
// Only the first reveal per (session, listing) discloses the number and is
// forwarded to the auditor. Repeats get the masked number.
func (g *DisclosureGate) Reveal(ctx context.Context, caller model.Caller, listingID int64) (*model.RevealResponse, error) {
	if !caller.CanReveal() {
		return nil, ErrRevealNotAllowed
	}
	if caller.SessionID == "" {
		return nil, ErrMissingSession
	}

	listing, err := g.store.GetActiveListing(ctx, caller.Scope(), listingID)
	if err != nil {
		return nil, err
	}

	first, err := g.ledger.MarkRevealed(ctx, caller.SessionID, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to record reveal: %w", err)
	}

	if first {
		log.Printf("🔓 Contact revealed: listing=%d user=%d role=%s", listingID, caller.UserID, caller.Role)
		g.auditor.Dispatch(model.ContactDisclosed{
			UserID:     caller.UserID,
			Email:      caller.Email,
			Role:       caller.Role,
			SessionID:  caller.SessionID,
			ListingID:  listingID,
			RevealedAt: g.now().UTC(),
		})
	}

	contact := listing.ContactNumber
	if !first {
		contact = Mask(contact)
	}
	return &model.RevealResponse{
		ListingID:       listingID,
		ContactNumber:   contact,
		AlreadyRevealed: !first,
	}, nil
}
