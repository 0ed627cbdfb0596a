/*
Package cache implements the optimistic cache: provisional ledger state the
UI can read with zero latency while the real mutation is in flight.

PURPOSE:
  The arena is an explicit key-value store of (query key -> {data, status})
  scoped to one authenticated user. Mutations run through a small state
  machine (arena.go + mutation.go): snapshot at dispatch, provisional apply,
  then commit on server success or rollback on failure. The coordinator
  (coordinator.go) wraps the two ledgers with this machinery and classifies
  failures for the UI.

KEY CONCEPTS IN THIS FILE (arena.go):
  - Key: a query identity ("collection/u1", "in-wishlist/u1/base1-4", ...)
  - Status: Fresh (serve from cache) vs Stale (refetch on next read)
  - per-key version counters: how rollback detects that a sibling mutation
    has since rewritten a key (see mutation.go)

OWNERSHIP:
  An arena belongs to one user session and is never shared across users.
  Switching users must go through Reset, which drops every cached view.

SEE ALSO:
  - mutation.go: snapshot/apply/commit/rollback per mutation instance
  - coordinator.go: ledger mutations wrapped in this machinery
*/
package cache

import (
	"sync"

	"github.com/ashir876/Catch-Collect-sub001/catalog"
)

// =============================================================================
// KEYS
// =============================================================================

// Key identifies one cached query result.
type Key string

func CollectionKey(u catalog.UserID) Key { return Key("collection/" + u) }
func WishlistKey(u catalog.UserID) Key   { return Key("wishlist/" + u) }

func CollectionCountKey(u catalog.UserID) Key { return Key("collection-count/" + u) }
func WishlistCountKey(u catalog.UserID) Key   { return Key("wishlist-count/" + u) }

func InCollectionKey(u catalog.UserID, c catalog.CardID) Key {
	return Key("in-collection/" + string(u) + "/" + string(c))
}
func InWishlistKey(u catalog.UserID, c catalog.CardID) Key {
	return Key("in-wishlist/" + string(u) + "/" + string(c))
}

func ProgressKey(u catalog.UserID) Key { return Key("progress/" + u) }
func ValueKey(u catalog.UserID) Key    { return Key("value/" + u) }

// =============================================================================
// STATUS
// =============================================================================

type Status int

const (
	// StatusFresh means the cached data can be served as-is.
	StatusFresh Status = iota

	// StatusStale means the data must be refetched before the next read;
	// a confirmed mutation invalidates every derived view this way. The
	// provisional write is a latency hedge, not the source of truth.
	StatusStale
)

// =============================================================================
// ARENA - Per-user cached query results
// =============================================================================

type slot struct {
	data    any
	status  Status
	version uint64
}

// Arena holds the cached query results for one user session.
type Arena struct {
	mu     sync.Mutex
	userID catalog.UserID
	slots  map[Key]slot
}

func NewArena(userID catalog.UserID) *Arena {
	return &Arena{userID: userID, slots: make(map[Key]slot)}
}

// UserID returns the user this arena is scoped to.
func (a *Arena) UserID() catalog.UserID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userID
}

// Get returns the cached data and status for key. ok is false when the key
// has never been populated.
func (a *Arena) Get(key Key) (data any, status Status, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.slots[key]
	if !ok {
		return nil, StatusStale, false
	}
	return s.data, s.status, true
}

// Put stores fresh data for key.
func (a *Arena) Put(key Key, data any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.putLocked(key, data, StatusFresh)
}

// Invalidate marks keys stale without dropping their data; readers may show
// the stale value while a refetch is underway.
func (a *Arena) Invalidate(keys ...Key) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, key := range keys {
		if s, ok := a.slots[key]; ok {
			s.status = StatusStale
			s.version++
			a.slots[key] = s
		}
	}
}

// Reset drops every cached view and rebinds the arena to a user. Called on
// login, logout, and user switch so no data leaks across identities.
func (a *Arena) Reset(userID catalog.UserID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userID = userID
	a.slots = make(map[Key]slot)
}

func (a *Arena) putLocked(key Key, data any, status Status) uint64 {
	s := a.slots[key]
	s.data = data
	s.status = status
	s.version++
	a.slots[key] = s
	return s.version
}
