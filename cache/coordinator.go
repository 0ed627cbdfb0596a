/*
coordinator.go - Optimistic wrapper around the ledger mutations

PURPOSE:
  The Coordinator is what UI event handlers call. Every mutation:
    1. fails fast when no user is signed in (no store call issued)
    2. snapshots the affected cached views at its own dispatch time
    3. applies a provisional result synchronously (zero-latency UI)
    4. dispatches the real ledger mutation
    5. commits (invalidate derived views) or rolls back (restore snapshot)
  Errors are never swallowed: they are classified and returned for the UI
  to surface.

SAME-KEY SERIALIZATION:
  The wishlist duplicate check is read-then-write and the store's unique
  constraint is the backstop; on top of both, the coordinator serializes
  mutations for the same (user, card) through a keyed lock so two adds from
  the same session cannot interleave at all. Mutations for different cards
  run unserialized and may complete in either order.

READS:
  Reads are cache-through: a Fresh view is served from the arena, anything
  else is refetched from the ledgers and cached.

SEE ALSO:
  - mutation.go: the snapshot/apply/commit/rollback machinery
  - collection/: the ledgers being wrapped
*/
package cache

import (
	"context"
	"errors"
	"sync"

	"github.com/ashir876/Catch-Collect-sub001/catalog"
	"github.com/ashir876/Catch-Collect-sub001/collection"
	"github.com/ashir876/Catch-Collect-sub001/progress"
)

// =============================================================================
// FAILURE CLASSIFICATION
// =============================================================================

type FailureReason string

const (
	ReasonDuplicate        FailureReason = "duplicate"
	ReasonNotAuthenticated FailureReason = "not_authenticated"
	ReasonNotFound         FailureReason = "not_found"
	ReasonSchema           FailureReason = "schema"
	ReasonGeneric          FailureReason = "generic"
)

// Classify maps a ledger error to the reason shown to the user.
func Classify(err error) FailureReason {
	switch {
	case errors.Is(err, catalog.ErrDuplicateWishlistEntry):
		return ReasonDuplicate
	case errors.Is(err, catalog.ErrNotAuthenticated):
		return ReasonNotAuthenticated
	case catalog.IsNotFound(err):
		return ReasonNotFound
	case errors.Is(err, catalog.ErrSchemaMismatch):
		return ReasonSchema
	default:
		return ReasonGeneric
	}
}

// UserMessage renders a classified, user-readable message for an error.
func UserMessage(err error) string {
	switch Classify(err) {
	case ReasonDuplicate:
		return "This card is already in your wishlist."
	case ReasonNotAuthenticated:
		return "Please sign in first."
	case ReasonNotFound:
		return "This card is unavailable."
	case ReasonSchema:
		return "Something went wrong saving your change (storage schema problem)."
	default:
		return "Something went wrong. Please try again."
	}
}

// =============================================================================
// COORDINATOR
// =============================================================================

// Coordinator drives optimistic mutations for one user session.
type Coordinator struct {
	arena      *Arena
	ownership  *collection.OwnershipLedger
	wishlist   *collection.WishlistLedger
	reconciler *progress.Reconciler

	locks keyedLocks
}

func NewCoordinator(userID catalog.UserID, ownership *collection.OwnershipLedger, wishlist *collection.WishlistLedger, reconciler *progress.Reconciler) *Coordinator {
	return &Coordinator{
		arena:      NewArena(userID),
		ownership:  ownership,
		wishlist:   wishlist,
		reconciler: reconciler,
	}
}

// Arena exposes the underlying cache, mainly for tests and session teardown.
func (c *Coordinator) Arena() *Arena { return c.arena }

// Logout drops every cached view for the session.
func (c *Coordinator) Logout() { c.arena.Reset("") }

// =============================================================================
// COLLECTION MUTATIONS
// =============================================================================

// AddToCollection optimistically adds a card to the collection.
func (c *Coordinator) AddToCollection(ctx context.Context, in collection.AddOwnershipInput) (*catalog.OwnershipEntry, error) {
	userID := c.arena.UserID()
	if userID == "" {
		return nil, catalog.ErrNotAuthenticated
	}
	defer c.locks.acquire(string(userID) + "/" + string(in.CardID))()

	listKey := CollectionKey(userID)
	boolKey := InCollectionKey(userID, in.CardID)
	countKey := CollectionCountKey(userID)

	m := c.arena.Begin(listKey, boolKey, countKey)

	// Provisional writes only touch views that are already cached; there is
	// nothing to hedge for a view nobody has loaded yet.
	provisional := catalog.OwnershipEntry{
		ID:       "pending",
		UserID:   userID,
		CardID:   in.CardID,
		Language: in.Language,
		Quantity: 1,
	}
	if _, _, ok := c.arena.Get(listKey); ok {
		m.Apply(listKey, func(old any, _ bool) any {
			entries, _ := old.([]catalog.OwnershipEntry)
			return append([]catalog.OwnershipEntry{provisional}, entries...)
		})
	}
	m.Apply(boolKey, func(any, bool) any { return true })
	if _, _, ok := c.arena.Get(countKey); ok {
		m.Apply(countKey, func(old any, _ bool) any {
			n, _ := old.(int)
			return n + 1
		})
	}

	entry, err := c.ownership.Add(ctx, userID, in)
	if err != nil {
		m.Rollback()
		return nil, err
	}
	m.Commit(listKey, boolKey, countKey, ProgressKey(userID), ValueKey(userID))
	return entry, nil
}

// RemoveFromCollection optimistically removes a card (all language copies).
func (c *Coordinator) RemoveFromCollection(ctx context.Context, cardID catalog.CardID) error {
	userID := c.arena.UserID()
	if userID == "" {
		return catalog.ErrNotAuthenticated
	}
	defer c.locks.acquire(string(userID) + "/" + string(cardID))()

	listKey := CollectionKey(userID)
	boolKey := InCollectionKey(userID, cardID)
	countKey := CollectionCountKey(userID)

	m := c.arena.Begin(listKey, boolKey, countKey)

	removed := 0
	if _, _, ok := c.arena.Get(listKey); ok {
		m.Apply(listKey, func(old any, _ bool) any {
			entries, _ := old.([]catalog.OwnershipEntry)
			kept := make([]catalog.OwnershipEntry, 0, len(entries))
			for _, e := range entries {
				if e.CardID == cardID {
					removed++
					continue
				}
				kept = append(kept, e)
			}
			return kept
		})
	}
	m.Apply(boolKey, func(any, bool) any { return false })
	if _, _, ok := c.arena.Get(countKey); ok {
		m.Apply(countKey, func(old any, _ bool) any {
			n, _ := old.(int)
			if n-removed < 0 {
				return 0
			}
			return n - removed
		})
	}

	if err := c.ownership.Remove(ctx, userID, cardID); err != nil {
		m.Rollback()
		return err
	}
	m.Commit(listKey, boolKey, countKey, ProgressKey(userID), ValueKey(userID))
	return nil
}

// EditCollection applies a partial update; the provisional state mirrors the
// edit onto any cached list.
func (c *Coordinator) EditCollection(ctx context.Context, cardID catalog.CardID, in collection.EditOwnershipInput) (*catalog.OwnershipEntry, error) {
	userID := c.arena.UserID()
	if userID == "" {
		return nil, catalog.ErrNotAuthenticated
	}
	defer c.locks.acquire(string(userID) + "/" + string(cardID))()

	listKey := CollectionKey(userID)
	m := c.arena.Begin(listKey)

	if _, _, ok := c.arena.Get(listKey); ok {
		m.Apply(listKey, func(old any, _ bool) any {
			entries, _ := old.([]catalog.OwnershipEntry)
			out := append([]catalog.OwnershipEntry{}, entries...)
			for i := range out {
				if out[i].CardID != cardID {
					continue
				}
				if in.Condition != nil {
					out[i].Condition = *in.Condition
				}
				if in.Price != nil {
					out[i].Price = in.Price
				}
				if in.Notes != nil {
					out[i].Notes = *in.Notes
				}
				if in.Quantity != nil && *in.Quantity >= 1 {
					out[i].Quantity = *in.Quantity
				}
			}
			return out
		})
	}

	entry, err := c.ownership.Edit(ctx, userID, cardID, in)
	if err != nil {
		m.Rollback()
		return nil, err
	}
	m.Commit(listKey, ValueKey(userID))
	return entry, nil
}

// =============================================================================
// WISHLIST MUTATIONS
// =============================================================================

// AddToWishlist optimistically adds a card to the wishlist.
func (c *Coordinator) AddToWishlist(ctx context.Context, in collection.AddWishlistInput) (*catalog.WishlistEntry, error) {
	userID := c.arena.UserID()
	if userID == "" {
		return nil, catalog.ErrNotAuthenticated
	}
	defer c.locks.acquire(string(userID) + "/" + string(in.CardID))()

	listKey := WishlistKey(userID)
	boolKey := InWishlistKey(userID, in.CardID)
	countKey := WishlistCountKey(userID)

	m := c.arena.Begin(listKey, boolKey, countKey)

	provisional := catalog.WishlistEntry{
		ID:       "pending",
		UserID:   userID,
		CardID:   in.CardID,
		Language: in.Language,
		Priority: catalog.PriorityMedium,
	}
	if in.Priority != nil && in.Priority.Valid() {
		provisional.Priority = *in.Priority
	}
	if _, _, ok := c.arena.Get(listKey); ok {
		m.Apply(listKey, func(old any, _ bool) any {
			entries, _ := old.([]catalog.WishlistEntry)
			return append([]catalog.WishlistEntry{provisional}, entries...)
		})
	}
	m.Apply(boolKey, func(any, bool) any { return true })
	if _, _, ok := c.arena.Get(countKey); ok {
		m.Apply(countKey, func(old any, _ bool) any {
			n, _ := old.(int)
			return n + 1
		})
	}

	entry, err := c.wishlist.Add(ctx, userID, in)
	if err != nil {
		m.Rollback()
		return nil, err
	}
	m.Commit(listKey, boolKey, countKey, ProgressKey(userID))
	return entry, nil
}

// RemoveFromWishlist optimistically removes a card from the wishlist.
func (c *Coordinator) RemoveFromWishlist(ctx context.Context, cardID catalog.CardID) error {
	userID := c.arena.UserID()
	if userID == "" {
		return catalog.ErrNotAuthenticated
	}
	defer c.locks.acquire(string(userID) + "/" + string(cardID))()

	listKey := WishlistKey(userID)
	boolKey := InWishlistKey(userID, cardID)
	countKey := WishlistCountKey(userID)

	m := c.arena.Begin(listKey, boolKey, countKey)

	if _, _, ok := c.arena.Get(listKey); ok {
		m.Apply(listKey, func(old any, _ bool) any {
			entries, _ := old.([]catalog.WishlistEntry)
			kept := make([]catalog.WishlistEntry, 0, len(entries))
			for _, e := range entries {
				if e.CardID != cardID {
					kept = append(kept, e)
				}
			}
			return kept
		})
	}
	m.Apply(boolKey, func(any, bool) any { return false })
	if _, _, ok := c.arena.Get(countKey); ok {
		m.Apply(countKey, func(old any, _ bool) any {
			n, _ := old.(int)
			if n <= 0 {
				return 0
			}
			return n - 1
		})
	}

	if err := c.wishlist.Remove(ctx, userID, cardID); err != nil {
		m.Rollback()
		return err
	}
	m.Commit(listKey, boolKey, countKey, ProgressKey(userID))
	return nil
}

// EditWishlist applies a partial update addressed by entry id.
func (c *Coordinator) EditWishlist(ctx context.Context, entryID catalog.EntryID, in collection.EditWishlistInput) (*catalog.WishlistEntry, error) {
	userID := c.arena.UserID()
	if userID == "" {
		return nil, catalog.ErrNotAuthenticated
	}

	listKey := WishlistKey(userID)
	m := c.arena.Begin(listKey)

	if _, _, ok := c.arena.Get(listKey); ok {
		m.Apply(listKey, func(old any, _ bool) any {
			entries, _ := old.([]catalog.WishlistEntry)
			out := append([]catalog.WishlistEntry{}, entries...)
			for i := range out {
				if out[i].ID != entryID {
					continue
				}
				if in.Priority != nil && in.Priority.Valid() {
					out[i].Priority = *in.Priority
				}
				if in.DesiredPrice != nil {
					out[i].DesiredPrice = in.DesiredPrice
				}
				if in.Notes != nil {
					out[i].Notes = *in.Notes
				}
			}
			return out
		})
	}

	entry, err := c.wishlist.Edit(ctx, userID, entryID, in)
	if err != nil {
		m.Rollback()
		return nil, err
	}
	m.Commit(listKey)
	return entry, nil
}

// =============================================================================
// CACHE-THROUGH READS
// =============================================================================

// Collection returns the user's collection, served from cache when fresh.
func (c *Coordinator) Collection(ctx context.Context) ([]catalog.OwnershipEntry, error) {
	userID := c.arena.UserID()
	key := CollectionKey(userID)
	if data, status, ok := c.arena.Get(key); ok && status == StatusFresh {
		entries, _ := data.([]catalog.OwnershipEntry)
		return entries, nil
	}
	entries, err := c.ownership.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.arena.Put(key, entries)
	return entries, nil
}

// Wishlist returns the user's wishlist, served from cache when fresh.
func (c *Coordinator) Wishlist(ctx context.Context) ([]catalog.WishlistEntry, error) {
	userID := c.arena.UserID()
	key := WishlistKey(userID)
	if data, status, ok := c.arena.Get(key); ok && status == StatusFresh {
		entries, _ := data.([]catalog.WishlistEntry)
		return entries, nil
	}
	entries, err := c.wishlist.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.arena.Put(key, entries)
	return entries, nil
}

// CollectionCount returns the ownership row count for badges, cache-through.
func (c *Coordinator) CollectionCount(ctx context.Context) (int, error) {
	userID := c.arena.UserID()
	key := CollectionCountKey(userID)
	if data, status, ok := c.arena.Get(key); ok && status == StatusFresh {
		n, _ := data.(int)
		return n, nil
	}
	n, err := c.ownership.Count(ctx, userID)
	if err != nil {
		return 0, err
	}
	c.arena.Put(key, n)
	return n, nil
}

// WishlistCount returns the wishlist row count for badges, cache-through.
func (c *Coordinator) WishlistCount(ctx context.Context) (int, error) {
	userID := c.arena.UserID()
	key := WishlistCountKey(userID)
	if data, status, ok := c.arena.Get(key); ok && status == StatusFresh {
		n, _ := data.(int)
		return n, nil
	}
	n, err := c.wishlist.Count(ctx, userID)
	if err != nil {
		return 0, err
	}
	c.arena.Put(key, n)
	return n, nil
}

// Owns answers the per-card "in collection" check, cache-through.
func (c *Coordinator) Owns(ctx context.Context, cardID catalog.CardID) (bool, error) {
	userID := c.arena.UserID()
	key := InCollectionKey(userID, cardID)
	if data, status, ok := c.arena.Get(key); ok && status == StatusFresh {
		owns, _ := data.(bool)
		return owns, nil
	}
	owns, err := c.ownership.Owns(ctx, userID, cardID)
	if err != nil {
		return false, err
	}
	c.arena.Put(key, owns)
	return owns, nil
}

// Wants answers the per-card "in wishlist" check, cache-through.
func (c *Coordinator) Wants(ctx context.Context, cardID catalog.CardID) (bool, error) {
	userID := c.arena.UserID()
	key := InWishlistKey(userID, cardID)
	if data, status, ok := c.arena.Get(key); ok && status == StatusFresh {
		wants, _ := data.(bool)
		return wants, nil
	}
	wants, err := c.wishlist.Wants(ctx, userID, cardID)
	if err != nil {
		return false, err
	}
	c.arena.Put(key, wants)
	return wants, nil
}

// Progress returns set completion for the user, cache-through. Reconciler
// errors propagate unchanged; there is no partial-result mode.
func (c *Coordinator) Progress(ctx context.Context) ([]progress.SetProgress, error) {
	userID := c.arena.UserID()
	key := ProgressKey(userID)
	if data, status, ok := c.arena.Get(key); ok && status == StatusFresh {
		results, _ := data.([]progress.SetProgress)
		return results, nil
	}
	results, err := c.reconciler.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.arena.Put(key, results)
	return results, nil
}

// Value returns the collection value summary, cache-through.
func (c *Coordinator) Value(ctx context.Context) (collection.ValueSummary, error) {
	userID := c.arena.UserID()
	key := ValueKey(userID)
	if data, status, ok := c.arena.Get(key); ok && status == StatusFresh {
		summary, _ := data.(collection.ValueSummary)
		return summary, nil
	}
	entries, err := c.Collection(ctx)
	if err != nil {
		return collection.ValueSummary{}, err
	}
	summary := collection.SummarizeOwnership(entries)
	c.arena.Put(key, summary)
	return summary, nil
}

// =============================================================================
// KEYED LOCKS - Serialize same-(user, card) mutations
// =============================================================================

// keyedLocks hands out one mutex per key. Entries are retained for the life
// of the session; the key space is bounded by the cards a user touches.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedLocks) acquire(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
