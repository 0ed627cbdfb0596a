package cache_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashir876/Catch-Collect-sub001/cache"
	"github.com/ashir876/Catch-Collect-sub001/catalog"
	"github.com/ashir876/Catch-Collect-sub001/collection"
	"github.com/ashir876/Catch-Collect-sub001/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestCoordinator(t *testing.T) (*cache.Coordinator, *memory.Store) {
	t.Helper()
	store := memory.New()
	ownership := collection.NewOwnershipLedger(store, store)
	wishlist := collection.NewWishlistLedger(store, store)
	manager := cache.NewManager(ownership, wishlist, nil)
	return manager.For("user-1"), store
}

func mustDec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedCharizard(store *memory.Store) {
	store.AddCard(catalog.CardRecord{
		CardID:   "base1-4",
		Language: "en",
		SetID:    "base1",
		Name:     "Charizard",
		Rarity:   "Rare Holo",
	})
}

// =============================================================================
// OPTIMISTIC MUTATION TESTS
// =============================================================================

func TestCoordinator_AddToWishlist_FailureRestoresCachedList(t *testing.T) {
	// GIVEN: A wishlist of 1 entry, loaded into the cache, and a duplicate add
	// WHEN: The add fails at the store
	// THEN: The cached list shows exactly the 1 pre-dispatch entry again

	c, store := newTestCoordinator(t)
	ctx := context.Background()
	seedCharizard(store)

	_, err := c.AddToWishlist(ctx, collection.AddWishlistInput{CardID: "base1-4"})
	require.NoError(t, err)

	// Load the list into the cache.
	entries, err := c.Wishlist(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Duplicate add: provisional apply, then store rejection, then rollback.
	_, err = c.AddToWishlist(ctx, collection.AddWishlistInput{CardID: "base1-4"})
	require.ErrorIs(t, err, catalog.ErrDuplicateWishlistEntry)

	entries, err = c.Wishlist(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "rolled-back list must match pre-dispatch state")
	assert.NotEqual(t, catalog.EntryID("pending"), entries[0].ID)
}

// failingDeleteStore rejects ownership deletes, everything else passes through.
type failingDeleteStore struct {
	*memory.Store
}

func (f *failingDeleteStore) DeleteOwnership(context.Context, catalog.UserID, catalog.CardID) (int, error) {
	return 0, &catalog.PersistenceError{Op: "delete ownership", Err: assert.AnError}
}

func TestCoordinator_RemoveFromCollection_RejectedByStore_RestoresList(t *testing.T) {
	// GIVEN: A cached ownership list of length 2 and a store that rejects
	//        the delete
	// WHEN: Removing one card
	// THEN: The error surfaces and the cached list is exactly the original 2
	//       entries, not 1

	store := memory.New()
	failing := &failingDeleteStore{Store: store}
	ownership := collection.NewOwnershipLedger(store, failing)
	wishlist := collection.NewWishlistLedger(store, store)
	c := cache.NewCoordinator("user-1", ownership, wishlist, nil)
	ctx := context.Background()

	seedCharizard(store)
	store.AddCard(catalog.CardRecord{CardID: "base1-58", Language: "en", SetID: "base1", Name: "Pikachu"})

	_, err := c.AddToCollection(ctx, collection.AddOwnershipInput{CardID: "base1-4"})
	require.NoError(t, err)
	_, err = c.AddToCollection(ctx, collection.AddOwnershipInput{CardID: "base1-58"})
	require.NoError(t, err)

	entries, err := c.Collection(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	err = c.RemoveFromCollection(ctx, "base1-4")
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrPersistence)

	restored, _, ok := c.Arena().Get(cache.CollectionKey("user-1"))
	require.True(t, ok)
	assert.ElementsMatch(t, entries, restored.([]catalog.OwnershipEntry))
}

func TestCoordinator_AddToCollection_UnknownCard_RollsBack(t *testing.T) {
	// GIVEN: A cached empty collection and an add for a card the catalog
	//        does not know
	// WHEN: The add fails
	// THEN: The cached list is empty again and the error is classified

	c, _ := newTestCoordinator(t)
	ctx := context.Background()

	entries, err := c.Collection(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)

	_, err = c.AddToCollection(ctx, collection.AddOwnershipInput{CardID: "ghost-1"})
	require.Error(t, err)
	assert.Equal(t, cache.ReasonNotFound, cache.Classify(err))

	entries, err = c.Collection(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	owns, err := c.Owns(ctx, "ghost-1")
	require.NoError(t, err)
	assert.False(t, owns, "provisional ownership flag must not survive the rollback")
}

func TestCoordinator_AddToCollection_CommitInvalidatesDerivedViews(t *testing.T) {
	// GIVEN: A cached value summary
	// WHEN: An add commits
	// THEN: The next value read recomputes instead of serving the stale view

	c, store := newTestCoordinator(t)
	ctx := context.Background()
	seedCharizard(store)

	before, err := c.Value(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, before.CardsWithManual)

	price := mustDec("50")
	_, err = c.AddToCollection(ctx, collection.AddOwnershipInput{CardID: "base1-4", Price: &price})
	require.NoError(t, err)

	after, err := c.Value(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, after.CardsWithManual)
}

func TestCoordinator_RemoveFromCollection_UpdatesOwnsFlag(t *testing.T) {
	// GIVEN: An owned card with its flag cached
	// WHEN: Removing the card
	// THEN: Owns reports false afterwards

	c, store := newTestCoordinator(t)
	ctx := context.Background()
	seedCharizard(store)

	_, err := c.AddToCollection(ctx, collection.AddOwnershipInput{CardID: "base1-4"})
	require.NoError(t, err)

	owns, err := c.Owns(ctx, "base1-4")
	require.NoError(t, err)
	require.True(t, owns)

	require.NoError(t, c.RemoveFromCollection(ctx, "base1-4"))

	owns, err = c.Owns(ctx, "base1-4")
	require.NoError(t, err)
	assert.False(t, owns)
}

func TestCoordinator_NotAuthenticated_FailsFast(t *testing.T) {
	// GIVEN: A coordinator with no signed-in user
	// WHEN: Any mutation is attempted
	// THEN: ErrNotAuthenticated without touching the store

	store := memory.New()
	ownership := collection.NewOwnershipLedger(store, store)
	wishlist := collection.NewWishlistLedger(store, store)
	c := cache.NewCoordinator("", ownership, wishlist, nil)

	_, err := c.AddToCollection(context.Background(), collection.AddOwnershipInput{CardID: "base1-4"})
	assert.ErrorIs(t, err, catalog.ErrNotAuthenticated)

	_, err = c.AddToWishlist(context.Background(), collection.AddWishlistInput{CardID: "base1-4"})
	assert.ErrorIs(t, err, catalog.ErrNotAuthenticated)
}

func TestCoordinator_Counts_TrackMutations(t *testing.T) {
	// GIVEN: Cached badge counts
	// WHEN: Adding to collection and wishlist
	// THEN: The counts reflect the adds

	c, store := newTestCoordinator(t)
	ctx := context.Background()
	seedCharizard(store)

	n, err := c.CollectionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = c.AddToCollection(ctx, collection.AddOwnershipInput{CardID: "base1-4"})
	require.NoError(t, err)
	_, err = c.AddToWishlist(ctx, collection.AddWishlistInput{CardID: "base1-4"})
	require.NoError(t, err)

	n, err = c.CollectionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = c.WishlistCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// =============================================================================
// CONCURRENCY TESTS
// =============================================================================

func TestCoordinator_ConcurrentWishlistAdds_ExactlyOneWins(t *testing.T) {
	// GIVEN: Many concurrent adds for the same (user, card)
	// WHEN: They race through the coordinator
	// THEN: Exactly one succeeds; the rest fail as duplicates

	c, store := newTestCoordinator(t)
	ctx := context.Background()
	seedCharizard(store)

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.AddToWishlist(ctx, collection.AddWishlistInput{CardID: "base1-4"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, catalog.ErrDuplicateWishlistEntry)
		}
	}
	assert.Equal(t, 1, succeeded)

	entries, err := store.ListWishlist(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// =============================================================================
// SESSION TESTS
// =============================================================================

func TestManager_Logout_ClearsCachedState(t *testing.T) {
	// GIVEN: A session with a cached collection
	// WHEN: Logging out and obtaining a coordinator for the same user again
	// THEN: The new session starts with an empty arena

	store := memory.New()
	ownership := collection.NewOwnershipLedger(store, store)
	wishlist := collection.NewWishlistLedger(store, store)
	manager := cache.NewManager(ownership, wishlist, nil)
	seedCharizard(store)

	c := manager.For("user-1")
	_, err := c.AddToCollection(context.Background(), collection.AddOwnershipInput{CardID: "base1-4"})
	require.NoError(t, err)
	_, err = c.Collection(context.Background())
	require.NoError(t, err)

	manager.Logout("user-1")

	fresh := manager.For("user-1")
	assert.NotSame(t, c, fresh)
	_, _, ok := fresh.Arena().Get(cache.CollectionKey("user-1"))
	assert.False(t, ok)
}

// =============================================================================
// CLASSIFICATION TESTS
// =============================================================================

func TestClassify(t *testing.T) {
	assert.Equal(t, cache.ReasonDuplicate, cache.Classify(catalog.ErrDuplicateWishlistEntry))
	assert.Equal(t, cache.ReasonNotAuthenticated, cache.Classify(catalog.ErrNotAuthenticated))
	assert.Equal(t, cache.ReasonNotFound, cache.Classify(&catalog.CardNotFoundError{CardID: "x"}))
	assert.Equal(t, cache.ReasonSchema, cache.Classify(&catalog.PersistenceError{Op: "insert", SchemaMismatch: true}))
	assert.Equal(t, cache.ReasonGeneric, cache.Classify(assert.AnError))
}
