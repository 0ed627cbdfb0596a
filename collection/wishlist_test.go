package collection_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashir876/Catch-Collect-sub001/catalog"
	"github.com/ashir876/Catch-Collect-sub001/collection"
	"github.com/ashir876/Catch-Collect-sub001/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestWishlistLedger(t *testing.T) (*collection.WishlistLedger, *memory.Store) {
	t.Helper()
	store := memory.New()
	ledger := collection.NewWishlistLedger(store, store)
	return ledger, store
}

// =============================================================================
// UNIQUENESS INVARIANT TESTS
// =============================================================================

func TestWishlistLedger_DuplicateAdd_Rejected(t *testing.T) {
	// GIVEN: A card already on the wishlist
	// WHEN: Adding the same card again
	// THEN: DuplicateWishlistError naming the existing entry, list unchanged

	ledger, store := newTestWishlistLedger(t)
	ctx := context.Background()
	seedCard(store, "base1-4", "en", "Charizard")

	first, err := ledger.Add(ctx, "user-1", collection.AddWishlistInput{CardID: "base1-4"})
	require.NoError(t, err)

	_, err = ledger.Add(ctx, "user-1", collection.AddWishlistInput{CardID: "base1-4"})
	require.Error(t, err)

	var dup *catalog.DuplicateWishlistError
	assert.ErrorAs(t, err, &dup)
	assert.Equal(t, first.ID, dup.ExistingID)
	assert.ErrorIs(t, err, catalog.ErrDuplicateWishlistEntry)

	entries, err := ledger.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWishlistLedger_DuplicateAdd_DifferentLanguage_StillRejected(t *testing.T) {
	// GIVEN: The English variant already wishlisted
	// WHEN: Adding the German variant of the same card identifier
	// THEN: Rejected; uniqueness is per card identifier, not per variant

	ledger, store := newTestWishlistLedger(t)
	ctx := context.Background()
	seedCard(store, "base1-4", "en", "Charizard")
	seedCard(store, "base1-4", "de", "Glurak")

	_, err := ledger.Add(ctx, "user-1", collection.AddWishlistInput{CardID: "base1-4", Language: "en"})
	require.NoError(t, err)

	_, err = ledger.Add(ctx, "user-1", collection.AddWishlistInput{CardID: "base1-4", Language: "de"})
	assert.ErrorIs(t, err, catalog.ErrDuplicateWishlistEntry)
}

func TestWishlistLedger_SameCard_DifferentUsers_Allowed(t *testing.T) {
	// GIVEN: user-1 wishlisted a card
	// WHEN: user-2 wishlists the same card
	// THEN: Both succeed; the invariant is per user

	ledger, store := newTestWishlistLedger(t)
	ctx := context.Background()
	seedCard(store, "base1-4", "en", "Charizard")

	_, err := ledger.Add(ctx, "user-1", collection.AddWishlistInput{CardID: "base1-4"})
	require.NoError(t, err)
	_, err = ledger.Add(ctx, "user-2", collection.AddWishlistInput{CardID: "base1-4"})
	assert.NoError(t, err)
}

// =============================================================================
// PRIORITY NORMALIZATION TESTS
// =============================================================================

func TestWishlistLedger_Add_DefaultPriority(t *testing.T) {
	// GIVEN: An add with no priority
	// WHEN: The entry is created
	// THEN: Priority is medium

	ledger, store := newTestWishlistLedger(t)
	seedCard(store, "base1-4", "en", "Charizard")

	entry, err := ledger.Add(context.Background(), "user-1", collection.AddWishlistInput{CardID: "base1-4"})
	require.NoError(t, err)
	assert.Equal(t, catalog.PriorityMedium, entry.Priority)
}

func TestWishlistLedger_Add_ExplicitPriority(t *testing.T) {
	// GIVEN: An add with priority high
	// WHEN: The entry is created
	// THEN: Priority is stored as the high ordinal

	ledger, store := newTestWishlistLedger(t)
	seedCard(store, "base1-4", "en", "Charizard")

	high := catalog.PriorityHigh
	entry, err := ledger.Add(context.Background(), "user-1", collection.AddWishlistInput{
		CardID:   "base1-4",
		Priority: &high,
	})
	require.NoError(t, err)
	assert.Equal(t, catalog.PriorityHigh, entry.Priority)
	assert.Equal(t, "high", entry.Priority.String())
}

func TestWishlistLedger_Add_OutOfRangePriority_FallsBackToMedium(t *testing.T) {
	// GIVEN: An add with an out-of-range priority ordinal
	// WHEN: The entry is created
	// THEN: Priority falls back to medium

	ledger, store := newTestWishlistLedger(t)
	seedCard(store, "base1-4", "en", "Charizard")

	bogus := catalog.Priority(7)
	entry, err := ledger.Add(context.Background(), "user-1", collection.AddWishlistInput{
		CardID:   "base1-4",
		Priority: &bogus,
	})
	require.NoError(t, err)
	assert.Equal(t, catalog.PriorityMedium, entry.Priority)
}

// =============================================================================
// EDIT / REMOVE TESTS
// =============================================================================

func TestWishlistLedger_Edit_ByEntryID(t *testing.T) {
	// GIVEN: A wishlist entry
	// WHEN: Editing priority and notes by the entry id
	// THEN: Both fields are updated, the rest untouched

	ledger, store := newTestWishlistLedger(t)
	ctx := context.Background()
	seedCard(store, "base1-4", "en", "Charizard")

	entry, err := ledger.Add(ctx, "user-1", collection.AddWishlistInput{CardID: "base1-4", Notes: "want"})
	require.NoError(t, err)

	high := catalog.PriorityHigh
	notes := "want badly"
	updated, err := ledger.Edit(ctx, "user-1", entry.ID, collection.EditWishlistInput{
		Priority: &high,
		Notes:    &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, catalog.PriorityHigh, updated.Priority)
	assert.Equal(t, "want badly", updated.Notes)
	assert.Equal(t, "Charizard", updated.Name)
}

func TestWishlistLedger_Edit_OtherUsersEntry_NotFound(t *testing.T) {
	// GIVEN: An entry belonging to user-1
	// WHEN: user-2 tries to edit it
	// THEN: ErrEntryNotFound; ownership is not leaked

	ledger, store := newTestWishlistLedger(t)
	ctx := context.Background()
	seedCard(store, "base1-4", "en", "Charizard")

	entry, err := ledger.Add(ctx, "user-1", collection.AddWishlistInput{CardID: "base1-4"})
	require.NoError(t, err)

	notes := "steal"
	_, err = ledger.Edit(ctx, "user-2", entry.ID, collection.EditWishlistInput{Notes: &notes})
	assert.ErrorIs(t, err, catalog.ErrEntryNotFound)
}

func TestWishlistLedger_Remove_Idempotent(t *testing.T) {
	// GIVEN: A card not on the wishlist
	// WHEN: Removing it
	// THEN: No error

	ledger, _ := newTestWishlistLedger(t)
	err := ledger.Remove(context.Background(), "user-1", "base1-4")
	assert.NoError(t, err)
}

func TestWishlistLedger_RemoveThenReAdd(t *testing.T) {
	// GIVEN: A card wishlisted, then removed
	// WHEN: Adding it again
	// THEN: The add succeeds with a fresh entry

	ledger, store := newTestWishlistLedger(t)
	ctx := context.Background()
	seedCard(store, "base1-4", "en", "Charizard")

	first, err := ledger.Add(ctx, "user-1", collection.AddWishlistInput{CardID: "base1-4"})
	require.NoError(t, err)
	require.NoError(t, ledger.Remove(ctx, "user-1", "base1-4"))

	second, err := ledger.Add(ctx, "user-1", collection.AddWishlistInput{CardID: "base1-4"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestWishlistLedger_Wants(t *testing.T) {
	// GIVEN: One wishlisted card
	// WHEN: Checking for it and for another card
	// THEN: true and false respectively

	ledger, store := newTestWishlistLedger(t)
	ctx := context.Background()
	seedCard(store, "base1-4", "en", "Charizard")

	_, err := ledger.Add(ctx, "user-1", collection.AddWishlistInput{CardID: "base1-4"})
	require.NoError(t, err)

	wants, err := ledger.Wants(ctx, "user-1", "base1-4")
	require.NoError(t, err)
	assert.True(t, wants)

	wants, err = ledger.Wants(ctx, "user-1", "base1-58")
	require.NoError(t, err)
	assert.False(t, wants)
}
