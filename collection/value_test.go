package collection_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashir876/Catch-Collect-sub001/catalog"
	"github.com/ashir876/Catch-Collect-sub001/collection"
	"github.com/ashir876/Catch-Collect-sub001/store/memory"
)

// =============================================================================
// VALUE AGGREGATION TESTS
// =============================================================================

func TestSummarizeOwnership_SeparateTotals(t *testing.T) {
	// GIVEN: Three entries with manual prices {10, 20, nil} and market
	//        prices {nil, 15, 25}
	// WHEN: Summarizing
	// THEN: Manual total 30 over 2 cards, market total 40 over 2 cards,
	//       1 card has both; totals are never mixed

	entries := []catalog.OwnershipEntry{
		{Price: dec("10")},
		{Price: dec("20"), MarketPrice: dec("15")},
		{MarketPrice: dec("25")},
	}

	s := collection.SummarizeOwnership(entries)

	assert.True(t, s.ManualTotal.Equal(decimal.NewFromInt(30)), "manual total: %s", s.ManualTotal)
	assert.True(t, s.MarketTotal.Equal(decimal.NewFromInt(40)), "market total: %s", s.MarketTotal)
	assert.Equal(t, 2, s.CardsWithManual)
	assert.Equal(t, 2, s.CardsWithMarket)
	assert.Equal(t, 1, s.CardsWithBoth)
	assert.True(t, s.ManualAverage.Equal(decimal.NewFromInt(15)))
	assert.True(t, s.MarketAverage.Equal(decimal.NewFromInt(20)))
}

func TestSummarizeOwnership_Empty(t *testing.T) {
	// GIVEN: No entries
	// WHEN: Summarizing
	// THEN: Zero totals, zero counts, zero averages (no division)

	s := collection.SummarizeOwnership(nil)

	assert.True(t, s.ManualTotal.IsZero())
	assert.True(t, s.MarketTotal.IsZero())
	assert.Equal(t, 0, s.CardsWithManual)
	assert.True(t, s.ManualAverage.IsZero())
	assert.True(t, s.MarketAverage.IsZero())
}

func TestSummarizeOwnership_DecimalPrecision(t *testing.T) {
	// GIVEN: Prices that lose precision under float addition
	// WHEN: Summarizing
	// THEN: The total is exact

	entries := []catalog.OwnershipEntry{
		{Price: dec("0.10")},
		{Price: dec("0.20")},
	}

	s := collection.SummarizeOwnership(entries)
	assert.True(t, s.ManualTotal.Equal(decimal.RequireFromString("0.30")), "got %s", s.ManualTotal)
}

func TestSummarizeWishlist_DesiredPriceAsManual(t *testing.T) {
	// GIVEN: Wishlist entries with desired and market prices
	// WHEN: Summarizing
	// THEN: The desired price feeds the manual side

	entries := []catalog.WishlistEntry{
		{DesiredPrice: dec("5"), MarketPrice: dec("8")},
		{DesiredPrice: dec("7")},
	}

	s := collection.SummarizeWishlist(entries)
	assert.True(t, s.ManualTotal.Equal(decimal.NewFromInt(12)))
	assert.True(t, s.MarketTotal.Equal(decimal.NewFromInt(8)))
	assert.Equal(t, 1, s.CardsWithBoth)
}

// =============================================================================
// VALUE SNAPSHOT TESTS
// =============================================================================

func TestValueSnapshotter_Take(t *testing.T) {
	// GIVEN: A collection with two language copies of one card and one other
	// WHEN: Taking a snapshot
	// THEN: TotalCards counts rows, UniqueCards counts identifiers, and the
	//       snapshot is persisted

	store := memory.New()
	ledger := collection.NewOwnershipLedger(store, store)
	snapshotter := collection.NewValueSnapshotter(store, store)
	ctx := context.Background()

	seedCard(store, "base1-4", "en", "Charizard")
	seedCard(store, "base1-4", "de", "Glurak")
	seedCard(store, "base1-58", "en", "Pikachu")

	_, err := ledger.Add(ctx, "user-1", collection.AddOwnershipInput{CardID: "base1-4", Language: "en", Price: dec("100")})
	require.NoError(t, err)
	_, err = ledger.Add(ctx, "user-1", collection.AddOwnershipInput{CardID: "base1-4", Language: "de"})
	require.NoError(t, err)
	_, err = ledger.Add(ctx, "user-1", collection.AddOwnershipInput{CardID: "base1-58", Price: dec("20")})
	require.NoError(t, err)

	snap, err := snapshotter.Take(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 3, snap.TotalCards)
	assert.Equal(t, 2, snap.UniqueCards)
	assert.True(t, snap.ManualTotal.Equal(decimal.NewFromInt(120)))

	latest, err := store.LatestValueSnapshot(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, snap.ID, latest.ID)
}

func TestValueSnapshotter_Take_NotAuthenticated(t *testing.T) {
	// GIVEN: No signed-in user
	// WHEN: Taking a snapshot
	// THEN: ErrNotAuthenticated

	store := memory.New()
	snapshotter := collection.NewValueSnapshotter(store, store)

	_, err := snapshotter.Take(context.Background(), "")
	assert.ErrorIs(t, err, catalog.ErrNotAuthenticated)
}
