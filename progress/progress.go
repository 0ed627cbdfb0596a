/*
Package progress computes per-set completion statistics from the ledgers.

PURPOSE:
  Given the catalog's set list and a user's ownership and wishlist rows,
  derive for each set: how many distinct cards are owned, how many are
  wishlisted, the completion percentage, and whether the set is complete.
  The result is recomputed on demand and never persisted.

THE DEDUP RULE (the one place a naive version over-counts):
  A user may hold several ownership rows for the same card identifier -
  one per language copy. Completion counts DISTINCT card identifiers, so
  two language copies of the same card count once, not twice. The same
  rule applies to wishlist rows.

QUERY SHAPE:
  Three flat reads (sets, owned card ids, wishlisted card ids) plus one
  batched card-to-set resolution. No per-card catalog queries.

ERRORS:
  Catalog or ledger read failures propagate to the caller unchanged. There
  is no partial-result mode; a failed computation yields no progress data.

SEE ALSO:
  - catalog/store.go: ResolveCards batched lookup contract
*/
package progress

import (
	"context"
	"math"

	"github.com/ashir876/Catch-Collect-sub001/catalog"
)

// =============================================================================
// SET PROGRESS - Derived, never persisted
// =============================================================================

// SetProgress is one set's completion state for one user.
type SetProgress struct {
	SetID          catalog.SetID
	Name           string
	TotalCards     int
	CollectedCards int // distinct owned card identifiers in the set
	WishlistCards  int // distinct wishlisted card identifiers in the set
	CompletionPct  int // 0-100, rounded; 0 when TotalCards == 0
	Completed      bool

	// Rarities is only populated for single-set queries (the set detail
	// view); computing it for every set would need per-set card scans.
	Rarities map[string]RarityProgress
}

// RarityProgress is the per-rarity completion breakdown within a set.
type RarityProgress struct {
	Total     int
	Collected int
}

// =============================================================================
// RECONCILER
// =============================================================================

// Reconciler computes set completion from the catalog and the two ledgers.
type Reconciler struct {
	Catalog    catalog.CatalogStore
	Collection catalog.CollectionStore
	Wishlist   catalog.WishlistStore
}

func NewReconciler(cat catalog.CatalogStore, collection catalog.CollectionStore, wishlist catalog.WishlistStore) *Reconciler {
	return &Reconciler{Catalog: cat, Collection: collection, Wishlist: wishlist}
}

// ForUser computes progress for every set, ordered as the catalog lists them.
func (r *Reconciler) ForUser(ctx context.Context, userID catalog.UserID) ([]SetProgress, error) {
	sets, err := r.Catalog.ListSets(ctx)
	if err != nil {
		return nil, err
	}
	return r.compute(ctx, userID, sets, false)
}

// ForSet computes progress for a single set, including the per-rarity
// breakdown. Returns nil when the set does not exist.
func (r *Reconciler) ForSet(ctx context.Context, userID catalog.UserID, setID catalog.SetID) (*SetProgress, error) {
	set, err := r.Catalog.GetSet(ctx, setID)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, nil
	}

	results, err := r.compute(ctx, userID, []catalog.CardSet{*set}, true)
	if err != nil {
		return nil, err
	}
	return &results[0], nil
}

func (r *Reconciler) compute(ctx context.Context, userID catalog.UserID, sets []catalog.CardSet, withRarities bool) ([]SetProgress, error) {
	// Flat ledger reads: card identifiers only, no catalog joins here.
	owned, err := r.Collection.ListOwnership(ctx, userID)
	if err != nil {
		return nil, err
	}
	wishlisted, err := r.Wishlist.ListWishlist(ctx, userID)
	if err != nil {
		return nil, err
	}

	ownedIDs := make([]catalog.CardID, 0, len(owned))
	for _, e := range owned {
		ownedIDs = append(ownedIDs, e.CardID)
	}
	wishIDs := make([]catalog.CardID, 0, len(wishlisted))
	for _, e := range wishlisted {
		wishIDs = append(wishIDs, e.CardID)
	}

	// One batched resolution for every referenced card identifier.
	refs, err := r.Catalog.ResolveCards(ctx, append(append([]catalog.CardID{}, ownedIDs...), wishIDs...))
	if err != nil {
		return nil, err
	}

	// Dedup by distinct card identifier per set. Multiple ownership rows for
	// the same card (language copies) must count once toward completion.
	ownedBySet := distinctBySet(ownedIDs, refs)
	wishBySet := distinctBySet(wishIDs, refs)

	results := make([]SetProgress, 0, len(sets))
	for _, set := range sets {
		collected := len(ownedBySet[set.SetID])
		p := SetProgress{
			SetID:          set.SetID,
			Name:           set.Name,
			TotalCards:     set.TotalCards,
			CollectedCards: collected,
			WishlistCards:  len(wishBySet[set.SetID]),
			CompletionPct:  completionPct(collected, set.TotalCards),
			Completed:      collected >= set.TotalCards && set.TotalCards > 0,
		}

		if withRarities {
			rarities, err := r.rarityBreakdown(ctx, set.SetID, ownedBySet[set.SetID])
			if err != nil {
				return nil, err
			}
			p.Rarities = rarities
		}

		results = append(results, p)
	}
	return results, nil
}

// distinctBySet builds, per set, the mathematical set of distinct card
// identifiers among ids. Identifiers the catalog cannot resolve are skipped.
func distinctBySet(ids []catalog.CardID, refs map[catalog.CardID]catalog.CardRef) map[catalog.SetID]map[catalog.CardID]struct{} {
	out := make(map[catalog.SetID]map[catalog.CardID]struct{})
	for _, id := range ids {
		ref, ok := refs[id]
		if !ok {
			continue
		}
		cards := out[ref.SetID]
		if cards == nil {
			cards = make(map[catalog.CardID]struct{})
			out[ref.SetID] = cards
		}
		cards[id] = struct{}{}
	}
	return out
}

func completionPct(collected, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(collected) / float64(total)))
}

// rarityBreakdown scans the set's catalog rows to total each rarity, then
// counts how many of the owned identifiers fall into each. Card identifiers
// are deduplicated across languages here too.
func (r *Reconciler) rarityBreakdown(ctx context.Context, setID catalog.SetID, owned map[catalog.CardID]struct{}) (map[string]RarityProgress, error) {
	cards, err := r.Catalog.ListCardsBySet(ctx, setID)
	if err != nil {
		return nil, err
	}

	rarityByCard := make(map[catalog.CardID]string, len(cards))
	for _, c := range cards {
		if _, seen := rarityByCard[c.CardID]; !seen {
			rarityByCard[c.CardID] = c.Rarity
		}
	}

	out := make(map[string]RarityProgress)
	for id, rarity := range rarityByCard {
		p := out[rarity]
		p.Total++
		if _, ok := owned[id]; ok {
			p.Collected++
		}
		out[rarity] = p
	}
	return out, nil
}
