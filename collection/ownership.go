/*
Package collection implements the per-user ledgers: the ownership ledger
(cards the user owns) and the wishlist ledger (cards the user wants).

PURPOSE:
  Owns all mutation logic for the two ledgers. The ledgers resolve catalog
  records with a language fallback rule, enforce the wishlist uniqueness
  invariant, and freeze a denormalized copy of catalog display fields onto
  every new entry so later catalog edits never rewrite collection history.

LANGUAGE FALLBACK:
  An add names a card identifier and optionally a language (default "en").
  If no catalog row exists for the exact requested language, the variant
  with the lexicographically smallest language code is used instead. Only
  when the card exists in no language at all does the add fail.

ERROR CONTRACT:
  - CardNotFoundError when the card identifier resolves to nothing
  - DuplicateWishlistError on a second wishlist add for the same card
  - ErrNotAuthenticated when userID is empty (checked before any store call)
  - store failures propagate as PersistenceError for the coordinator to
    roll back against

SEE ALSO:
  - catalog/store.go: Storage interfaces consumed here
  - cache/coordinator.go: Optimistic wrapper around these mutations
*/
package collection

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ashir876/Catch-Collect-sub001/catalog"
)

// =============================================================================
// OWNERSHIP LEDGER
// =============================================================================

// OwnershipLedger mutates a user's owned-card entries.
type OwnershipLedger struct {
	Catalog catalog.CatalogStore
	Store   catalog.CollectionStore

	// now is swappable for tests.
	now func() time.Time
}

func NewOwnershipLedger(cat catalog.CatalogStore, store catalog.CollectionStore) *OwnershipLedger {
	return &OwnershipLedger{Catalog: cat, Store: store, now: time.Now}
}

// AddOwnershipInput carries the user-supplied fields for an add.
type AddOwnershipInput struct {
	CardID     catalog.CardID
	Language   catalog.Language // empty = "en", then fallback
	Condition  string
	Price      *decimal.Decimal
	Notes      string
	AcquiredAt time.Time // zero = now
	Quantity   int       // <1 = 1
}

// Add resolves the card with the language fallback rule, freezes the catalog
// display fields onto a new entry, and persists it.
//
// A user may hold several entries for the same card identifier when the
// language differs; no cap is enforced.
func (l *OwnershipLedger) Add(ctx context.Context, userID catalog.UserID, in AddOwnershipInput) (*catalog.OwnershipEntry, error) {
	if userID == "" {
		return nil, catalog.ErrNotAuthenticated
	}

	record, err := resolveCard(ctx, l.Catalog, in.CardID, in.Language)
	if err != nil {
		return nil, err
	}

	now := l.now()
	acquired := in.AcquiredAt
	if acquired.IsZero() {
		acquired = now
	}
	quantity := in.Quantity
	if quantity < 1 {
		quantity = 1
	}

	entry := catalog.OwnershipEntry{
		ID:       catalog.EntryID(uuid.NewString()),
		UserID:   userID,
		CardID:   record.CardID,
		Language: record.Language,

		// Frozen catalog snapshot. Copied, not referenced: the entry keeps
		// these values even if the catalog row changes later.
		Name:        record.Name,
		SetID:       record.SetID,
		SeriesID:    record.SeriesID,
		Rarity:      record.Rarity,
		HP:          record.HP,
		ImageURL:    record.ImageURL,
		MarketPrice: copyDecimal(record.MarketPrice),

		Condition:  in.Condition,
		Price:      copyDecimal(in.Price),
		Notes:      in.Notes,
		AcquiredAt: acquired,
		Quantity:   quantity,

		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := l.Store.InsertOwnership(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Remove deletes every entry for (user, card) regardless of language variant.
// Idempotent: removing a card that is not in the collection is not an error.
func (l *OwnershipLedger) Remove(ctx context.Context, userID catalog.UserID, cardID catalog.CardID) error {
	if userID == "" {
		return catalog.ErrNotAuthenticated
	}
	_, err := l.Store.DeleteOwnership(ctx, userID, cardID)
	return err
}

// EditOwnershipInput is a partial update; nil fields are left unchanged.
type EditOwnershipInput struct {
	Condition  *string
	Price      *decimal.Decimal
	Notes      *string
	AcquiredAt *time.Time
	Quantity   *int
}

// Edit applies a partial update to the entries for (user, card). The match is
// by card identifier because the entry's own id may be absent client-side;
// when several language copies exist, all are updated the same way. Returns
// the first updated entry.
func (l *OwnershipLedger) Edit(ctx context.Context, userID catalog.UserID, cardID catalog.CardID, in EditOwnershipInput) (*catalog.OwnershipEntry, error) {
	if userID == "" {
		return nil, catalog.ErrNotAuthenticated
	}

	entries, err := l.Store.ListOwnershipByCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, catalog.ErrEntryNotFound
	}

	now := l.now()
	for i := range entries {
		e := &entries[i]
		if in.Condition != nil {
			e.Condition = *in.Condition
		}
		if in.Price != nil {
			e.Price = copyDecimal(in.Price)
		}
		if in.Notes != nil {
			e.Notes = *in.Notes
		}
		if in.AcquiredAt != nil {
			e.AcquiredAt = *in.AcquiredAt
		}
		if in.Quantity != nil && *in.Quantity >= 1 {
			e.Quantity = *in.Quantity
		}
		e.UpdatedAt = now

		if err := l.Store.UpdateOwnership(ctx, *e); err != nil {
			return nil, err
		}
	}
	return &entries[0], nil
}

// List returns the user's full collection, newest first.
func (l *OwnershipLedger) List(ctx context.Context, userID catalog.UserID) ([]catalog.OwnershipEntry, error) {
	return l.Store.ListOwnership(ctx, userID)
}

// Count mirrors List for badges.
func (l *OwnershipLedger) Count(ctx context.Context, userID catalog.UserID) (int, error) {
	return l.Store.CountOwnership(ctx, userID)
}

// Owns reports whether the user has at least one entry for the card.
func (l *OwnershipLedger) Owns(ctx context.Context, userID catalog.UserID, cardID catalog.CardID) (bool, error) {
	entries, err := l.Store.ListOwnershipByCard(ctx, userID, cardID)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}

// =============================================================================
// SHARED RESOLUTION
// =============================================================================

// resolveCard applies the language fallback rule: exact (card, language) row
// if present, else the variant with the smallest language code. The requested
// language defaults to "en".
func resolveCard(ctx context.Context, cat catalog.CatalogStore, cardID catalog.CardID, language catalog.Language) (*catalog.CardRecord, error) {
	requested := language
	if requested == "" {
		requested = catalog.LanguageDefault
	}

	record, err := cat.GetCard(ctx, cardID, requested)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return record, nil
	}

	// Fallback: any variant, smallest language code first.
	variants, err := cat.ListCardVariants(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if len(variants) == 0 {
		return nil, &catalog.CardNotFoundError{CardID: cardID, Language: language}
	}
	return &variants[0], nil
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
