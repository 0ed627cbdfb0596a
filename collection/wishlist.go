/*
wishlist.go - Wishlist ledger mutation logic

PURPOSE:
  Add, remove, and edit wishlist entries while holding the one-entry-per-
  (user, card) invariant.

UNIQUENESS:
  Add performs a read-then-write duplicate check so the caller gets a
  precise DuplicateWishlistError with the existing entry id. That check
  alone is racy under concurrent adds, so the store is the authority: every
  WishlistStore implementation also rejects a second (user, card) row (see
  catalog/store.go). Both paths unwrap to ErrDuplicateWishlistEntry.

EDIT ADDRESSING:
  Unlike ownership, wishlist entries always have a stable server-assigned
  id by the time anyone edits them, so Edit addresses by entry id.

SEE ALSO:
  - ownership.go: resolveCard (shared language fallback)
  - cache/coordinator.go: Serializes same-(user, card) mutations
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
// WISHLIST LEDGER
// =============================================================================

// WishlistLedger mutates a user's wanted-card entries.
type WishlistLedger struct {
	Catalog catalog.CatalogStore
	Store   catalog.WishlistStore

	now func() time.Time
}

func NewWishlistLedger(cat catalog.CatalogStore, store catalog.WishlistStore) *WishlistLedger {
	return &WishlistLedger{Catalog: cat, Store: store, now: time.Now}
}

// AddWishlistInput carries the user-supplied fields for an add. Priority has
// already been normalized to the ordinal at the JSON boundary.
type AddWishlistInput struct {
	CardID       catalog.CardID
	Language     catalog.Language
	Priority     *catalog.Priority // nil = medium
	DesiredPrice *decimal.Decimal
	Notes        string
}

// Add inserts a new wishlist entry. Fails with DuplicateWishlistError when
// the card is already wishlisted; it must never silently upsert.
func (l *WishlistLedger) Add(ctx context.Context, userID catalog.UserID, in AddWishlistInput) (*catalog.WishlistEntry, error) {
	if userID == "" {
		return nil, catalog.ErrNotAuthenticated
	}

	existing, err := l.Store.FindWishlist(ctx, userID, in.CardID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &catalog.DuplicateWishlistError{UserID: userID, CardID: in.CardID, ExistingID: existing.ID}
	}

	record, err := resolveCard(ctx, l.Catalog, in.CardID, in.Language)
	if err != nil {
		return nil, err
	}

	priority := catalog.PriorityMedium
	if in.Priority != nil && in.Priority.Valid() {
		priority = *in.Priority
	}

	now := l.now()
	entry := catalog.WishlistEntry{
		ID:       catalog.EntryID(uuid.NewString()),
		UserID:   userID,
		CardID:   record.CardID,
		Language: record.Language,

		Name:        record.Name,
		SetID:       record.SetID,
		SeriesID:    record.SeriesID,
		Rarity:      record.Rarity,
		ImageURL:    record.ImageURL,
		MarketPrice: copyDecimal(record.MarketPrice),

		Priority:     priority,
		DesiredPrice: copyDecimal(in.DesiredPrice),
		Notes:        in.Notes,

		CreatedAt: now,
		UpdatedAt: now,
	}

	// The store enforces the invariant again under its own lock or unique
	// index, closing the window between the check above and this insert.
	if err := l.Store.InsertWishlist(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Remove deletes the entry for (user, card) if present. Idempotent.
func (l *WishlistLedger) Remove(ctx context.Context, userID catalog.UserID, cardID catalog.CardID) error {
	if userID == "" {
		return catalog.ErrNotAuthenticated
	}
	_, err := l.Store.DeleteWishlist(ctx, userID, cardID)
	return err
}

// EditWishlistInput is a partial update; nil fields are left unchanged.
type EditWishlistInput struct {
	Priority     *catalog.Priority
	DesiredPrice *decimal.Decimal
	Notes        *string
}

// Edit applies a partial update addressed by the entry's own id.
func (l *WishlistLedger) Edit(ctx context.Context, userID catalog.UserID, entryID catalog.EntryID, in EditWishlistInput) (*catalog.WishlistEntry, error) {
	if userID == "" {
		return nil, catalog.ErrNotAuthenticated
	}

	entry, err := l.Store.GetWishlistEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.UserID != userID {
		return nil, catalog.ErrEntryNotFound
	}

	if in.Priority != nil && in.Priority.Valid() {
		entry.Priority = *in.Priority
	}
	if in.DesiredPrice != nil {
		entry.DesiredPrice = copyDecimal(in.DesiredPrice)
	}
	if in.Notes != nil {
		entry.Notes = *in.Notes
	}
	entry.UpdatedAt = l.now()

	if err := l.Store.UpdateWishlist(ctx, *entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns the user's full wishlist, newest first.
func (l *WishlistLedger) List(ctx context.Context, userID catalog.UserID) ([]catalog.WishlistEntry, error) {
	return l.Store.ListWishlist(ctx, userID)
}

// Count mirrors List for badges.
func (l *WishlistLedger) Count(ctx context.Context, userID catalog.UserID) (int, error) {
	return l.Store.CountWishlist(ctx, userID)
}

// Wants reports whether the card is on the user's wishlist.
func (l *WishlistLedger) Wants(ctx context.Context, userID catalog.UserID, cardID catalog.CardID) (bool, error) {
	entry, err := l.Store.FindWishlist(ctx, userID, cardID)
	if err != nil {
		return false, err
	}
	return entry != nil, nil
}
