/*
store.go - Persistence interfaces for catalog, collection, and wishlist data

PURPOSE:
  Defines the interface between the domain logic and the database. The card
  catalog is read-only through this interface; per-user collection and
  wishlist rows are the only mutable state.

KEY INTERFACES:
  CatalogStore:    Read-only card/set lookups, including the batched
                   card-to-set resolution used by progress computation
  CollectionStore: Ownership rows filtered by (user, card)
  WishlistStore:   Wishlist rows filtered by (user, card) or entry id
  SnapshotStore:   Collection value snapshots for historical tracking

LANGUAGE ORDERING CONTRACT:
  ListCardVariants returns all language rows for a card ordered by language
  code ascending. The ledgers rely on this for the language fallback rule:
  when the requested language has no row, the first variant wins.

UNIQUENESS CONTRACT:
  InsertWishlist MUST reject a second row for the same (user, card) with
  ErrDuplicateWishlistEntry. The constraint lives in the store (unique
  index in SQLite, keyed check under lock in memory) so that two concurrent
  adds cannot both succeed.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - store/memory/memory.go: In-memory for testing

SEE ALSO:
  - collection/: Ledger logic using these interfaces
  - progress/: Reconciler using CatalogStore batched lookups
*/
package catalog

import (
	"context"
	"time"
)

// =============================================================================
// CATALOG STORE - Read-only card/set source
// =============================================================================

type CatalogStore interface {
	// GetCard returns the exact (cardID, language) row, or nil if absent.
	GetCard(ctx context.Context, cardID CardID, language Language) (*CardRecord, error)

	// ListCardVariants returns all language rows for cardID, ordered by
	// language code ascending. Empty slice if the card does not exist.
	ListCardVariants(ctx context.Context, cardID CardID) ([]CardRecord, error)

	// ListSets returns all sets.
	ListSets(ctx context.Context) ([]CardSet, error)

	// GetSet returns one set, or nil if absent.
	GetSet(ctx context.Context, setID SetID) (*CardSet, error)

	// ListCardsBySet returns all catalog rows for a set (all languages).
	ListCardsBySet(ctx context.Context, setID SetID) ([]CardRecord, error)

	// ResolveCards maps card identifiers to their set and rarity in one
	// batched lookup. Unknown identifiers are simply absent from the result.
	ResolveCards(ctx context.Context, cardIDs []CardID) (map[CardID]CardRef, error)
}

// =============================================================================
// COLLECTION STORE - Ownership rows
// =============================================================================

type CollectionStore interface {
	InsertOwnership(ctx context.Context, entry OwnershipEntry) error

	// ListOwnership returns all ownership rows for a user, newest first.
	ListOwnership(ctx context.Context, userID UserID) ([]OwnershipEntry, error)

	// ListOwnershipByCard returns the rows for one (user, card) pair across
	// all language variants.
	ListOwnershipByCard(ctx context.Context, userID UserID, cardID CardID) ([]OwnershipEntry, error)

	UpdateOwnership(ctx context.Context, entry OwnershipEntry) error

	// DeleteOwnership removes every row for (user, card) regardless of
	// language. Returns the number of rows removed; zero is not an error.
	DeleteOwnership(ctx context.Context, userID UserID, cardID CardID) (int, error)

	// CountOwnership mirrors ListOwnership for badges and pagination.
	CountOwnership(ctx context.Context, userID UserID) (int, error)
}

// =============================================================================
// WISHLIST STORE - Wishlist rows
// =============================================================================

type WishlistStore interface {
	// InsertWishlist persists a new entry. Returns an error unwrapping to
	// ErrDuplicateWishlistEntry when (user, card) already has a row.
	InsertWishlist(ctx context.Context, entry WishlistEntry) error

	// GetWishlistEntry returns one entry by its id, or nil if absent.
	GetWishlistEntry(ctx context.Context, entryID EntryID) (*WishlistEntry, error)

	ListWishlist(ctx context.Context, userID UserID) ([]WishlistEntry, error)

	// FindWishlist returns the entry for (user, card), or nil if absent.
	FindWishlist(ctx context.Context, userID UserID, cardID CardID) (*WishlistEntry, error)

	UpdateWishlist(ctx context.Context, entry WishlistEntry) error

	// DeleteWishlist removes the row for (user, card) if present. Returns
	// the number of rows removed; zero is not an error.
	DeleteWishlist(ctx context.Context, userID UserID, cardID CardID) (int, error)

	CountWishlist(ctx context.Context, userID UserID) (int, error)
}

// =============================================================================
// SNAPSHOT STORE - Collection value history
// =============================================================================

type SnapshotStore interface {
	SaveValueSnapshot(ctx context.Context, snapshot ValueSnapshot) error

	// ListValueSnapshots returns snapshots for a user in [from, to],
	// oldest first.
	ListValueSnapshots(ctx context.Context, userID UserID, from, to time.Time) ([]ValueSnapshot, error)

	// LatestValueSnapshot returns the most recent snapshot, or nil.
	LatestValueSnapshot(ctx context.Context, userID UserID) (*ValueSnapshot, error)
}
