/*
errors.go - Centralized error types for the collection engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Higher layers classify these with errors.Is / errors.As; user-facing
  messages are derived from the classification, never from raw error text.

ERROR CATEGORIES:
  1. Lookup errors - Missing cards or entries
  2. Invariant errors - Business rule violations (wishlist uniqueness)
  3. Persistence errors - The underlying store rejected an operation

USAGE:
  if errors.Is(err, catalog.ErrDuplicateWishlistEntry) {
      // surface "already in wishlist", not a generic failure
  }

SEE ALSO:
  - collection/: Wraps these with ledger context
  - cache/: Classifies these at the coordinator boundary
*/
package catalog

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrCardNotFound is returned when no CardRecord exists for a card
	// identifier in any language. Not retried.
	ErrCardNotFound = errors.New("card not found")

	// ErrDuplicateWishlistEntry is returned when adding a card that is
	// already on the user's wishlist. Must never be conflated with a
	// generic failure; the UI shows a distinct "already in wishlist".
	ErrDuplicateWishlistEntry = errors.New("already in wishlist")

	// ErrEntryNotFound is returned when an ownership or wishlist entry
	// referenced by an edit does not exist.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrNotAuthenticated is returned when a mutation is attempted with no
	// signed-in user. Fails fast; no store call is issued.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrPersistence is returned when the underlying store rejected an
	// operation. Not automatically retried.
	ErrPersistence = errors.New("persistence error")

	// ErrSchemaMismatch is the schema sub-case of ErrPersistence: the
	// failure looks like a missing column or table rather than bad data.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// CardNotFoundError reports which card identifier could not be resolved.
type CardNotFoundError struct {
	CardID   CardID
	Language Language // requested language, may be empty
}

func (e *CardNotFoundError) Error() string {
	if e.Language != "" {
		return fmt.Sprintf("card %s not found (requested language %s, no variant in any language)", e.CardID, e.Language)
	}
	return fmt.Sprintf("card %s not found in any language", e.CardID)
}

func (e *CardNotFoundError) Unwrap() error { return ErrCardNotFound }

// DuplicateWishlistError reports the existing entry blocking an add.
type DuplicateWishlistError struct {
	UserID     UserID
	CardID     CardID
	ExistingID EntryID
}

func (e *DuplicateWishlistError) Error() string {
	return fmt.Sprintf("card %s is already on the wishlist (entry %s)", e.CardID, e.ExistingID)
}

func (e *DuplicateWishlistError) Unwrap() error { return ErrDuplicateWishlistEntry }

// PersistenceError wraps a store-level failure with the operation that hit it.
type PersistenceError struct {
	Op             string // e.g. "insert ownership"
	Err            error
	SchemaMismatch bool
}

func (e *PersistenceError) Error() string {
	if e.SchemaMismatch {
		return fmt.Sprintf("%s: schema mismatch: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	if e.SchemaMismatch {
		return ErrSchemaMismatch
	}
	return ErrPersistence
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input
// rather than a system failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrDuplicateWishlistEntry) ||
		errors.Is(err, ErrCardNotFound) ||
		errors.Is(err, ErrNotAuthenticated)
}

// IsNotFound returns true if the error indicates a missing card or entry.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCardNotFound) ||
		errors.Is(err, ErrEntryNotFound)
}

// IsPersistence returns true for store-level failures, including the
// schema-mismatch sub-case.
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence) ||
		errors.Is(err, ErrSchemaMismatch)
}
