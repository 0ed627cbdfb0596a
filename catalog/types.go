/*
Package catalog provides the core types of the card collection engine.

PURPOSE:
  This package contains the shared vocabulary of the system: card records,
  per-user collection and wishlist entries, derived progress values, and the
  storage interfaces everything is built on. The catalog itself is read-only;
  per-user state lives in the collection and wishlist tables.

KEY CONCEPTS IN THIS FILE (types.go):
  - CardRecord: One printing of a card in one language. The same logical card
    may exist in several languages; each is a distinct catalog row sharing the
    CardID.
  - OwnershipEntry: A card a user owns, with a frozen copy of the catalog
    display fields taken at add time.
  - WishlistEntry: A card a user wants. At most one per (user, card).
  - Priority: Three-level wishlist priority, normalized to an ordinal.

DESIGN PRINCIPLES:
  1. Denormalization on add: OwnershipEntry copies catalog fields at creation
     time. Later catalog edits never rewrite a user's collection history.
  2. Precision: prices use decimal.Decimal, never float64.
  3. Type Safety: Strong typing for IDs prevents mixing card/set/user IDs.
  4. Explicit records: no loosely-typed maps cross a package boundary.

SEE ALSO:
  - store.go: Storage interfaces over these types
  - errors.go: Error taxonomy
  - collection/: Ledger mutation logic
  - progress/: Set completion computation
*/
package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type CardID string
type SetID string
type SeriesID string
type UserID string
type EntryID string

// Language is a lowercase language code ("en", "de", "fr", ...).
type Language string

const LanguageDefault Language = "en"

// =============================================================================
// CARD RECORD - One printing of a card in one language (read-only)
// =============================================================================

// CardRecord is a single catalog row. Uniqueness: (CardID, Language).
type CardRecord struct {
	CardID   CardID
	Language Language
	SetID    SetID
	SeriesID SeriesID
	Name     string
	Rarity   string
	Number   string // collector number within the set
	HP       int
	ImageURL string

	// MarketPrice is the externally-sourced price, if one has been fetched.
	// How it gets here is outside this package; nil means "no price known".
	MarketPrice *decimal.Decimal
}

// CardSet groups cards. TotalCards is the authoritative printed-set size used
// for completion tracking.
type CardSet struct {
	SetID      SetID
	SeriesID   SeriesID
	Name       string
	TotalCards int
	ReleasedAt time.Time
}

type Series struct {
	SeriesID SeriesID
	Name     string
}

// CardRef is the minimal catalog projection used by batched lookups.
type CardRef struct {
	SetID  SetID
	Rarity string
}

// =============================================================================
// OWNERSHIP ENTRY - A card the user owns
// =============================================================================

// OwnershipEntry records one owned card. A user may hold several entries for
// the same CardID as long as the language differs (distinct physical items).
//
// The Name/SetID/Rarity/HP/ImageURL/MarketPrice fields are a frozen copy of
// the CardRecord at add time, not a live reference.
type OwnershipEntry struct {
	ID       EntryID
	UserID   UserID
	CardID   CardID
	Language Language

	// Catalog snapshot (copy-on-add)
	Name        string
	SetID       SetID
	SeriesID    SeriesID
	Rarity      string
	HP          int
	ImageURL    string
	MarketPrice *decimal.Decimal

	// User-supplied metadata
	Condition  string
	Price      *decimal.Decimal // manually entered purchase/value price
	Notes      string
	AcquiredAt time.Time
	Quantity   int // >= 1

	CreatedAt time.Time
	UpdatedAt time.Time
}

// =============================================================================
// WISHLIST ENTRY - A card the user wants
// =============================================================================

// WishlistEntry records one wanted card.
// INVARIANT: at most one WishlistEntry per (UserID, CardID).
type WishlistEntry struct {
	ID       EntryID
	UserID   UserID
	CardID   CardID
	Language Language

	// Catalog snapshot (copy-on-add)
	Name        string
	SetID       SetID
	SeriesID    SeriesID
	Rarity      string
	ImageURL    string
	MarketPrice *decimal.Decimal

	Priority     Priority
	DesiredPrice *decimal.Decimal
	Notes        string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// =============================================================================
// PRIORITY - Three-level enum, stored as ordinal
// =============================================================================

// Priority is the wishlist priority ordinal: 0=low, 1=medium, 2=high.
//
// Client input is dual-typed: either the string enum ("low"/"medium"/"high")
// or the numeric ordinal. Both forms are accepted at the JSON boundary and
// normalized here; nothing past this type ever sees the string form.
type Priority int

const (
	PriorityLow    Priority = 0
	PriorityMedium Priority = 1
	PriorityHigh   Priority = 2
)

// ParsePriority normalizes a string form. Unrecognized input falls back to
// medium rather than failing; priority is a hint, not a contract.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "0":
		return PriorityLow
	case "medium", "1":
		return PriorityMedium
	case "high", "2":
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityHigh:
		return "high"
	default:
		return "medium"
	}
}

// UnmarshalJSON accepts either the ordinal (1) or the enum string ("medium").
func (p *Priority) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		v := Priority(n)
		if !v.Valid() {
			v = PriorityMedium
		}
		*p = v
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = ParsePriority(s)
	return nil
}

func (p Priority) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(p))), nil
}

// =============================================================================
// VALUE SNAPSHOT - Frozen collection value at a point in time
// =============================================================================

// ValueSnapshot captures a user's collection value for historical tracking.
// Manual and market totals are kept separate; they may be in different
// currencies and are never summed together.
type ValueSnapshot struct {
	ID          string
	UserID      UserID
	TakenAt     time.Time
	TotalCards  int // ledger rows (language copies counted individually)
	UniqueCards int // distinct card identifiers
	ManualTotal decimal.Decimal
	MarketTotal decimal.Decimal
}
