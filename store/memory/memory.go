// Package memory provides in-memory store implementations (for testing/dev).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ashir876/Catch-Collect-sub001/catalog"
)

// =============================================================================
// MEMORY STORE - Implements every storage interface in one place
// =============================================================================

// Store holds catalog, collection, wishlist, and snapshot data in maps.
// The wishlist uniqueness invariant is enforced under the store lock, so
// two concurrent adds for the same (user, card) cannot both succeed.
type Store struct {
	mu sync.RWMutex

	cards map[catalog.CardID][]catalog.CardRecord // sorted by language code
	sets  []catalog.CardSet

	ownership map[catalog.UserID][]catalog.OwnershipEntry
	wishlist  map[catalog.UserID][]catalog.WishlistEntry
	snapshots map[catalog.UserID][]catalog.ValueSnapshot
}

func New() *Store {
	return &Store{
		cards:     make(map[catalog.CardID][]catalog.CardRecord),
		ownership: make(map[catalog.UserID][]catalog.OwnershipEntry),
		wishlist:  make(map[catalog.UserID][]catalog.WishlistEntry),
		snapshots: make(map[catalog.UserID][]catalog.ValueSnapshot),
	}
}

// =============================================================================
// SEEDING - Test/dev helpers
// =============================================================================

// AddCard seeds a catalog row.
func (s *Store) AddCard(record catalog.CardRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	variants := append(s.cards[record.CardID], record)
	sort.Slice(variants, func(i, j int) bool { return variants[i].Language < variants[j].Language })
	s.cards[record.CardID] = variants
}

// AddSet seeds a set.
func (s *Store) AddSet(set catalog.CardSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets = append(s.sets, set)
}

// =============================================================================
// CATALOG STORE
// =============================================================================

func (s *Store) GetCard(_ context.Context, cardID catalog.CardID, language catalog.Language) (*catalog.CardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, record := range s.cards[cardID] {
		if record.Language == language {
			r := record
			return &r, nil
		}
	}
	return nil, nil
}

func (s *Store) ListCardVariants(_ context.Context, cardID catalog.CardID) ([]catalog.CardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]catalog.CardRecord{}, s.cards[cardID]...), nil
}

func (s *Store) ListSets(_ context.Context) ([]catalog.CardSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]catalog.CardSet{}, s.sets...), nil
}

func (s *Store) GetSet(_ context.Context, setID catalog.SetID) (*catalog.CardSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, set := range s.sets {
		if set.SetID == setID {
			v := set
			return &v, nil
		}
	}
	return nil, nil
}

func (s *Store) ListCardsBySet(_ context.Context, setID catalog.SetID) ([]catalog.CardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []catalog.CardRecord
	for _, variants := range s.cards {
		for _, record := range variants {
			if record.SetID == setID {
				result = append(result, record)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CardID != result[j].CardID {
			return result[i].CardID < result[j].CardID
		}
		return result[i].Language < result[j].Language
	})
	return result, nil
}

func (s *Store) ResolveCards(_ context.Context, cardIDs []catalog.CardID) (map[catalog.CardID]catalog.CardRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	refs := make(map[catalog.CardID]catalog.CardRef, len(cardIDs))
	for _, id := range cardIDs {
		variants := s.cards[id]
		if len(variants) == 0 {
			continue
		}
		refs[id] = catalog.CardRef{SetID: variants[0].SetID, Rarity: variants[0].Rarity}
	}
	return refs, nil
}

// =============================================================================
// COLLECTION STORE
// =============================================================================

func (s *Store) InsertOwnership(_ context.Context, entry catalog.OwnershipEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Newest first, matching the list contract.
	s.ownership[entry.UserID] = append([]catalog.OwnershipEntry{entry}, s.ownership[entry.UserID]...)
	return nil
}

func (s *Store) ListOwnership(_ context.Context, userID catalog.UserID) ([]catalog.OwnershipEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]catalog.OwnershipEntry{}, s.ownership[userID]...), nil
}

func (s *Store) ListOwnershipByCard(_ context.Context, userID catalog.UserID, cardID catalog.CardID) ([]catalog.OwnershipEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []catalog.OwnershipEntry
	for _, e := range s.ownership[userID] {
		if e.CardID == cardID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *Store) UpdateOwnership(_ context.Context, entry catalog.OwnershipEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.ownership[entry.UserID]
	for i := range entries {
		if entries[i].ID == entry.ID {
			entries[i] = entry
			return nil
		}
	}
	return catalog.ErrEntryNotFound
}

func (s *Store) DeleteOwnership(_ context.Context, userID catalog.UserID, cardID catalog.CardID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.ownership[userID]
	kept := entries[:0]
	removed := 0
	for _, e := range entries {
		if e.CardID == cardID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.ownership[userID] = kept
	return removed, nil
}

func (s *Store) CountOwnership(_ context.Context, userID catalog.UserID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ownership[userID]), nil
}

// =============================================================================
// WISHLIST STORE
// =============================================================================

func (s *Store) InsertWishlist(_ context.Context, entry catalog.WishlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Uniqueness is checked under the same lock as the insert; this is the
	// authoritative guard, not the ledger's read-then-write check.
	for _, e := range s.wishlist[entry.UserID] {
		if e.CardID == entry.CardID {
			return &catalog.DuplicateWishlistError{UserID: entry.UserID, CardID: entry.CardID, ExistingID: e.ID}
		}
	}
	s.wishlist[entry.UserID] = append([]catalog.WishlistEntry{entry}, s.wishlist[entry.UserID]...)
	return nil
}

func (s *Store) GetWishlistEntry(_ context.Context, entryID catalog.EntryID) (*catalog.WishlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, entries := range s.wishlist {
		for _, e := range entries {
			if e.ID == entryID {
				v := e
				return &v, nil
			}
		}
	}
	return nil, nil
}

func (s *Store) ListWishlist(_ context.Context, userID catalog.UserID) ([]catalog.WishlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]catalog.WishlistEntry{}, s.wishlist[userID]...), nil
}

func (s *Store) FindWishlist(_ context.Context, userID catalog.UserID, cardID catalog.CardID) (*catalog.WishlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.wishlist[userID] {
		if e.CardID == cardID {
			v := e
			return &v, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateWishlist(_ context.Context, entry catalog.WishlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.wishlist[entry.UserID]
	for i := range entries {
		if entries[i].ID == entry.ID {
			entries[i] = entry
			return nil
		}
	}
	return catalog.ErrEntryNotFound
}

func (s *Store) DeleteWishlist(_ context.Context, userID catalog.UserID, cardID catalog.CardID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.wishlist[userID]
	kept := entries[:0]
	removed := 0
	for _, e := range entries {
		if e.CardID == cardID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.wishlist[userID] = kept
	return removed, nil
}

func (s *Store) CountWishlist(_ context.Context, userID catalog.UserID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.wishlist[userID]), nil
}

// =============================================================================
// SNAPSHOT STORE
// =============================================================================

func (s *Store) SaveValueSnapshot(_ context.Context, snapshot catalog.ValueSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snaps := append(s.snapshots[snapshot.UserID], snapshot)
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].TakenAt.Before(snaps[j].TakenAt) })
	s.snapshots[snapshot.UserID] = snaps
	return nil
}

func (s *Store) ListValueSnapshots(_ context.Context, userID catalog.UserID, from, to time.Time) ([]catalog.ValueSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []catalog.ValueSnapshot
	for _, snap := range s.snapshots[userID] {
		if !snap.TakenAt.Before(from) && !snap.TakenAt.After(to) {
			result = append(result, snap)
		}
	}
	return result, nil
}

func (s *Store) LatestValueSnapshot(_ context.Context, userID catalog.UserID) (*catalog.ValueSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snaps := s.snapshots[userID]
	if len(snaps) == 0 {
		return nil, nil
	}
	v := snaps[len(snaps)-1]
	return &v, nil
}
