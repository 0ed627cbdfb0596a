/*
manager.go - Per-user coordinator registry

PURPOSE:
  Server-side sessions each need their own arena; sharing one across users
  would leak collection data between identities. The Manager hands out one
  Coordinator per user id and tears it down on logout.
*/
package cache

import (
	"sync"

	"github.com/ashir876/Catch-Collect-sub001/collection"
	"github.com/ashir876/Catch-Collect-sub001/progress"

	"github.com/ashir876/Catch-Collect-sub001/catalog"
)

// Manager creates and tracks per-user Coordinators over shared ledgers.
type Manager struct {
	Ownership  *collection.OwnershipLedger
	Wishlist   *collection.WishlistLedger
	Reconciler *progress.Reconciler

	mu           sync.Mutex
	coordinators map[catalog.UserID]*Coordinator
}

func NewManager(ownership *collection.OwnershipLedger, wishlist *collection.WishlistLedger, reconciler *progress.Reconciler) *Manager {
	return &Manager{
		Ownership:    ownership,
		Wishlist:     wishlist,
		Reconciler:   reconciler,
		coordinators: make(map[catalog.UserID]*Coordinator),
	}
}

// For returns the coordinator for a user, creating it on first use.
func (m *Manager) For(userID catalog.UserID) *Coordinator {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coordinators[userID]
	if !ok {
		c = NewCoordinator(userID, m.Ownership, m.Wishlist, m.Reconciler)
		m.coordinators[userID] = c
	}
	return c
}

// Logout clears and forgets a user's cached state.
func (m *Manager) Logout(userID catalog.UserID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.coordinators[userID]; ok {
		c.Logout()
		delete(m.coordinators, userID)
	}
}
