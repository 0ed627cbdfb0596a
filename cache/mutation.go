/*
mutation.go - Per-mutation snapshot, apply, commit, rollback

PURPOSE:
  One Mutation instance tracks one in-flight ledger mutation through the
  state machine: Pending (snapshot taken, provisional data applied) ->
  Confirmed (snapshot discarded, derived views invalidated) or RolledBack
  (snapshot restored).

CONCURRENCY RULE:
  Snapshots are scoped per mutation instance, taken at each mutation's own
  dispatch time - never a single global snapshot. When two mutations touch
  the same key, rollback of one must not clobber the other's still-pending
  or already-confirmed write. Every key carries a version counter; Apply
  records the version it wrote, and Rollback restores a key only while the
  key is still at exactly that version. If a sibling has written since, the
  restore is skipped for that key.

SEE ALSO:
  - arena.go: key/slot storage
  - coordinator.go: drives this machine around real ledger calls
*/
package cache

// =============================================================================
// MUTATION STATE MACHINE
// =============================================================================

type MutationState int

const (
	StatePending MutationState = iota
	StateConfirmed
	StateRolledBack
)

type snapshot struct {
	data    any
	status  Status
	existed bool
	// written is the version this mutation's Apply produced for the key;
	// zero until Apply touches the key.
	written uint64
}

// Mutation is one in-flight optimistic mutation against an arena.
type Mutation struct {
	arena *Arena
	state MutationState
	snaps map[Key]*snapshot
}

// Begin snapshots the named keys at dispatch time and returns a Pending
// mutation. Keys not yet cached are snapshotted as absent so rollback can
// remove a provisional entry that had no predecessor.
func (a *Arena) Begin(keys ...Key) *Mutation {
	a.mu.Lock()
	defer a.mu.Unlock()

	m := &Mutation{arena: a, state: StatePending, snaps: make(map[Key]*snapshot, len(keys))}
	for _, key := range keys {
		s, ok := a.slots[key]
		m.snaps[key] = &snapshot{data: s.data, status: s.status, existed: ok}
	}
	return m
}

func (m *Mutation) State() MutationState { return m.state }

// Apply writes provisional data for key synchronously, so the UI reflects
// the change before the server responds. fn receives the current cached
// value (ok=false when absent) and returns the provisional value. Keys must
// have been named in Begin.
func (m *Mutation) Apply(key Key, fn func(old any, ok bool) any) {
	if m.state != StatePending {
		return
	}
	a := m.arena
	a.mu.Lock()
	defer a.mu.Unlock()

	snap, tracked := m.snaps[key]
	if !tracked {
		return
	}
	cur, ok := a.slots[key]
	snap.written = a.putLocked(key, fn(cur.data, ok), StatusFresh)
}

// Commit discards the snapshots and marks the given derived views stale so
// the next read refetches authoritative server state.
func (m *Mutation) Commit(invalidate ...Key) {
	if m.state != StatePending {
		return
	}
	m.state = StateConfirmed
	m.snaps = nil
	m.arena.Invalidate(invalidate...)
}

// Rollback restores each snapshotted key to its pre-dispatch value, unless a
// sibling mutation has rewritten the key since our provisional apply.
func (m *Mutation) Rollback() {
	if m.state != StatePending {
		return
	}
	m.state = StateRolledBack

	a := m.arena
	a.mu.Lock()
	defer a.mu.Unlock()

	for key, snap := range m.snaps {
		cur, ok := a.slots[key]

		if snap.written == 0 {
			// Never applied; nothing of ours to undo.
			continue
		}
		if !ok || cur.version != snap.written {
			// A sibling wrote after us (or the slot is gone); their state
			// stands, whether still pending or already confirmed.
			continue
		}

		if !snap.existed {
			delete(a.slots, key)
			continue
		}
		a.putLocked(key, snap.data, snap.status)
	}
	m.snaps = nil
}
