package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashir876/Catch-Collect-sub001/cache"
)

// =============================================================================
// SNAPSHOT / ROLLBACK TESTS
// =============================================================================

func TestMutation_Rollback_RestoresPreDispatchValue(t *testing.T) {
	// GIVEN: A cached list of 3 items, a mutation that provisionally appends
	// WHEN: The mutation rolls back
	// THEN: The list is restored to exactly the 3 items from dispatch time

	arena := cache.NewArena("user-1")
	key := cache.CollectionKey("user-1")
	arena.Put(key, []string{"a", "b", "c"})

	m := arena.Begin(key)
	m.Apply(key, func(old any, _ bool) any {
		return append([]string{"provisional"}, old.([]string)...)
	})

	data, _, ok := arena.Get(key)
	require.True(t, ok)
	assert.Len(t, data.([]string), 4, "provisional state should be visible")

	m.Rollback()

	data, status, ok := arena.Get(key)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, data.([]string))
	assert.Equal(t, cache.StatusFresh, status)
	assert.Equal(t, cache.StateRolledBack, m.State())
}

func TestMutation_Rollback_RemovesProvisionalEntryWithNoPredecessor(t *testing.T) {
	// GIVEN: A key that was never cached, a mutation that applies to it
	// WHEN: The mutation rolls back
	// THEN: The key is absent again, not cached as an empty value

	arena := cache.NewArena("user-1")
	key := cache.InCollectionKey("user-1", "base1-4")

	m := arena.Begin(key)
	m.Apply(key, func(any, bool) any { return true })

	_, _, ok := arena.Get(key)
	require.True(t, ok)

	m.Rollback()

	_, _, ok = arena.Get(key)
	assert.False(t, ok)
}

func TestMutation_Rollback_SkipsKeysRewrittenBySibling(t *testing.T) {
	// GIVEN: Two mutations over the same key; the first applies, then the
	//        second applies on top
	// WHEN: The first rolls back
	// THEN: The second mutation's write stands; only untouched keys restore

	arena := cache.NewArena("user-1")
	key := cache.CollectionKey("user-1")
	arena.Put(key, []string{"a"})

	m1 := arena.Begin(key)
	m1.Apply(key, func(old any, _ bool) any {
		return append([]string{"m1"}, old.([]string)...)
	})

	m2 := arena.Begin(key)
	m2.Apply(key, func(old any, _ bool) any {
		return append([]string{"m2"}, old.([]string)...)
	})

	m1.Rollback()

	data, _, ok := arena.Get(key)
	require.True(t, ok)
	assert.Equal(t, []string{"m2", "m1", "a"}, data.([]string),
		"sibling's provisional state must survive the rollback")
}

func TestMutation_Rollback_SiblingAlreadyConfirmed(t *testing.T) {
	// GIVEN: A second mutation that applied and committed after the first
	// WHEN: The first rolls back
	// THEN: The confirmed state is not clobbered

	arena := cache.NewArena("user-1")
	key := cache.CollectionCountKey("user-1")
	arena.Put(key, 5)

	m1 := arena.Begin(key)
	m1.Apply(key, func(old any, _ bool) any { return old.(int) + 1 })

	m2 := arena.Begin(key)
	m2.Apply(key, func(old any, _ bool) any { return old.(int) + 1 })
	m2.Commit()

	m1.Rollback()

	data, _, ok := arena.Get(key)
	require.True(t, ok)
	assert.Equal(t, 7, data.(int))
}

func TestMutation_Rollback_SkipsNeverAppliedKeys(t *testing.T) {
	// GIVEN: A mutation that named a key in Begin but never applied to it,
	//        while another writer updated it in the meantime
	// WHEN: The mutation rolls back
	// THEN: The other writer's value is untouched

	arena := cache.NewArena("user-1")
	key := cache.WishlistKey("user-1")
	arena.Put(key, []string{"old"})

	m := arena.Begin(key)
	arena.Put(key, []string{"newer"})

	m.Rollback()

	data, _, ok := arena.Get(key)
	require.True(t, ok)
	assert.Equal(t, []string{"newer"}, data.([]string))
}

// =============================================================================
// COMMIT TESTS
// =============================================================================

func TestMutation_Commit_InvalidatesDerivedViews(t *testing.T) {
	// GIVEN: Cached progress and value views
	// WHEN: A mutation commits naming them for invalidation
	// THEN: They are marked stale but keep their data

	arena := cache.NewArena("user-1")
	listKey := cache.CollectionKey("user-1")
	progressKey := cache.ProgressKey("user-1")
	arena.Put(listKey, []string{"a"})
	arena.Put(progressKey, "derived")

	m := arena.Begin(listKey)
	m.Apply(listKey, func(old any, _ bool) any {
		return append([]string{"b"}, old.([]string)...)
	})
	m.Commit(listKey, progressKey)

	_, status, ok := arena.Get(progressKey)
	require.True(t, ok)
	assert.Equal(t, cache.StatusStale, status)

	data, status, ok := arena.Get(listKey)
	require.True(t, ok)
	assert.Equal(t, cache.StatusStale, status)
	assert.Equal(t, []string{"b", "a"}, data.([]string), "stale data is kept for display")
	assert.Equal(t, cache.StateConfirmed, m.State())
}

func TestMutation_CommitThenRollback_NoOp(t *testing.T) {
	// GIVEN: A committed mutation
	// WHEN: Rollback is called afterwards
	// THEN: Nothing changes; the state machine only moves once

	arena := cache.NewArena("user-1")
	key := cache.CollectionKey("user-1")
	arena.Put(key, 1)

	m := arena.Begin(key)
	m.Apply(key, func(any, bool) any { return 2 })
	m.Commit()
	m.Rollback()

	data, _, _ := arena.Get(key)
	assert.Equal(t, 2, data.(int))
	assert.Equal(t, cache.StateConfirmed, m.State())
}

// =============================================================================
// ARENA TESTS
// =============================================================================

func TestArena_Reset_DropsEverything(t *testing.T) {
	// GIVEN: An arena with cached views for one user
	// WHEN: Resetting for a different user
	// THEN: Every view is gone and the arena is rebound

	arena := cache.NewArena("user-1")
	arena.Put(cache.CollectionKey("user-1"), []string{"a"})
	arena.Put(cache.WishlistKey("user-1"), []string{"b"})

	arena.Reset("user-2")

	_, _, ok := arena.Get(cache.CollectionKey("user-1"))
	assert.False(t, ok)
	assert.Equal(t, "user-2", string(arena.UserID()))
}
