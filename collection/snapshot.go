/*
snapshot.go - Collection value snapshots

PURPOSE:
  Freezes a user's collection value (totals and card counts) into a
  persisted snapshot so value history can be charted without replaying the
  whole collection for every past day. Snapshots are taken on demand; a
  caller that wants dailies schedules this itself.
*/
package collection

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ashir876/Catch-Collect-sub001/catalog"
)

// ValueSnapshotter computes and persists collection value snapshots.
type ValueSnapshotter struct {
	Collection catalog.CollectionStore
	Snapshots  catalog.SnapshotStore

	now func() time.Time
}

func NewValueSnapshotter(collection catalog.CollectionStore, snapshots catalog.SnapshotStore) *ValueSnapshotter {
	return &ValueSnapshotter{Collection: collection, Snapshots: snapshots, now: time.Now}
}

// Take computes the current collection value and persists it.
func (v *ValueSnapshotter) Take(ctx context.Context, userID catalog.UserID) (*catalog.ValueSnapshot, error) {
	if userID == "" {
		return nil, catalog.ErrNotAuthenticated
	}

	entries, err := v.Collection.ListOwnership(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := SummarizeOwnership(entries)

	unique := make(map[catalog.CardID]struct{}, len(entries))
	for _, e := range entries {
		unique[e.CardID] = struct{}{}
	}

	snapshot := catalog.ValueSnapshot{
		ID:          uuid.NewString(),
		UserID:      userID,
		TakenAt:     v.now(),
		TotalCards:  len(entries),
		UniqueCards: len(unique),
		ManualTotal: summary.ManualTotal,
		MarketTotal: summary.MarketTotal,
	}

	if err := v.Snapshots.SaveValueSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// History returns the snapshots for a user in [from, to], oldest first.
func (v *ValueSnapshotter) History(ctx context.Context, userID catalog.UserID, from, to time.Time) ([]catalog.ValueSnapshot, error) {
	return v.Snapshots.ListValueSnapshots(ctx, userID, from, to)
}
