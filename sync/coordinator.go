// ABOUTME: Offline-first sync coordination across surveys, clients, and sales
// ABOUTME: Tracks connectivity and flips synced flags with idempotent semantics
package sync

import "fmt"

// Store is the persistence port the coordinator flips flags through.
type Store interface {
	// PendingSyncCount counts entities still only known locally: completed
	// unsynced surveys plus unsynced clients and sales.
	PendingSyncCount() (int, error)
	// MarkAllSynced flips every unsynced entity to synced and returns how
	// many were flipped. Repeated calls are harmless no-ops.
	MarkAllSynced() (int, error)
}

// Coordinator models the push side of offline-first sync. There is no
// transport here: a sync pass assumes the remote write succeeded and flips
// the flags in one batch. A real backend integration replaces MarkAllSynced
// with per-entity acknowledgement; the flag must stay false until then.
type Coordinator struct {
	store   Store
	online  bool
	syncing bool
}

func NewCoordinator(store Store) *Coordinator {
	return &Coordinator{store: store}
}

// SetOnline applies the connectivity signal. It never triggers a sync by
// itself; a pass stays operator initiated.
func (c *Coordinator) SetOnline(online bool) {
	c.online = online
}

func (c *Coordinator) Online() bool {
	return c.online
}

// CreatedSynced is the flag value for entities created right now: online
// creations are immediately acknowledged, offline ones wait for a pass.
func (c *Coordinator) CreatedSynced() bool {
	return c.online
}

// Pending returns the observability count of entities awaiting sync.
func (c *Coordinator) Pending() (int, error) {
	n, err := c.store.PendingSyncCount()
	if err != nil {
		return 0, fmt.Errorf("failed to count pending entities: %w", err)
	}
	return n, nil
}

// SyncAll flips every unsynced entity to synced and returns the count.
// Guarded preconditions, not errors: while offline or while another pass
// runs it does nothing and reports zero.
func (c *Coordinator) SyncAll() (int, error) {
	if !c.online || c.syncing {
		return 0, nil
	}

	c.syncing = true
	defer func() { c.syncing = false }()

	n, err := c.store.MarkAllSynced()
	if err != nil {
		return 0, fmt.Errorf("sync pass failed: %w", err)
	}
	return n, nil
}
