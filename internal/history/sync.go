package history

import (
	"fmt"

	"github.com/D0ntPanic/tpscube/internal/actionlog"
	"github.com/D0ntPanic/tpscube/internal/syncproto"
)

// StartSync snapshots the local log into a Request and marks a sync
// as in flight. It returns started=false without error if a sync is
// already in flight (at most one sync is in flight per History); the
// caller is expected to dispatch the returned request asynchronously
// and feed the result back through ResolveSync.
func (h *History) StartSync() (req syncproto.Request, started bool, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.inFlight {
		return syncproto.Request{}, false, nil
	}

	actions, err := h.local.All(h.store)
	if err != nil {
		return syncproto.Request{}, false, fmt.Errorf("history: start sync: %w", err)
	}
	h.inFlight = true
	return syncproto.NewRequest(h.key, h.syncID, actions), true, nil
}

// ResolveSync applies a completed sync round trip: new server actions
// are appended to the synced log, the prefix of the local log the
// server actually persisted (resp.Uploaded) is moved into the synced
// log, and both projections are rebuilt. Any local action that is no
// longer valid against the rebuilt synced state (e.g. its session was
// merged away by the remote side) is dropped, and the local log is
// rewritten without it.
func (h *History) ResolveSync(resp syncproto.Response) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.inFlight = false

	newActions, err := resp.NewActions()
	if err != nil {
		return fmt.Errorf("history: resolve sync: %w", err)
	}
	for _, a := range newActions {
		h.synced.Push(a)
	}

	localActions, err := h.local.All(h.store)
	if err != nil {
		return fmt.Errorf("history: resolve sync: %w", err)
	}
	uploaded := resp.Uploaded
	if uploaded < 0 {
		uploaded = 0
	}
	if uploaded > len(localActions) {
		uploaded = len(localActions)
	}
	for _, a := range localActions[:uploaded] {
		h.synced.Push(a)
	}
	if len(newActions) > 0 || uploaded > 0 {
		if err := h.synced.Commit(h.store, true); err != nil {
			return fmt.Errorf("history: resolve sync: %w", err)
		}
	}

	syncedAll, err := h.synced.All(h.store)
	if err != nil {
		return fmt.Errorf("history: resolve sync: %w", err)
	}
	sp := newProjection()
	for _, a := range syncedAll {
		resolveAction(&sp, a)
	}
	h.syncedProj = sp

	remainingLocal := append([]actionlog.StoredAction{}, localActions[uploaded:]...)
	solveProj := sp.clone()
	keptLocal := make([]actionlog.StoredAction, 0, len(remainingLocal))
	for _, a := range remainingLocal {
		if resolveAction(&solveProj, a) {
			keptLocal = append(keptLocal, a)
		}
	}
	h.solvesProj = solveProj

	if uploaded > 0 || len(keptLocal) != len(remainingLocal) {
		if err := h.local.DeleteBundles(h.store); err != nil {
			return fmt.Errorf("history: resolve sync: %w", err)
		}
		for _, a := range keptLocal {
			h.local.Push(a)
		}
		if err := h.local.Commit(h.store, true); err != nil {
			return fmt.Errorf("history: resolve sync: %w", err)
		}
	}

	h.syncID = resp.SyncID
	if err := h.persistSyncID(); err != nil {
		return err
	}
	h.updateID++
	return nil
}

// NeedsSync reports whether the local log is non-empty, i.e. whether
// the caller should immediately stage another sync after a
// ResolveSync that didn't fully drain it.
func (h *History) NeedsSync() (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	actions, err := h.local.All(h.store)
	if err != nil {
		return false, fmt.Errorf("history: needs sync: %w", err)
	}
	return len(actions) > 0, nil
}
