// Package history implements the history engine (C6): two replayed
// projections ("synced" and "local on top of synced"), at-most-once
// action application, sync-key rotation on startup, and the client
// side of the sync lifecycle described in internal/syncproto.
package history

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/D0ntPanic/tpscube/internal/actionlog"
	"github.com/D0ntPanic/tpscube/internal/domain"
	"github.com/D0ntPanic/tpscube/internal/kv"
	"github.com/D0ntPanic/tpscube/internal/syncproto"
)

const (
	localListName  = "local"
	syncedListName = "synced"
	keySyncKey     = "sync_key"
	keySyncID      = "sync_id"
	keySession     = "session"
)

// History is the in-process replay engine. Its public surface is
// synchronous and single-threaded: callers drive the sync lifecycle
// by calling StartSync, performing the network round trip themselves,
// and feeding the result to ResolveSync.
type History struct {
	mu sync.Mutex

	store  kv.Store
	local  *actionlog.ActionList
	synced *actionlog.ActionList

	syncedProj projection
	solvesProj projection

	updateID uint64
	key      syncproto.SyncKey
	syncID   uint32
	inFlight bool
}

// Open loads (or initialises) a History against store. On first use,
// or if the persisted sync key is missing/malformed, a fresh key is
// generated and any existing synced log is prepended onto the local
// log so its contents are re-uploaded under the new key.
func Open(store kv.Store) (*History, error) {
	local, err := actionlog.Load(store, localListName)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}
	synced, err := actionlog.Load(store, syncedListName)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}

	h := &History{store: store, local: local, synced: synced}
	if err := h.loadOrRotateSyncKey(); err != nil {
		return nil, err
	}
	if err := h.rebuildProjections(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *History) loadOrRotateSyncKey() error {
	data, ok, err := h.store.Get(keySyncKey)
	if err != nil {
		return fmt.Errorf("history: load sync key: %w", err)
	}

	var key syncproto.SyncKey
	valid := false
	if ok {
		if parsed, perr := syncproto.Parse(string(data)); perr == nil {
			key, valid = parsed, true
		}
	}

	if valid {
		h.key = key
		idBytes, ok, err := h.store.Get(keySyncID)
		if err != nil {
			return fmt.Errorf("history: load sync id: %w", err)
		}
		if ok && len(idBytes) == 4 {
			h.syncID = binary.LittleEndian.Uint32(idBytes)
		}
		return nil
	}

	fresh, err := syncproto.Generate()
	if err != nil {
		return fmt.Errorf("history: generate sync key: %w", err)
	}
	h.key = fresh
	if err := h.store.Put(keySyncKey, []byte(fresh.String())); err != nil {
		return fmt.Errorf("history: persist sync key: %w", err)
	}
	// Data captured under the old key must not be lost: move it to the
	// front of the local log so it gets re-uploaded under the new key.
	if err := h.local.Prepend(h.store, h.synced); err != nil {
		return fmt.Errorf("history: rotate sync key: %w", err)
	}
	h.syncID = 0
	if err := h.persistSyncID(); err != nil {
		return err
	}
	return nil
}

func (h *History) persistSyncID() error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], h.syncID)
	if err := h.store.Put(keySyncID, buf[:]); err != nil {
		return fmt.Errorf("history: persist sync id: %w", err)
	}
	return nil
}

func (h *History) rebuildProjections() error {
	syncedActions, err := h.synced.All(h.store)
	if err != nil {
		return fmt.Errorf("history: replay synced log: %w", err)
	}
	sp := newProjection()
	for _, a := range syncedActions {
		resolveAction(&sp, a)
	}
	h.syncedProj = sp

	localActions, err := h.local.All(h.store)
	if err != nil {
		return fmt.Errorf("history: replay local log: %w", err)
	}
	solveProj := sp.clone()
	for _, a := range localActions {
		resolveAction(&solveProj, a)
	}
	h.solvesProj = solveProj
	h.updateID++
	return nil
}

// UpdateID returns the current replay generation counter: it
// increments every time either projection changes, so UI layers can
// cheaply detect "nothing to redraw".
func (h *History) UpdateID() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.updateID
}

// ApplyAction assigns payload a fresh id and attempts to replay it
// against the current solves projection. If accepted, it is appended
// to the local log and persisted; if rejected (dangling reference),
// nothing is written and applied is false.
func (h *History) ApplyAction(payload actionlog.Payload) (applied bool, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	candidate := actionlog.StoredAction{ID: uuid.New(), Payload: payload}
	trial := h.solvesProj.clone()
	if !resolveAction(&trial, candidate) {
		return false, nil
	}

	h.local.Push(candidate)
	if err := h.local.Commit(h.store, false); err != nil {
		return false, fmt.Errorf("history: apply action: %w", err)
	}
	h.solvesProj = trial
	h.updateID++
	return true, nil
}

// NewSolve records a freshly completed solve.
func (h *History) NewSolve(s domain.Solve) (bool, error) {
	return h.ApplyAction(actionlog.NewSolve{Solve: s})
}

// SetPenalty overwrites a solve's penalty.
func (h *History) SetPenalty(solveID uuid.UUID, p domain.Penalty) (bool, error) {
	return h.ApplyAction(actionlog.Penalty{SolveID: solveID, Penalty: p})
}

// ChangeSession moves a solve to a different session (created on demand).
func (h *History) ChangeSession(solveID, sessionID uuid.UUID) (bool, error) {
	return h.ApplyAction(actionlog.ChangeSession{SolveID: solveID, SessionID: sessionID})
}

// MergeSessions moves every solve of second into first (created on
// demand) and deletes second.
func (h *History) MergeSessions(first, second uuid.UUID) (bool, error) {
	return h.ApplyAction(actionlog.MergeSessions{First: first, Second: second})
}

// RenameSession sets or clears (name == nil) a session's display name.
func (h *History) RenameSession(sessionID uuid.UUID, name *string) (bool, error) {
	return h.ApplyAction(actionlog.RenameSession{SessionID: sessionID, Name: name})
}

// DeleteSolve removes a solve permanently.
func (h *History) DeleteSolve(solveID uuid.UUID) (bool, error) {
	return h.ApplyAction(actionlog.DeleteSolve{SolveID: solveID})
}

// Solves returns every solve currently assigned to sessionID, in the
// order Domain.Solve.Before defines.
func (h *History) Solves(sessionID uuid.UUID) domain.SolveList {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out domain.SolveList
	for _, s := range h.solvesProj.Solves {
		if s.SessionID == sessionID {
			out = append(out, s)
		}
	}
	return out.Sorted()
}

// Sessions returns a snapshot of every known session.
func (h *History) Sessions() []domain.Session {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]domain.Session, 0, len(h.solvesProj.Sessions))
	for _, s := range h.solvesProj.Sessions {
		cp := *s
		cp.SolveIDs = make(map[uuid.UUID]struct{}, len(s.SolveIDs))
		for id := range s.SolveIDs {
			cp.SolveIDs[id] = struct{}{}
		}
		out = append(out, cp)
	}
	return out
}

// SessionStats is a display-ready summary built from a session's SolveList.
type SessionStats struct {
	Count        int
	Best         domain.Solve
	HasBest      bool
	Average5     uint32
	HasAverage5  bool
	Average12    uint32
	HasAverage12 bool
}

// Stats summarises a session's solves.
func (h *History) Stats(sessionID uuid.UUID) SessionStats {
	list := h.Solves(sessionID)
	st := SessionStats{Count: len(list)}
	if best, ok := list.BestSolve(); ok {
		st.Best, st.HasBest = best, true
	}
	if avg, ok := list.Average(5); ok {
		st.Average5, st.HasAverage5 = avg, true
	}
	if avg, ok := list.Average(12); ok {
		st.Average12, st.HasAverage12 = avg, true
	}
	return st
}

// CurrentSession returns the persisted "active session" pointer used
// by callers to decide where a new solve belongs, if one was set.
func (h *History) CurrentSession() (uuid.UUID, bool, error) {
	data, ok, err := h.store.Get(keySession)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("history: load current session: %w", err)
	}
	if !ok {
		return uuid.Nil, false, nil
	}
	id, err := uuid.Parse(string(data))
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("history: load current session: %w", err)
	}
	return id, true, nil
}

// SetCurrentSession persists the active session pointer.
func (h *History) SetCurrentSession(id uuid.UUID) error {
	if err := h.store.Put(keySession, []byte(id.String())); err != nil {
		return fmt.Errorf("history: set current session: %w", err)
	}
	return nil
}
