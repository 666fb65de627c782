package history

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/D0ntPanic/tpscube/internal/actionlog"
	"github.com/D0ntPanic/tpscube/internal/domain"
	"github.com/D0ntPanic/tpscube/internal/kv"
	"github.com/D0ntPanic/tpscube/internal/syncproto"
)

func newSolve(sessionID uuid.UUID, timeMs uint32) domain.Solve {
	return domain.Solve{
		ID:        uuid.New(),
		SolveType: "3x3x3",
		SessionID: sessionID,
		Created:   time.Now().UTC(),
		TimeMs:    timeMs,
	}
}

func TestOpenOnEmptyStoreGeneratesSyncKey(t *testing.T) {
	store := kv.NewMemStore()
	h, err := Open(store)
	require.NoError(t, err)
	require.NotEqual(t, syncproto.SyncKey{}, h.key)

	data, ok, err := store.Get(keySyncKey)
	require.NoError(t, err)
	require.True(t, ok)
	_, err = syncproto.Parse(string(data))
	require.NoError(t, err)
}

func TestNewSolveIsVisibleInSessionAndStats(t *testing.T) {
	store := kv.NewMemStore()
	h, err := Open(store)
	require.NoError(t, err)

	session := uuid.New()
	s := newSolve(session, 9000)
	applied, err := h.NewSolve(s)
	require.NoError(t, err)
	require.True(t, applied)

	list := h.Solves(session)
	require.Len(t, list, 1)
	require.Equal(t, s.ID, list[0].ID)

	stats := h.Stats(session)
	require.Equal(t, 1, stats.Count)
	require.True(t, stats.HasBest)
	require.Equal(t, s.ID, stats.Best.ID)
}

func TestPenaltyOnUnknownSolveIsRejected(t *testing.T) {
	store := kv.NewMemStore()
	h, err := Open(store)
	require.NoError(t, err)

	applied, err := h.SetPenalty(uuid.New(), domain.Penalty{Kind: domain.PenaltyDNF})
	require.NoError(t, err)
	require.False(t, applied)
}

func TestMergeSessionsMovesSolvesAndDeletesSecond(t *testing.T) {
	store := kv.NewMemStore()
	h, err := Open(store)
	require.NoError(t, err)

	first, second := uuid.New(), uuid.New()
	s := newSolve(second, 12000)
	_, err = h.NewSolve(s)
	require.NoError(t, err)

	applied, err := h.MergeSessions(first, second)
	require.NoError(t, err)
	require.True(t, applied)

	firstSolves := h.Solves(first)
	require.Len(t, firstSolves, 1)
	require.Equal(t, s.ID, firstSolves[0].ID)

	secondSolves := h.Solves(second)
	require.Empty(t, secondSolves)
}

func TestMergeSessionsRejectsMissingSecond(t *testing.T) {
	store := kv.NewMemStore()
	h, err := Open(store)
	require.NoError(t, err)

	applied, err := h.MergeSessions(uuid.New(), uuid.New())
	require.NoError(t, err)
	require.False(t, applied)
}

func TestDeleteSolveRemovesFromSessionAndMap(t *testing.T) {
	store := kv.NewMemStore()
	h, err := Open(store)
	require.NoError(t, err)

	session := uuid.New()
	s := newSolve(session, 5000)
	_, err = h.NewSolve(s)
	require.NoError(t, err)

	applied, err := h.DeleteSolve(s.ID)
	require.NoError(t, err)
	require.True(t, applied)
	require.Empty(t, h.Solves(session))

	// Deleting again is rejected: the solve no longer exists.
	applied, err = h.DeleteSolve(s.ID)
	require.NoError(t, err)
	require.False(t, applied)
}

func TestHistorySurvivesReload(t *testing.T) {
	store := kv.NewMemStore()
	h, err := Open(store)
	require.NoError(t, err)

	session := uuid.New()
	s := newSolve(session, 8000)
	_, err = h.NewSolve(s)
	require.NoError(t, err)

	reopened, err := Open(store)
	require.NoError(t, err)
	list := reopened.Solves(session)
	require.Len(t, list, 1)
	require.Equal(t, s.ID, list[0].ID)
}

func TestSyncRoundTripMovesLocalActionsToSynced(t *testing.T) {
	store := kv.NewMemStore()
	h, err := Open(store)
	require.NoError(t, err)

	session := uuid.New()
	s := newSolve(session, 7000)
	_, err = h.NewSolve(s)
	require.NoError(t, err)

	req, started, err := h.StartSync()
	require.NoError(t, err)
	require.True(t, started)
	require.NotEmpty(t, req.Upload)

	// No second sync can start while one is in flight.
	_, started, err = h.StartSync()
	require.NoError(t, err)
	require.False(t, started)

	resp := syncproto.Response{SyncID: 1, Uploaded: 1}
	require.NoError(t, h.ResolveSync(resp))

	needsSync, err := h.NeedsSync()
	require.NoError(t, err)
	require.False(t, needsSync)

	// Solve is still visible post-sync, now served from the synced projection.
	list := h.Solves(session)
	require.Len(t, list, 1)
	require.Equal(t, s.ID, list[0].ID)

	// A fresh History opened against the same store sees the same state.
	reopened, err := Open(store)
	require.NoError(t, err)
	require.Len(t, reopened.Solves(session), 1)
}

func TestSyncConflictBetweenTwoClientsSharingAKey(t *testing.T) {
	session := uuid.New()

	// Client A uploads two solves first and fully drains its local log.
	storeA := kv.NewMemStore()
	a, err := Open(storeA)
	require.NoError(t, err)
	a1 := newSolve(session, 11000)
	a2 := newSolve(session, 12000)
	_, err = a.NewSolve(a1)
	require.NoError(t, err)
	_, err = a.NewSolve(a2)
	require.NoError(t, err)

	reqA, started, err := a.StartSync()
	require.NoError(t, err)
	require.True(t, started)
	require.Equal(t, uint32(0), reqA.SyncID)
	require.NoError(t, a.ResolveSync(syncproto.Response{SyncID: 2, Uploaded: 2}))

	// Client B, also at sync_id=0, tries to upload b1; the server rejects
	// it because A moved the sync forward first, and pushes A's actions.
	storeB := kv.NewMemStore()
	b, err := Open(storeB)
	require.NoError(t, err)
	b1 := newSolve(session, 13000)
	_, err = b.NewSolve(b1)
	require.NoError(t, err)

	reqB1, started, err := b.StartSync()
	require.NoError(t, err)
	require.True(t, started)
	require.Equal(t, uint32(0), reqB1.SyncID)

	conflict := syncproto.Response{SyncID: 2, Uploaded: 0, Data: reqA.Upload}
	require.NoError(t, b.ResolveSync(conflict))

	needsSync, err := b.NeedsSync()
	require.NoError(t, err)
	require.True(t, needsSync, "b1 should still be pending after the conflict response")

	// B retries at sync_id=2; this time the server accepts b1.
	reqB2, started, err := b.StartSync()
	require.NoError(t, err)
	require.True(t, started)
	require.Equal(t, uint32(2), reqB2.SyncID)
	require.NotEmpty(t, reqB2.Upload)

	require.NoError(t, b.ResolveSync(syncproto.Response{SyncID: 3, Uploaded: 1}))

	needsSync, err = b.NeedsSync()
	require.NoError(t, err)
	require.False(t, needsSync, "b's local log must be empty once b1 is synced")

	list := b.Solves(session)
	require.Len(t, list, 3)
	ids := map[uuid.UUID]bool{}
	for _, s := range list {
		ids[s.ID] = true
	}
	require.True(t, ids[a1.ID] && ids[a2.ID] && ids[b1.ID])
}

func TestSyncRoundTripAppliesServerPushedActions(t *testing.T) {
	store := kv.NewMemStore()
	h, err := Open(store)
	require.NoError(t, err)

	_, started, err := h.StartSync()
	require.NoError(t, err)
	require.True(t, started)

	session := uuid.New()
	remoteSolve := newSolve(session, 4200)
	data := base64.StdEncoding.EncodeToString(actionlog.EncodeActions([]actionlog.StoredAction{
		{ID: uuid.New(), Payload: actionlog.NewSolve{Solve: remoteSolve}},
	}))
	resp := syncproto.Response{SyncID: 1, Uploaded: 0, Data: data}
	require.NoError(t, h.ResolveSync(resp))

	list := h.Solves(session)
	require.Len(t, list, 1)
	require.Equal(t, remoteSolve.ID, list[0].ID)
}
