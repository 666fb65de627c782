package actionlog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/D0ntPanic/tpscube/internal/cube"
	"github.com/D0ntPanic/tpscube/internal/domain"
	"github.com/D0ntPanic/tpscube/internal/kv"
)

func sampleSolve() domain.Solve {
	return domain.Solve{
		ID:        uuid.New(),
		SolveType: "3x3x3",
		SessionID: uuid.New(),
		Scramble:  cube.ParseMoves("R U R' U' F2 D L2"),
		Created:   time.Now().UTC().Truncate(time.Millisecond),
		TimeMs:    12345,
		Penalty:   domain.Penalty{Kind: domain.PenaltyPlusTime, TimeMs: 2000},
		Device:    "GAN12",
		Moves: []cube.TimedMove{
			{Move: cube.MoveR, DeltaMs: 0},
			{Move: cube.MoveUPrime, DeltaMs: 250},
		},
	}
}

func TestPushCommitLoadRoundTrips(t *testing.T) {
	store := kv.NewMemStore()
	list, err := Load(store, "local")
	require.NoError(t, err)

	a1 := StoredAction{ID: uuid.New(), Payload: NewSolve{Solve: sampleSolve()}}
	a2 := StoredAction{ID: uuid.New(), Payload: DeleteSolve{SolveID: uuid.New()}}
	list.Push(a1)
	list.Push(a2)
	require.NoError(t, list.Commit(store, true))

	reloaded, err := Load(store, "local")
	require.NoError(t, err)

	actions, err := reloaded.All(store)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	require.Equal(t, a1.ID, actions[0].ID)
	require.Equal(t, a2.ID, actions[1].ID)

	ns, ok := actions[0].Payload.(NewSolve)
	require.True(t, ok)
	require.Equal(t, a1.Payload.(NewSolve).Solve.ID, ns.Solve.ID)
	require.Equal(t, a1.Payload.(NewSolve).Solve.Scramble, ns.Solve.Scramble)
	require.Equal(t, a1.Payload.(NewSolve).Solve.Moves, ns.Solve.Moves)
	require.Equal(t, a1.Payload.(NewSolve).Solve.Created.UnixMilli(), ns.Solve.Created.UnixMilli())
}

func TestIterateOrderMatchesInsertionOrder(t *testing.T) {
	store := kv.NewMemStore()
	list, err := Load(store, "local")
	require.NoError(t, err)

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		a := StoredAction{ID: uuid.New(), Payload: DeleteSolve{SolveID: uuid.New()}}
		ids = append(ids, a.ID)
		list.Push(a)
	}
	require.NoError(t, list.Commit(store, true))

	var seen []uuid.UUID
	require.NoError(t, list.Iterate(store, func(_ Position, a StoredAction) (bool, error) {
		seen = append(seen, a.ID)
		return true, nil
	}))
	require.Equal(t, ids, seen)
}

func TestRemoveStartingAtTruncatesCurrentBundle(t *testing.T) {
	store := kv.NewMemStore()
	list, err := Load(store, "local")
	require.NoError(t, err)

	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		a := StoredAction{ID: uuid.New(), Payload: DeleteSolve{SolveID: uuid.New()}}
		ids = append(ids, a.ID)
		list.Push(a)
	}
	require.NoError(t, list.Commit(store, true))

	require.NoError(t, list.RemoveStartingAt(store, Position{ArchiveIdx: 0, ActionIdx: 2}))

	actions, err := list.All(store)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	require.Equal(t, ids[0], actions[0].ID)
	require.Equal(t, ids[1], actions[1].ID)

	reloaded, err := Load(store, "local")
	require.NoError(t, err)
	actions2, err := reloaded.All(store)
	require.NoError(t, err)
	require.Len(t, actions2, 2)
}

func TestPrependMovesContentToFront(t *testing.T) {
	store := kv.NewMemStore()
	synced, err := Load(store, "synced")
	require.NoError(t, err)
	local, err := Load(store, "local")
	require.NoError(t, err)

	oldLocal := StoredAction{ID: uuid.New(), Payload: DeleteSolve{SolveID: uuid.New()}}
	synced.Push(oldLocal)
	require.NoError(t, synced.Commit(store, true))

	newLocal := StoredAction{ID: uuid.New(), Payload: DeleteSolve{SolveID: uuid.New()}}
	local.Push(newLocal)
	require.NoError(t, local.Commit(store, true))

	require.NoError(t, local.Prepend(store, synced))

	actions, err := local.All(store)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	require.Equal(t, oldLocal.ID, actions[0].ID)
	require.Equal(t, newLocal.ID, actions[1].ID)

	syncedActions, err := synced.All(store)
	require.NoError(t, err)
	require.Empty(t, syncedActions)
}

func TestLoadOfMissingListIsEmpty(t *testing.T) {
	store := kv.NewMemStore()
	list, err := Load(store, "local")
	require.NoError(t, err)
	actions, err := list.All(store)
	require.NoError(t, err)
	require.Empty(t, actions)
}

func TestBundleRotatesPastThreshold(t *testing.T) {
	store := kv.NewMemStore()
	list, err := Load(store, "local")
	require.NoError(t, err)

	for i := 0; i < 3000; i++ {
		list.Push(StoredAction{ID: uuid.New(), Payload: NewSolve{Solve: sampleSolve()}})
		require.NoError(t, list.Commit(store, false))
	}

	reloaded, err := Load(store, "local")
	require.NoError(t, err)
	actions, err := reloaded.All(store)
	require.NoError(t, err)
	require.Len(t, actions, 3000)
	require.Greater(t, len(reloaded.archived), 0, "expected at least one bundle rotation over the threshold")
}
