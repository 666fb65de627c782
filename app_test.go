package tpscube

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/D0ntPanic/tpscube/internal/config"
	"github.com/D0ntPanic/tpscube/internal/kv"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := Open(config.Config{}, WithStore(kv.NewMemStore()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app
}

func TestOpenWithMemStoreRoundTripsASolve(t *testing.T) {
	app := newTestApp(t)

	session := uuid.New()
	scrambleMoves, err := app.Scramble3x3x3()
	if err != nil {
		t.Fatalf("Scramble3x3x3: %v", err)
	}
	applied, err := app.RecordSolve(session, "3x3x3", scrambleMoves, 12345, "", nil)
	if err != nil {
		t.Fatalf("RecordSolve: %v", err)
	}
	if !applied {
		t.Fatalf("expected solve to apply")
	}

	solves := app.History().Solves(session)
	if len(solves) != 1 || solves[0].TimeMs != 12345 {
		t.Fatalf("unexpected solves: %+v", solves)
	}
}

func TestSyncWithoutEndpointReturnsNetworkFailure(t *testing.T) {
	app := newTestApp(t)
	if err := app.Sync(context.Background()); !errors.Is(err, ErrNetworkFailure) {
		t.Fatalf("expected ErrNetworkFailure when no sync endpoint is configured, got %v", err)
	}
}

func TestScramble2x2x2ProducesASolvableScramble(t *testing.T) {
	app := newTestApp(t)
	moves, err := app.Scramble2x2x2()
	if err != nil {
		t.Fatalf("Scramble2x2x2: %v", err)
	}
	if len(moves) == 0 {
		t.Fatalf("expected a non-empty scramble")
	}
}
