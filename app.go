package tpscube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/D0ntPanic/tpscube/internal/ble"
	"github.com/D0ntPanic/tpscube/internal/config"
	"github.com/D0ntPanic/tpscube/internal/cube"
	"github.com/D0ntPanic/tpscube/internal/domain"
	"github.com/D0ntPanic/tpscube/internal/history"
	"github.com/D0ntPanic/tpscube/internal/kv"
	"github.com/D0ntPanic/tpscube/internal/scramble"
	"github.com/D0ntPanic/tpscube/internal/solver"
	"github.com/D0ntPanic/tpscube/internal/storagequeue"
	"github.com/D0ntPanic/tpscube/internal/syncproto"
)

// Option configures an App at construction time, following the same
// functional-options idiom internal/solver and internal/scramble use.
type Option func(*appOptions)

type appOptions struct {
	store        kv.Store
	bleAdapter   *ble.BluetoothCube
	syncClient   *syncproto.Client
	syncEndpoint string
	logger       *slog.Logger
}

// WithStore overrides the key-value backend (e.g. kv.NewMemStore for tests).
func WithStore(store kv.Store) Option {
	return func(o *appOptions) { o.store = store }
}

// WithSyncEndpoint configures the HTTP endpoint used by Sync.
func WithSyncEndpoint(endpoint string) Option {
	return func(o *appOptions) { o.syncEndpoint = endpoint }
}

// WithLogger overrides the default structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithBluetoothAdapter injects an already-constructed BluetoothCube,
// e.g. one built with ble.WithAdapter for a test double.
func WithBluetoothAdapter(c *ble.BluetoothCube) Option {
	return func(o *appOptions) { o.bleAdapter = c }
}

// App is the top-level facade: a durable, sync-capable solve history
// plus on-demand access to the solver, scramble generator and the
// Bluetooth smart-cube adapter. The zero value is not usable; build
// one with Open.
type App struct {
	store   kv.Store // queued wrapper, used by History
	backend kv.Store // underlying backend, closed by Close
	history *history.History
	solver  *solver.Solver
	scr     *scramble.Generator
	log     *slog.Logger

	syncClient *syncproto.Client

	mu   sync.Mutex
	cube *ble.BluetoothCube
}

// Open builds an App against cfg, opening (or creating) the
// configured database and loading its history. Callers must Close the
// returned App when done.
func Open(cfg config.Config, opts ...Option) (*App, error) {
	o := &appOptions{logger: cfg.Logger()}
	for _, opt := range opts {
		opt(o)
	}

	store := o.store
	if store == nil {
		path, err := cfg.ResolvedDBPath()
		if err != nil {
			return nil, fmt.Errorf("tpscube: resolve db path: %w", err)
		}
		sqliteStore, err := kv.OpenSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		store = sqliteStore
	}
	queued := storagequeue.NewStore(store)

	h, err := history.Open(queued)
	if err != nil {
		return nil, fmt.Errorf("tpscube: open history: %w", err)
	}

	s := solver.New()
	endpoint := o.syncEndpoint
	if endpoint == "" {
		endpoint = cfg.SyncEndpoint
	}
	var syncClient *syncproto.Client
	if endpoint != "" {
		syncClient = syncproto.NewClient(endpoint)
	}

	app := &App{
		store:      queued,
		backend:    store,
		history:    h,
		solver:     s,
		scr:        scramble.New(scramble.WithSolver(s)),
		log:        o.logger,
		syncClient: syncClient,
		cube:       o.bleAdapter,
	}
	return app, nil
}

// Close releases the underlying storage handle (and, if connected,
// the Bluetooth adapter). Safe to call even if Cube was never used.
func (a *App) Close() error {
	var closeErr error
	a.mu.Lock()
	c := a.cube
	a.mu.Unlock()
	if c != nil {
		closeErr = c.Close()
	}
	if err := a.store.Flush(); err != nil && closeErr == nil {
		closeErr = err
	}
	if closer, ok := a.backend.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil && closeErr == nil {
			closeErr = err
		}
	}
	return closeErr
}

// History returns the event-sourced solve history engine.
func (a *App) History() *history.History { return a.history }

// Solver returns the two-phase 3x3x3 / single-phase 2x2x2 solver.
func (a *App) Solver() *solver.Solver { return a.solver }

// Scramble3x3x3 generates a WCA-style random-state scramble.
func (a *App) Scramble3x3x3() ([]cube.Move, error) {
	return a.scr.Cube3x3x3()
}

// Scramble2x2x2 generates a random-state 2x2x2 scramble.
func (a *App) Scramble2x2x2() ([]cube.Move, error) {
	return a.scr.Cube2x2x2()
}

// Cube lazily connects the Bluetooth smart-cube adapter on first use
// and returns the same instance thereafter.
func (a *App) Cube() (*ble.BluetoothCube, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cube != nil {
		return a.cube, nil
	}
	c, err := ble.New()
	if err != nil {
		return nil, fmt.Errorf("tpscube: open bluetooth adapter: %w", err)
	}
	a.log.Info("bluetooth adapter opened")
	a.cube = c
	return c, nil
}

// RecordSolve appends a completed solve to history under sessionID.
func (a *App) RecordSolve(sessionID uuid.UUID, solveType string, scrambleMoves []cube.Move, timeMs uint32, device string, moves []cube.TimedMove) (bool, error) {
	s := domain.Solve{
		ID:        uuid.New(),
		SolveType: solveType,
		SessionID: sessionID,
		Scramble:  scrambleMoves,
		Created:   time.Now(),
		TimeMs:    timeMs,
		Device:    device,
		Moves:     moves,
	}
	return a.history.NewSolve(s)
}

// Sync drains the local action log against the configured sync
// endpoint, looping StartSync/dispatch/ResolveSync until the server
// reports nothing further to exchange. It returns ErrAPIVersionMismatch
// verbatim (via errors.Is) if the endpoint rejects this client's
// protocol version, and an error wrapping ErrNetworkFailure for any
// other failed round trip; both leave the local log untouched so a retry
// can pick back up cleanly.
func (a *App) Sync(ctx context.Context) error {
	if a.syncClient == nil {
		return fmt.Errorf("tpscube: sync: %w", ErrNetworkFailure)
	}
	for {
		req, started, err := a.history.StartSync()
		if err != nil {
			return fmt.Errorf("tpscube: sync: %w", err)
		}
		if !started {
			return nil
		}

		resp, err := a.syncClient.Sync(ctx, req)
		if err != nil {
			a.log.Warn("sync round trip failed", "error", err)
			if errors.Is(err, ErrAPIVersionMismatch) {
				return err
			}
			return fmt.Errorf("%w: %v", ErrNetworkFailure, err)
		}
		if err := a.history.ResolveSync(resp); err != nil {
			return fmt.Errorf("tpscube: sync: %w", err)
		}

		needsMore, err := a.history.NeedsSync()
		if err != nil {
			return fmt.Errorf("tpscube: sync: %w", err)
		}
		if !needsMore && !resp.More {
			return nil
		}
	}
}
