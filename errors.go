package tpscube

import (
	"errors"

	"github.com/D0ntPanic/tpscube/internal/ble"
	"github.com/D0ntPanic/tpscube/internal/solver"
	"github.com/D0ntPanic/tpscube/internal/syncproto"
)

// The error taxonomy from spec.md §7, re-exported at the facade level
// so callers of App never need to import the internal packages that
// actually originate these sentinels. Each alias wraps errors.Is-compatible
// with its internal origin.
var (
	// ErrInvalidSyncKey is returned when a sync key fails validation.
	ErrInvalidSyncKey = syncproto.ErrInvalidSyncKey
	// ErrMalformedPacket is returned when a BLE notification cannot be decoded.
	ErrMalformedPacket = ble.ErrMalformedPacket
	// ErrAPIVersionMismatch is returned when the sync endpoint rejects a
	// request as speaking an incompatible protocol version.
	ErrAPIVersionMismatch = syncproto.ErrAPIVersionMismatch
	// ErrNoSolution is returned by the solver when no solution exists
	// within the configured move budget.
	ErrNoSolution = solver.ErrNoSolution
	// ErrNotConnected is returned by cube operations when no Bluetooth
	// device is currently connected.
	ErrNotConnected = ble.ErrNotConnected

	// ErrInvalidAction names an action that cannot even be
	// constructed (malformed payload), distinct from action rejection
	// (dangling reference), which is not an error: resolving such an
	// action against history just returns applied=false. No App method
	// returns it.
	ErrInvalidAction = errors.New("tpscube: invalid action")

	// ErrStorageUnavailable is returned by Open when the SQLite
	// key-value backend cannot be opened. A write error that the
	// deferred storage queue latches later is reported as the backend's
	// own error, not wrapped in this sentinel.
	ErrStorageUnavailable = errors.New("tpscube: storage unavailable")

	// ErrNetworkFailure is returned when a sync round trip fails for
	// reasons other than a protocol version mismatch.
	ErrNetworkFailure = errors.New("tpscube: sync network failure")
)
