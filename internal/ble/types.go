package ble

import (
	"errors"

	"github.com/D0ntPanic/tpscube/internal/cube"
)

var (
	ErrNotConnected     = errors.New("ble: not connected to a cube")
	ErrAlreadyConnected = errors.New("ble: already connected to a cube")
	ErrDeviceNotFound   = errors.New("ble: device no longer available")
	ErrTimeout          = errors.New("ble: connection timed out")
	ErrUnknownVendor    = errors.New("ble: cube vendor not recognized")
	ErrMalformedPacket  = errors.New("ble: malformed notification packet")

	// ErrGANKeyDeriverRequired is returned when a GAN cube is found but
	// no KeyDeriver has been configured. GAN's packet encryption is
	// vendor-private; this package never guesses at it.
	ErrGANKeyDeriverRequired = errors.New("ble: GAN cube requires a configured KeyDeriver")

	// ErrGoCubeStateTimeout is returned when a GoCube does not answer an
	// initial state request within the connect handshake's deadline.
	ErrGoCubeStateTimeout = errors.New("ble: timed out waiting for initial GoCube state")
)

// Vendor identifies which smart-cube protocol a discovered device speaks.
type Vendor int

const (
	VendorUnknown Vendor = iota
	VendorGAN
	VendorGoCube
	VendorGiiker
	VendorMoYu
)

func (v Vendor) String() string {
	switch v {
	case VendorGAN:
		return "GAN"
	case VendorGoCube:
		return "GoCube"
	case VendorGiiker:
		return "Giiker"
	case VendorMoYu:
		return "MoYu"
	default:
		return "Unknown"
	}
}

// vendorFromName classifies a device by its advertised local name prefix.
// A device that matches none of the named prefixes is left as
// VendorUnknown here; MoYu cubes are only confirmed by GATT service UUID
// once a connection attempt discovers their characteristics.
func vendorFromName(name string) Vendor {
	switch {
	case hasPrefix(name, "GAN"), hasPrefix(name, "MG"):
		return VendorGAN
	case hasPrefix(name, "GoCube"), hasPrefix(name, "Rubiks"):
		return VendorGoCube
	case hasPrefix(name, "Gi"), hasPrefix(name, "Mi Smart"):
		return VendorGiiker
	default:
		return VendorUnknown
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// State is the coarse connection lifecycle of a BluetoothCube.
type State int

const (
	StateDiscovering State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "discovering"
	}
}

// AvailableDevice is a discovered peripheral classified as a smart cube.
type AvailableDevice struct {
	Address string
	Name    string
	Vendor  Vendor
}

// MoveEvent is delivered to registered move listeners whenever a driver
// decodes one or more moves from a notification.
type MoveEvent struct {
	Moves []cube.TimedMove
	State *cube.Cube3x3x3
}

// MoveListenerHandle identifies a registered move listener for later removal.
type MoveListenerHandle uint64

// Driver is the per-vendor decoder and command surface a connected cube
// exposes to the BluetoothCube facade. Every vendor driver in this
// package implements it; needs_update/update default to a no-op pair
// for drivers that never require active polling.
type Driver interface {
	CubeState() *cube.Cube3x3x3
	BatteryPercentage() (percent int, ok bool)
	BatteryCharging() (charging bool, ok bool)
	ResetCubeState()
	Synced() bool
	NeedsUpdate() bool
	Update()
	Disconnect() error
}
