package ble

import (
	"sync"

	"github.com/D0ntPanic/tpscube/internal/cube"
)

// KeyDeriver produces the per-device decryption key for a GAN smart
// cube from its Bluetooth MAC address. GAN's notification encryption
// and key derivation scheme are vendor-private and differ across
// hardware generations; this package does not guess at them. Supply a
// KeyDeriver obtained through proper channels (vendor SDK, disclosed
// protocol docs) to enable packet decoding.
type KeyDeriver interface {
	DeriveKey(mac [6]byte) []byte
}

// GANDecoder turns a decrypted notification payload into the moves and
// resulting state it describes. Like KeyDeriver, no concrete
// implementation ships here: the wire layout downstream of decryption
// is just as vendor-private as the key derivation itself.
type GANDecoder func(key []byte, packet []byte) (moves []cube.TimedMove, state *cube.Cube3x3x3, err error)

// GANDriver is a pluggable seam for GAN cubes: it derives a key from
// the device's MAC address and, if a decoder is also supplied, applies
// it to incoming notifications. Without a decoder it tracks nothing
// beyond "desynced", since there is no grounded packet format to fall
// back on.
type GANDriver struct {
	mu sync.Mutex

	mac    [6]byte
	key    []byte
	decode GANDecoder

	state  *cube.Cube3x3x3
	synced bool

	disconnectFn func() error
}

// NewGANDriver derives the device key via deriver and returns a driver
// ready to receive notifications. decode may be nil, in which case the
// driver never leaves the desynced state once the first notification
// arrives (there is nothing to decode it with).
func NewGANDriver(mac [6]byte, deriver KeyDeriver, decode GANDecoder, disconnect func() error) (*GANDriver, error) {
	if deriver == nil {
		return nil, ErrGANKeyDeriverRequired
	}
	return &GANDriver{
		mac:          mac,
		key:          deriver.DeriveKey(mac),
		decode:       decode,
		state:        cube.NewCube3x3x3(),
		synced:       true,
		disconnectFn: disconnect,
	}, nil
}

// HandleNotification attempts to decode one notification payload using
// the configured decoder. It reports desynced rather than guessing when
// no decoder is wired or the decoder rejects the packet.
func (d *GANDriver) HandleNotification(packet []byte) []cube.TimedMove {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.decode == nil {
		d.synced = false
		return nil
	}
	moves, state, err := d.decode(d.key, packet)
	if err != nil {
		d.synced = false
		return nil
	}
	d.state = state
	d.synced = true
	return moves
}

func (d *GANDriver) CubeState() *cube.Cube3x3x3 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.Clone()
}

func (d *GANDriver) BatteryPercentage() (int, bool) { return 0, false }
func (d *GANDriver) BatteryCharging() (bool, bool)  { return false, false }

func (d *GANDriver) ResetCubeState() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = cube.NewCube3x3x3()
}

func (d *GANDriver) Synced() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.synced
}

func (d *GANDriver) NeedsUpdate() bool { return false }
func (d *GANDriver) Update()           {}

func (d *GANDriver) Disconnect() error {
	return d.disconnectFn()
}
