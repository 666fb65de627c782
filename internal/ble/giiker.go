package ble

import (
	"sync"
	"time"

	"github.com/D0ntPanic/tpscube/internal/cube"
)

// GiikerMoveDataUUID is the single notify characteristic Giiker cubes
// report moves on; the device ignores writes entirely, so battery
// level, charging state and reset are all either unsupported or
// mirror-only.
const GiikerMoveDataUUID = "0000aadc-0000-1000-8000-00805f9b34fb"

// giikerKeyStream is XORed (by wrapping addition) into obfuscated
// packets to recover the plain move byte.
var giikerKeyStream = [36]byte{
	0xb0, 0x51, 0x68, 0xe0, 0x56, 0x89, 0xed, 0x77, 0x26, 0x1a, 0xc1, 0xa1, 0xd2, 0x7e, 0x96,
	0x51, 0x5d, 0x0d, 0xec, 0xf9, 0x59, 0xeb, 0x58, 0x18, 0x71, 0x51, 0xd6, 0x83, 0x82, 0xc7,
	0x02, 0xa9, 0x27, 0xa5, 0xab, 0x29,
}

var giikerMoveTable = map[byte]cube.Move{
	0x11: cube.MoveB, 0x12: cube.MoveB2, 0x13: cube.MoveBPrime,
	0x21: cube.MoveD, 0x22: cube.MoveD2, 0x23: cube.MoveDPrime,
	0x31: cube.MoveL, 0x32: cube.MoveL2, 0x33: cube.MoveLPrime,
	0x41: cube.MoveU, 0x42: cube.MoveU2, 0x43: cube.MoveUPrime,
	0x51: cube.MoveR, 0x52: cube.MoveR2, 0x53: cube.MoveRPrime,
	0x61: cube.MoveF, 0x62: cube.MoveF2, 0x63: cube.MoveFPrime,
}

// GiikerDriver decodes Giiker/Mi Smart cube move notifications.
type GiikerDriver struct {
	mu     sync.Mutex
	state  *cube.Cube3x3x3
	synced bool
	first  bool

	start        time.Time
	lastMoveTime time.Duration

	disconnectFn func() error
}

// NewGiikerDriver assumes the cube starts solved: Giiker devices don't
// respond usefully to writes, so neither battery nor reset-to-device is
// possible, only the locally tracked mirror.
func NewGiikerDriver(disconnect func() error) *GiikerDriver {
	return &GiikerDriver{
		state:        cube.NewCube3x3x3(),
		synced:       true,
		first:        true,
		start:        time.Now(),
		disconnectFn: disconnect,
	}
}

// HandleNotification decodes one move-data notification. The very
// first notification received after connecting is always discarded:
// it reflects state captured before the connection was established.
func (d *GiikerDriver) HandleNotification(value []byte) []cube.TimedMove {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(value) < 20 {
		d.synced = false
		return nil
	}
	if d.first {
		d.first = false
		return nil
	}

	buf := append([]byte(nil), value...)
	if buf[18] == 0xa7 {
		a := int(buf[19] >> 4)
		b := int(buf[19] & 0xf)
		for i := 0; i < 18; i++ {
			buf[i] = buf[i] + giikerKeyStream[i+a] + giikerKeyStream[i+b]
		}
	}

	mv, ok := giikerMoveTable[buf[16]]
	if !ok {
		d.synced = false
		return nil
	}
	d.state.Apply(mv)

	now := time.Since(d.start)
	delta := now - d.lastMoveTime
	d.lastMoveTime = now

	return []cube.TimedMove{{Move: mv, DeltaMs: uint32(delta.Milliseconds())}}
}

func (d *GiikerDriver) CubeState() *cube.Cube3x3x3 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.Clone()
}

// BatteryPercentage is unsupported on Giiker: writes never get a reply.
func (d *GiikerDriver) BatteryPercentage() (int, bool) { return 0, false }
func (d *GiikerDriver) BatteryCharging() (bool, bool)  { return false, false }

func (d *GiikerDriver) ResetCubeState() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = cube.NewCube3x3x3()
}

func (d *GiikerDriver) Synced() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.synced
}

func (d *GiikerDriver) NeedsUpdate() bool { return false }
func (d *GiikerDriver) Update()           {}

func (d *GiikerDriver) Disconnect() error {
	return d.disconnectFn()
}
