package ble

import (
	"fmt"
	"sync"
	"time"

	"github.com/D0ntPanic/tpscube/internal/cube"
)

// GoCube BLE UUIDs (Nordic UART service).
const (
	GoCubeServiceUUID = "6e400001-b5a3-f393-e0a9-e50e24dcca9e"
	GoCubeWriteUUID   = "6e400002-b5a3-f393-e0a9-e50e24dcca9e"
	GoCubeNotifyUUID  = "6e400003-b5a3-f393-e0a9-e50e24dcca9e"
)

const (
	goCubeMsgRotate  = 0x01
	goCubeMsgState   = 0x02
	goCubeMsgBattery = 0x05

	goCubeCmdRequestBattery     = 0x32
	goCubeCmdRequestState       = 0x33
	goCubeCmdResetState         = 0x35
	goCubeCmdDisableOrientation = 0x37

	goCubeStateTimeout = 2 * time.Second
	goCubePollInterval = 200 * time.Millisecond
)

var goCubeMoveTable = [12]cube.Move{
	cube.MoveB, cube.MoveBPrime,
	cube.MoveF, cube.MoveFPrime,
	cube.MoveU, cube.MoveUPrime,
	cube.MoveD, cube.MoveDPrime,
	cube.MoveR, cube.MoveRPrime,
	cube.MoveL, cube.MoveLPrime,
}

// Per wire-format face index, the face in this package's ordinal scheme
// and the color painted onto its center facelet.
var goCubeStateFaces = [6]cube.Face{cube.FaceB, cube.FaceF, cube.FaceU, cube.FaceD, cube.FaceR, cube.FaceL}
var goCubeStateColors = [6]cube.Color{cube.Blue, cube.Green, cube.White, cube.Yellow, cube.Red, cube.Orange}

// goCubeFaceletOrder walks the eight non-center facelets of a face
// clockwise starting at the top-left; goCubeOrderOffset rotates that
// walk per wire face to line it up with how the device reports it.
var goCubeFaceletOrder = [8]int{0, 1, 2, 5, 8, 7, 6, 3}
var goCubeOrderOffset = [6]int{0, 0, 6, 2, 0, 0}

func decodeGoCubeState(value []byte) (*cube.Cube3x3x3, error) {
	if len(value) < 64 {
		return nil, ErrMalformedPacket
	}
	var colors [54]cube.Color
	for face := 0; face < 6; face++ {
		target := goCubeStateFaces[face]
		offset := int(target) * 9
		colors[offset+4] = goCubeStateColors[face]
		for i := 0; i < 8; i++ {
			colorIdx := value[4+face*9+i]
			if colorIdx >= 6 {
				return nil, ErrMalformedPacket
			}
			colors[offset+goCubeFaceletOrder[(i+goCubeOrderOffset[face])%8]] = goCubeStateColors[colorIdx]
		}
	}
	return cube.FromColors(colors).AsPieces()
}

// GoCubeDriver decodes GoCube/Rubik's Connected notifications and owns
// the mirror cube state they describe.
type GoCubeDriver struct {
	mu    sync.Mutex
	state *cube.Cube3x3x3

	battery       *int
	synced        bool
	stateReceived bool

	start        time.Time
	lastMoveTime time.Duration

	write        func(data []byte) error
	disconnectFn func() error
}

// NewGoCubeDriver wires a driver to the connection's write/disconnect
// primitives. Call Connect to run the device handshake before use.
func NewGoCubeDriver(write func([]byte) error, disconnect func() error) *GoCubeDriver {
	return &GoCubeDriver{
		state:        cube.NewCube3x3x3(),
		synced:       true,
		start:        time.Now(),
		write:        write,
		disconnectFn: disconnect,
	}
}

// Connect disables onboard orientation tracking, then polls for an
// initial state snapshot until one arrives or the timeout elapses.
func (d *GoCubeDriver) Connect() error {
	if err := d.write([]byte{goCubeCmdDisableOrientation}); err != nil {
		return fmt.Errorf("ble: gocube disable orientation: %w", err)
	}

	deadline := time.Now().Add(goCubeStateTimeout)
	for {
		if err := d.write([]byte{goCubeCmdRequestState}); err != nil {
			return fmt.Errorf("ble: gocube request state: %w", err)
		}
		time.Sleep(goCubePollInterval)

		d.mu.Lock()
		received := d.stateReceived
		d.mu.Unlock()
		if received {
			break
		}
		if time.Now().After(deadline) {
			return ErrGoCubeStateTimeout
		}
	}

	if err := d.write([]byte{goCubeCmdRequestBattery}); err != nil {
		return fmt.Errorf("ble: gocube request battery: %w", err)
	}
	return nil
}

// HandleNotification decodes one notification payload, returning any
// moves it described (nil for state/battery messages or malformed data).
func (d *GoCubeDriver) HandleNotification(value []byte) []cube.TimedMove {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(value) < 4 || len(value) < int(value[1]) || value[1] < 4 {
		d.synced = false
		return nil
	}

	switch value[2] {
	case goCubeMsgRotate:
		count := (int(value[1]) - 4) / 2
		moves := make([]cube.Move, 0, count)
		for i := 0; i < count; i++ {
			idx := int(value[3+i*2])
			if idx >= len(goCubeMoveTable) {
				d.synced = false
				return nil
			}
			mv := goCubeMoveTable[idx]
			d.state.Apply(mv)
			moves = append(moves, mv)
		}

		now := time.Since(d.start)
		delta := now - d.lastMoveTime
		d.lastMoveTime = now

		timed := make([]cube.TimedMove, len(moves))
		for i, mv := range moves {
			var ms uint32
			if i == 0 {
				ms = uint32(delta.Milliseconds())
			}
			timed[i] = cube.TimedMove{Move: mv, DeltaMs: ms}
		}
		return timed

	case goCubeMsgState:
		state, err := decodeGoCubeState(value)
		if err != nil {
			d.synced = false
			return nil
		}
		d.state = state
		d.stateReceived = true
		return nil

	case goCubeMsgBattery:
		if len(value) < 4 {
			return nil
		}
		b := int(value[3])
		d.battery = &b
		return nil
	}
	return nil
}

func (d *GoCubeDriver) CubeState() *cube.Cube3x3x3 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.Clone()
}

func (d *GoCubeDriver) BatteryPercentage() (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.battery == nil {
		return 0, false
	}
	return *d.battery, true
}

// BatteryCharging is unsupported: GoCube reports no charging indicator.
func (d *GoCubeDriver) BatteryCharging() (bool, bool) { return false, false }

func (d *GoCubeDriver) ResetCubeState() {
	d.mu.Lock()
	defer d.mu.Unlock()
	// Best effort: the mirror is reset locally regardless of whether the
	// write reaches the device.
	_ = d.write([]byte{goCubeCmdResetState})
	d.state = cube.NewCube3x3x3()
}

func (d *GoCubeDriver) Synced() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.synced
}

func (d *GoCubeDriver) NeedsUpdate() bool { return false }
func (d *GoCubeDriver) Update()           {}

func (d *GoCubeDriver) Disconnect() error {
	return d.disconnectFn()
}
