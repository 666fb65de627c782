package ble

import (
	"sync"

	"github.com/D0ntPanic/tpscube/internal/cube"
)

// MoYu BLE UUIDs: the cube is write-incompatible with several host
// stacks, so the driver only ever subscribes to notifications.
const (
	MoYuTurnUUID = "00001003-0000-1000-8000-00805f9b34fb"
	MoYuGyroUUID = "00001004-0000-1000-8000-00805f9b34fb"
	MoYuReadUUID = "00001002-0000-1000-8000-00805f9b34fb"
)

// moyuFaces maps the device's per-report face index to this package's
// face ordinals.
var moyuFaces = [6]cube.Face{cube.FaceD, cube.FaceL, cube.FaceB, cube.FaceR, cube.FaceF, cube.FaceU}

func moveFromFaceAndRotation(face cube.Face, rotation int) cube.Move {
	offset := 0
	if rotation < 0 {
		offset = 1
	}
	return cube.Move(int(face)*3 + offset)
}

// MoYuDriver decodes MoYu turn reports: each report carries a
// 16.16 fixed-point timestamp, a face index and a signed, quantised
// rotation delta (36 ticks per quarter turn). A per-face accumulator
// tracked modulo 9 ticks emits a quarter turn whenever it crosses the
// 4-to-5 boundary in either direction.
type MoYuDriver struct {
	mu            sync.Mutex
	state         *cube.Cube3x3x3
	synced        bool
	faceRotations [6]int

	haveLastMoveTime bool
	lastMoveTime     float64 // seconds, device clock

	disconnectFn func() error
}

func NewMoYuDriver(disconnect func() error) *MoYuDriver {
	return &MoYuDriver{
		state:        cube.NewCube3x3x3(),
		synced:       true,
		disconnectFn: disconnect,
	}
}

// HandleTurnNotification decodes a count-prefixed batch of 6-byte turn
// reports from the turn characteristic.
func (d *MoYuDriver) HandleTurnNotification(value []byte) []cube.TimedMove {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(value) < 1 {
		d.synced = false
		return nil
	}
	count := int(value[0])
	if len(value) < 1+count*6 {
		d.synced = false
		return nil
	}

	var out []cube.TimedMove
	for i := 0; i < count; i++ {
		offset := 1 + i*6
		report := value[offset : offset+6]

		timestamp := float64(uint32(report[1])<<24|uint32(report[0])<<16|uint32(report[3])<<8|uint32(report[2])) / 65536.0
		face := int(report[4])
		if face >= len(moyuFaces) {
			d.synced = false
			continue
		}
		direction := int(int8(report[5])) / 36

		old := d.faceRotations[face]
		newRotation := old + direction
		d.faceRotations[face] = ((newRotation % 9) + 9) % 9

		var mv cube.Move
		hasMove := true
		switch {
		case old >= 5 && newRotation <= 4:
			mv = moveFromFaceAndRotation(moyuFaces[face], -1)
		case old <= 4 && newRotation >= 5:
			mv = moveFromFaceAndRotation(moyuFaces[face], 1)
		default:
			hasMove = false
		}
		if !hasMove {
			continue
		}

		prev := timestamp
		if d.haveLastMoveTime {
			prev = d.lastMoveTime
		}
		elapsed := timestamp - prev
		if elapsed < 0 {
			elapsed = 0
		}
		elapsedMs := uint32(elapsed * 1000.0)
		d.lastMoveTime = prev + float64(elapsedMs)/1000.0
		d.haveLastMoveTime = true

		d.state.Apply(mv)
		out = append(out, cube.TimedMove{Move: mv, DeltaMs: elapsedMs})
	}
	return out
}

func (d *MoYuDriver) CubeState() *cube.Cube3x3x3 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.Clone()
}

func (d *MoYuDriver) BatteryPercentage() (int, bool) { return 0, false }
func (d *MoYuDriver) BatteryCharging() (bool, bool)  { return false, false }

func (d *MoYuDriver) ResetCubeState() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = cube.NewCube3x3x3()
}

func (d *MoYuDriver) Synced() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.synced
}

func (d *MoYuDriver) NeedsUpdate() bool { return false }
func (d *MoYuDriver) Update()           {}

func (d *MoYuDriver) Disconnect() error {
	return d.disconnectFn()
}
