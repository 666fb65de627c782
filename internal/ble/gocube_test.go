package ble

import (
	"testing"

	"github.com/D0ntPanic/tpscube/internal/cube"
)

func TestGoCubeDecodesSingleRotateMessage(t *testing.T) {
	d := NewGoCubeDriver(func([]byte) error { return nil }, func() error { return nil })

	// header byte, length byte (6), msg type ROTATE, move index (U=4), pad, pad
	packet := []byte{0x00, 0x06, goCubeMsgRotate, 0x04, 0x00, 0x00}
	moves := d.HandleNotification(packet)
	if len(moves) != 1 {
		t.Fatalf("expected 1 move, got %d", len(moves))
	}
	if moves[0].Move != cube.MoveU {
		t.Fatalf("expected U, got %v", moves[0].Move)
	}
	if !d.Synced() {
		t.Fatalf("expected driver to remain synced")
	}
}

func TestGoCubeDecodesMultiMoveRotateMessage(t *testing.T) {
	d := NewGoCubeDriver(func([]byte) error { return nil }, func() error { return nil })

	// Two moves: index 4 (U) then index 6 (D).
	packet := []byte{0x00, 0x08, goCubeMsgRotate, 0x04, 0x00, 0x06, 0x00, 0x00}
	moves := d.HandleNotification(packet)
	if len(moves) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(moves))
	}
	if moves[0].Move != cube.MoveU || moves[1].Move != cube.MoveD {
		t.Fatalf("unexpected moves: %v", moves)
	}
	if moves[1].DeltaMs != 0 {
		t.Fatalf("second move in a batch should carry no extra delay, got %d", moves[1].DeltaMs)
	}
}

func TestGoCubeRejectsUnknownMoveIndex(t *testing.T) {
	d := NewGoCubeDriver(func([]byte) error { return nil }, func() error { return nil })
	packet := []byte{0x00, 0x06, goCubeMsgRotate, 0xff, 0x00, 0x00}
	d.HandleNotification(packet)
	if d.Synced() {
		t.Fatalf("expected driver to flag desync on unrecognized move index")
	}
}

func solvedGoCubeStatePacket() []byte {
	data := make([]byte, 64)
	data[1] = 64
	data[2] = goCubeMsgState
	for face := 0; face < 6; face++ {
		for i := 0; i < 8; i++ {
			data[4+face*9+i] = byte(face)
		}
	}
	return data
}

func TestGoCubeDecodesSolvedStateMessage(t *testing.T) {
	d := NewGoCubeDriver(func([]byte) error { return nil }, func() error { return nil })
	d.HandleNotification(solvedGoCubeStatePacket())

	state := d.CubeState()
	if !state.IsSolved() {
		t.Fatalf("expected solved state from solved STATE packet")
	}
	if !d.stateReceived {
		t.Fatalf("expected stateReceived to be set")
	}
}

func TestGoCubeRejectsInvalidColorIndex(t *testing.T) {
	d := NewGoCubeDriver(func([]byte) error { return nil }, func() error { return nil })
	packet := solvedGoCubeStatePacket()
	packet[4] = 0xff
	d.HandleNotification(packet)
	if d.Synced() {
		t.Fatalf("expected desync on invalid color index")
	}
}

func TestGoCubeDecodesBatteryMessage(t *testing.T) {
	d := NewGoCubeDriver(func([]byte) error { return nil }, func() error { return nil })
	packet := []byte{0x00, 0x04, goCubeMsgBattery, 0x5a}
	d.HandleNotification(packet)

	percent, ok := d.BatteryPercentage()
	if !ok || percent != 0x5a {
		t.Fatalf("expected battery 90%%, got %d ok=%v", percent, ok)
	}
}

func TestGoCubeTooShortPacketDesyncs(t *testing.T) {
	d := NewGoCubeDriver(func([]byte) error { return nil }, func() error { return nil })
	d.HandleNotification([]byte{0x00, 0x01})
	if d.Synced() {
		t.Fatalf("expected desync on too-short packet")
	}
}

func TestGoCubeResetClearsMirrorAndWrites(t *testing.T) {
	var written []byte
	d := NewGoCubeDriver(func(data []byte) error {
		written = data
		return nil
	}, func() error { return nil })

	d.HandleNotification([]byte{0x00, 0x06, goCubeMsgRotate, 0x04, 0x00, 0x00})
	d.ResetCubeState()

	if !d.CubeState().IsSolved() {
		t.Fatalf("expected mirror reset to solved")
	}
	if len(written) != 1 || written[0] != goCubeCmdResetState {
		t.Fatalf("expected reset command written, got %v", written)
	}
}
