package ble

import (
	"testing"

	"github.com/D0ntPanic/tpscube/internal/cube"
)

func giikerPacket(moveByte byte) []byte {
	p := make([]byte, 20)
	p[16] = moveByte
	p[18] = 0x00 // not an obfuscated packet
	return p
}

func TestGiikerDiscardsFirstNotification(t *testing.T) {
	d := NewGiikerDriver(func() error { return nil })
	moves := d.HandleNotification(giikerPacket(0x41)) // U
	if moves != nil {
		t.Fatalf("expected first notification to be discarded, got %v", moves)
	}
}

func TestGiikerDecodesMoveAfterFirst(t *testing.T) {
	d := NewGiikerDriver(func() error { return nil })
	d.HandleNotification(giikerPacket(0x41)) // discarded
	moves := d.HandleNotification(giikerPacket(0x41))
	if len(moves) != 1 || moves[0].Move != cube.MoveU {
		t.Fatalf("expected U, got %v", moves)
	}
}

func TestGiikerRejectsUnknownMoveByte(t *testing.T) {
	d := NewGiikerDriver(func() error { return nil })
	d.HandleNotification(giikerPacket(0x00)) // discarded first
	d.HandleNotification(giikerPacket(0xff))
	if d.Synced() {
		t.Fatalf("expected desync on unrecognized move byte")
	}
}

func TestGiikerTooShortPacketDesyncs(t *testing.T) {
	d := NewGiikerDriver(func() error { return nil })
	d.HandleNotification(make([]byte, 10))
	if d.Synced() {
		t.Fatalf("expected desync on short packet")
	}
}

func TestGiikerDecodesObfuscatedPacket(t *testing.T) {
	d := NewGiikerDriver(func() error { return nil })
	d.HandleNotification(giikerPacket(0x00)) // discarded first

	// Build a packet whose bytes, once un-obfuscated by the same
	// wrapping-add scheme the driver applies, spell out a U move.
	keyOffsetA, keyOffsetB := 1, 2
	plain := make([]byte, 20)
	plain[16] = 0x41 // U
	obfuscated := make([]byte, 20)
	copy(obfuscated, plain)
	for i := 0; i < 18; i++ {
		obfuscated[i] = plain[i] - giikerKeyStream[i+keyOffsetA] - giikerKeyStream[i+keyOffsetB]
	}
	obfuscated[18] = 0xa7
	obfuscated[19] = byte(keyOffsetA<<4 | keyOffsetB)

	moves := d.HandleNotification(obfuscated)
	if len(moves) != 1 || moves[0].Move != cube.MoveU {
		t.Fatalf("expected U after de-obfuscation, got %v", moves)
	}
}
