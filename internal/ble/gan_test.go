package ble

import (
	"errors"
	"testing"

	"github.com/D0ntPanic/tpscube/internal/cube"
)

type fixedKeyDeriver struct{ key []byte }

func (f fixedKeyDeriver) DeriveKey(mac [6]byte) []byte { return f.key }

func TestNewGANDriverRequiresDeriver(t *testing.T) {
	_, err := NewGANDriver([6]byte{}, nil, nil, func() error { return nil })
	if !errors.Is(err, ErrGANKeyDeriverRequired) {
		t.Fatalf("expected ErrGANKeyDeriverRequired, got %v", err)
	}
}

func TestGANDriverWithoutDecoderAlwaysDesyncs(t *testing.T) {
	d, err := NewGANDriver([6]byte{1, 2, 3, 4, 5, 6}, fixedKeyDeriver{key: []byte{0xaa}}, nil, func() error { return nil })
	if err != nil {
		t.Fatalf("NewGANDriver: %v", err)
	}
	if !d.Synced() {
		t.Fatalf("expected initial synced state")
	}
	d.HandleNotification([]byte{0x01, 0x02, 0x03})
	if d.Synced() {
		t.Fatalf("expected desync: no decoder is wired for the vendor-private GAN wire format")
	}
}

func TestGANDriverUsesDerivedKeyAndDecoder(t *testing.T) {
	mac := [6]byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01}
	var sawKey []byte
	decode := func(key, packet []byte) ([]cube.TimedMove, *cube.Cube3x3x3, error) {
		sawKey = key
		c := cube.NewCube3x3x3()
		c.Apply(cube.MoveR)
		return []cube.TimedMove{{Move: cube.MoveR}}, c, nil
	}

	d, err := NewGANDriver(mac, fixedKeyDeriver{key: []byte{1, 2, 3}}, decode, func() error { return nil })
	if err != nil {
		t.Fatalf("NewGANDriver: %v", err)
	}
	moves := d.HandleNotification([]byte{0xff})
	if len(moves) != 1 || moves[0].Move != cube.MoveR {
		t.Fatalf("unexpected moves: %v", moves)
	}
	if len(sawKey) != 3 || sawKey[0] != 1 {
		t.Fatalf("expected decoder to receive the derived key, got %v", sawKey)
	}
	if !d.Synced() {
		t.Fatalf("expected synced after a successful decode")
	}
}

func TestGANDriverDesyncsOnDecodeError(t *testing.T) {
	decode := func(key, packet []byte) ([]cube.TimedMove, *cube.Cube3x3x3, error) {
		return nil, nil, errors.New("bad packet")
	}
	d, err := NewGANDriver([6]byte{}, fixedKeyDeriver{}, decode, func() error { return nil })
	if err != nil {
		t.Fatalf("NewGANDriver: %v", err)
	}
	d.HandleNotification([]byte{0x00})
	if d.Synced() {
		t.Fatalf("expected desync when decoder rejects a packet")
	}
}
