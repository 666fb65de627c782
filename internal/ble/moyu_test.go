package ble

import (
	"testing"

	"github.com/D0ntPanic/tpscube/internal/cube"
)

func moyuReport(face byte, timestamp uint32, direction int8) []byte {
	r := make([]byte, 6)
	r[0] = byte(timestamp >> 16)
	r[1] = byte(timestamp >> 24)
	r[2] = byte(timestamp)
	r[3] = byte(timestamp >> 8)
	r[4] = face
	r[5] = byte(direction)
	return r
}

func moyuBatch(reports ...[]byte) []byte {
	out := []byte{byte(len(reports))}
	for _, r := range reports {
		out = append(out, r...)
	}
	return out
}

func TestMoYuEmitsCWMoveOnRisingCrossing(t *testing.T) {
	d := NewMoYuDriver(func() error { return nil })

	// direction 36 ticks = +1 raw unit; starting from 0, need old<=4 and
	// new>=5, so accumulate until the 4->5 boundary is crossed.
	var last []cube.TimedMove
	for i := 0; i < 5; i++ {
		last = d.HandleTurnNotification(moyuBatch(moyuReport(5 /* Top/U */, uint32(i*65536), 36)))
	}
	if len(last) != 1 {
		t.Fatalf("expected a move on the 5th tick, got %v", last)
	}
	if last[0].Move != cube.MoveU {
		t.Fatalf("expected U (CW on Top), got %v", last[0].Move)
	}
}

func TestMoYuEmitsCCWMoveOnFallingCrossing(t *testing.T) {
	d := NewMoYuDriver(func() error { return nil })

	var last []cube.TimedMove
	for i := 0; i < 5; i++ {
		last = d.HandleTurnNotification(moyuBatch(moyuReport(5, uint32(i*65536), -36)))
	}
	if len(last) != 1 {
		t.Fatalf("expected a move on the 5th tick, got %v", last)
	}
	if last[0].Move != cube.MoveUPrime {
		t.Fatalf("expected U' (CCW on Top), got %v", last[0].Move)
	}
}

func TestMoYuBatchedReportsDecodeInOrder(t *testing.T) {
	d := NewMoYuDriver(func() error { return nil })

	reports := make([][]byte, 0, 5)
	for i := 0; i < 5; i++ {
		reports = append(reports, moyuReport(5, uint32(i*65536), 36))
	}
	moves := d.HandleTurnNotification(moyuBatch(reports...))
	if len(moves) != 1 {
		t.Fatalf("expected exactly 1 move across the batch, got %d: %v", len(moves), moves)
	}
}

func TestMoYuRejectsTruncatedBatch(t *testing.T) {
	d := NewMoYuDriver(func() error { return nil })
	d.HandleTurnNotification([]byte{2, 0, 0, 0, 0, 0, 0}) // claims 2 reports, has 1
	if d.Synced() {
		t.Fatalf("expected desync on truncated batch")
	}
}

func TestMoYuUnknownFaceIndexDesyncs(t *testing.T) {
	d := NewMoYuDriver(func() error { return nil })
	d.HandleTurnNotification(moyuBatch(moyuReport(6, 0, 36)))
	if d.Synced() {
		t.Fatalf("expected desync on out-of-range face index")
	}
}
