package actionlog

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/D0ntPanic/tpscube/internal/cube"
	"github.com/D0ntPanic/tpscube/internal/domain"
)

// bundleRotationThreshold is the serialised-size ceiling (64 KiB) at
// which a bundle is closed and a fresh one opened.
const bundleRotationThreshold = 64 * 1024

func writeUUID(w *bytes.Buffer, u uuid.UUID) {
	w.Write(u[:])
}

func readUUID(r *bytes.Reader) (uuid.UUID, error) {
	var u uuid.UUID
	if _, err := io.ReadFull(r, u[:]); err != nil {
		return uuid.Nil, err
	}
	return u, nil
}

func writeString(w *bytes.Buffer, s string) {
	if len(s) > 255 {
		s = s[:255]
	}
	w.WriteByte(byte(len(s)))
	w.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	n, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeUint32(w *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func writeInt64(w *bytes.Buffer, v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	w.Write(b[:])
}

func readInt64(r *bytes.Reader) (int64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

func writeMoves(w *bytes.Buffer, moves []cube.Move) {
	var count [2]byte
	binary.LittleEndian.PutUint16(count[:], uint16(len(moves)))
	w.Write(count[:])
	for _, m := range moves {
		w.WriteByte(byte(m))
	}
}

func readMoves(r *bytes.Reader) ([]cube.Move, error) {
	var countBuf [2]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, err
	}
	count := binary.LittleEndian.Uint16(countBuf[:])
	moves := make([]cube.Move, count)
	for i := range moves {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		moves[i] = cube.Move(b)
	}
	return moves, nil
}

func writeTimedMoves(w *bytes.Buffer, moves []cube.TimedMove) {
	var count [2]byte
	binary.LittleEndian.PutUint16(count[:], uint16(len(moves)))
	w.Write(count[:])
	for _, m := range moves {
		w.WriteByte(byte(m.Move))
		writeUint32(w, m.DeltaMs)
	}
}

func readTimedMoves(r *bytes.Reader) ([]cube.TimedMove, error) {
	var countBuf [2]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, err
	}
	count := binary.LittleEndian.Uint16(countBuf[:])
	moves := make([]cube.TimedMove, count)
	for i := range moves {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		delta, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		moves[i] = cube.TimedMove{Move: cube.Move(b), DeltaMs: delta}
	}
	return moves, nil
}

func writePenalty(w *bytes.Buffer, p domain.Penalty) {
	w.WriteByte(byte(p.Kind))
	writeUint32(w, p.TimeMs)
}

func readPenalty(r *bytes.Reader) (domain.Penalty, error) {
	kind, err := r.ReadByte()
	if err != nil {
		return domain.Penalty{}, err
	}
	ms, err := readUint32(r)
	if err != nil {
		return domain.Penalty{}, err
	}
	return domain.Penalty{Kind: domain.PenaltyKind(kind), TimeMs: ms}, nil
}

func writeOptionalString(w *bytes.Buffer, s *string) {
	if s == nil {
		w.WriteByte(0)
		return
	}
	w.WriteByte(1)
	writeString(w, *s)
}

func readOptionalString(r *bytes.Reader) (*string, error) {
	present, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if present == 0 {
		return nil, nil
	}
	s, err := readString(r)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func encodePayload(p Payload) []byte {
	var buf bytes.Buffer
	switch v := p.(type) {
	case NewSolve:
		writeUUID(&buf, v.Solve.ID)
		writeString(&buf, v.Solve.SolveType)
		writeUUID(&buf, v.Solve.SessionID)
		writeMoves(&buf, v.Solve.Scramble)
		writeInt64(&buf, v.Solve.Created.UnixMilli())
		writeUint32(&buf, v.Solve.TimeMs)
		writePenalty(&buf, v.Solve.Penalty)
		writeString(&buf, v.Solve.Device)
		writeTimedMoves(&buf, v.Solve.Moves)
	case Penalty:
		writeUUID(&buf, v.SolveID)
		writePenalty(&buf, v.Penalty)
	case ChangeSession:
		writeUUID(&buf, v.SolveID)
		writeUUID(&buf, v.SessionID)
	case MergeSessions:
		writeUUID(&buf, v.First)
		writeUUID(&buf, v.Second)
	case RenameSession:
		writeUUID(&buf, v.SessionID)
		writeOptionalString(&buf, v.Name)
	case DeleteSolve:
		writeUUID(&buf, v.SolveID)
	default:
		panic(fmt.Sprintf("actionlog: unknown payload type %T", p))
	}
	return buf.Bytes()
}

func decodePayload(t tag, body []byte) (Payload, error) {
	r := bytes.NewReader(body)
	switch t {
	case tagNewSolve:
		id, err := readUUID(r)
		if err != nil {
			return nil, err
		}
		solveType, err := readString(r)
		if err != nil {
			return nil, err
		}
		sessionID, err := readUUID(r)
		if err != nil {
			return nil, err
		}
		scramble, err := readMoves(r)
		if err != nil {
			return nil, err
		}
		createdMs, err := readInt64(r)
		if err != nil {
			return nil, err
		}
		timeMs, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		penalty, err := readPenalty(r)
		if err != nil {
			return nil, err
		}
		device, err := readString(r)
		if err != nil {
			return nil, err
		}
		moves, err := readTimedMoves(r)
		if err != nil {
			return nil, err
		}
		return NewSolve{Solve: domain.Solve{
			ID:        id,
			SolveType: solveType,
			SessionID: sessionID,
			Scramble:  scramble,
			Created:   time.UnixMilli(createdMs).UTC(),
			TimeMs:    timeMs,
			Penalty:   penalty,
			Device:    device,
			Moves:     moves,
		}}, nil
	case tagPenalty:
		solveID, err := readUUID(r)
		if err != nil {
			return nil, err
		}
		p, err := readPenalty(r)
		if err != nil {
			return nil, err
		}
		return Penalty{SolveID: solveID, Penalty: p}, nil
	case tagChangeSession:
		solveID, err := readUUID(r)
		if err != nil {
			return nil, err
		}
		sessionID, err := readUUID(r)
		if err != nil {
			return nil, err
		}
		return ChangeSession{SolveID: solveID, SessionID: sessionID}, nil
	case tagMergeSessions:
		first, err := readUUID(r)
		if err != nil {
			return nil, err
		}
		second, err := readUUID(r)
		if err != nil {
			return nil, err
		}
		return MergeSessions{First: first, Second: second}, nil
	case tagRenameSession:
		sessionID, err := readUUID(r)
		if err != nil {
			return nil, err
		}
		name, err := readOptionalString(r)
		if err != nil {
			return nil, err
		}
		return RenameSession{SessionID: sessionID, Name: name}, nil
	case tagDeleteSolve:
		solveID, err := readUUID(r)
		if err != nil {
			return nil, err
		}
		return DeleteSolve{SolveID: solveID}, nil
	default:
		return nil, unknownTagError{tag: t}
	}
}

// encodeAction appends one action record: id, tag, a 2-byte payload
// length (the "reserved skip length" that lets decoders tolerant of
// unknown tags skip past the record), then the payload.
func encodeAction(w *bytes.Buffer, a StoredAction) {
	writeUUID(w, a.ID)
	w.WriteByte(byte(a.Payload.payloadTag()))
	body := encodePayload(a.Payload)
	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(body)))
	w.Write(lenBuf[:])
	w.Write(body)
}

// decodeAction reads one action record. ok=false (with a nil error)
// means the tag was unrecognised and the record was skipped, not that
// anything is wrong with the stream.
func decodeAction(r *bytes.Reader) (StoredAction, bool, error) {
	id, err := readUUID(r)
	if err != nil {
		return StoredAction{}, false, err
	}
	tagByte, err := r.ReadByte()
	if err != nil {
		return StoredAction{}, false, err
	}
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return StoredAction{}, false, err
	}
	bodyLen := binary.LittleEndian.Uint16(lenBuf[:])
	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return StoredAction{}, false, err
	}

	payload, err := decodePayload(tag(tagByte), body)
	if err != nil {
		if _, unknown := err.(unknownTagError); unknown {
			return StoredAction{}, false, nil
		}
		return StoredAction{}, false, fmt.Errorf("actionlog: decode action %s: %w", id, err)
	}
	return StoredAction{ID: id, Payload: payload}, true, nil
}

type unknownTagError struct{ tag tag }

func (e unknownTagError) Error() string { return fmt.Sprintf("unknown tag %d", e.tag) }
