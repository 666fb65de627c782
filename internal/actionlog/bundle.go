package actionlog

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// ActionBundle is the unit of storage under a stable key: it
// accumulates actions until its serialised size reaches the rotation
// threshold.
type ActionBundle struct {
	BundleID       uuid.UUID
	Actions        []StoredAction
	PresentInIndex bool
}

func newBundle() ActionBundle {
	return ActionBundle{BundleID: uuid.New()}
}

func encodeBundle(b ActionBundle) []byte {
	var buf bytes.Buffer
	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], uint32(len(b.Actions)))
	buf.Write(count[:])
	for _, a := range b.Actions {
		encodeAction(&buf, a)
	}
	return buf.Bytes()
}

func decodeBundle(id uuid.UUID, data []byte) (ActionBundle, error) {
	r := bytes.NewReader(data)
	var countBuf [4]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return ActionBundle{}, fmt.Errorf("actionlog: decode bundle %s: %w", id, err)
	}
	count := binary.LittleEndian.Uint32(countBuf[:])
	actions := make([]StoredAction, 0, count)
	for i := uint32(0); i < count; i++ {
		a, ok, err := decodeAction(r)
		if err != nil {
			return ActionBundle{}, fmt.Errorf("actionlog: decode bundle %s: %w", id, err)
		}
		if !ok {
			continue // unrecognised tag: forward-compatible skip
		}
		actions = append(actions, a)
	}
	return ActionBundle{BundleID: id, Actions: actions, PresentInIndex: true}, nil
}

// EncodeActions serialises a bare action slice (no bundle id or index
// framing) for transport, e.g. the sync protocol's upload/data fields.
func EncodeActions(actions []StoredAction) []byte {
	return encodeBundle(ActionBundle{Actions: actions})
}

// DecodeActions is the inverse of EncodeActions.
func DecodeActions(data []byte) ([]StoredAction, error) {
	b, err := decodeBundle(uuid.Nil, data)
	if err != nil {
		return nil, err
	}
	return b.Actions, nil
}

func encodeIndex(bundleIDs []uuid.UUID) []byte {
	var buf bytes.Buffer
	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], uint32(len(bundleIDs)))
	buf.Write(count[:])
	for _, id := range bundleIDs {
		buf.Write(id[:])
	}
	return buf.Bytes()
}

func decodeIndex(data []byte) ([]uuid.UUID, error) {
	r := bytes.NewReader(data)
	var countBuf [4]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, fmt.Errorf("actionlog: decode index: %w", err)
	}
	count := binary.LittleEndian.Uint32(countBuf[:])
	ids := make([]uuid.UUID, count)
	for i := range ids {
		if _, err := io.ReadFull(r, ids[i][:]); err != nil {
			return nil, fmt.Errorf("actionlog: decode index: %w", err)
		}
	}
	return ids, nil
}
